package medication

import (
	"testing"
	"time"

	"github.com/gravida-app/gravida/pkg/datemath"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clock(h, m int) datemath.Clock { return datemath.Clock{Hour: h, Minute: m} }

func TestIsActiveOnContinuous(t *testing.T) {
	med := Medication{StartDate: "2024-01-10", Duration: Continuous{}}

	if IsActiveOn(med, date(2024, 1, 9)) {
		t.Error("active before start date")
	}
	if !IsActiveOn(med, date(2024, 1, 10)) {
		t.Error("inactive on start date")
	}
	if !IsActiveOn(med, date(2030, 6, 1)) {
		t.Error("continuous medication should never end")
	}
}

func TestIsActiveOnForDays(t *testing.T) {
	med := Medication{StartDate: "2024-01-01", Duration: ForDays{Days: 5}}

	tests := []struct {
		day  time.Time
		want bool
	}{
		{date(2023, 12, 31), false},
		{date(2024, 1, 1), true},
		{date(2024, 1, 3), true},
		{date(2024, 1, 5), true},
		{date(2024, 1, 6), false},
	}
	for _, tt := range tests {
		if got := IsActiveOn(med, tt.day); got != tt.want {
			t.Errorf("IsActiveOn(%s) = %v, want %v", tt.day.Format(datemath.DateLayout), got, tt.want)
		}
	}
}

func TestIsActiveOnMalformedStartDate(t *testing.T) {
	med := Medication{StartDate: "soon", Duration: Continuous{}}
	if IsActiveOn(med, date(2024, 1, 1)) {
		t.Error("malformed start date must exclude the medication, not panic")
	}
}

func TestDosesForDayFixedTimes(t *testing.T) {
	med := Medication{
		StartDate: "2024-01-01",
		Schedule:  FixedTimes{Doses: []string{"08:00", "20:00"}},
		Duration:  Continuous{},
	}

	want := []DoseOccurrence{
		{Time: clock(8, 0), Index: 0},
		{Time: clock(20, 0), Index: 1},
	}

	// Slot indices repeat on every active day; they identify the daily
	// slot, not a running total.
	for _, day := range []time.Time{date(2024, 1, 1), date(2024, 2, 15)} {
		got := DosesForDay(med, day)
		assertOccurrences(t, got, want)
	}
}

func TestDosesForDaySkipsMalformedSlots(t *testing.T) {
	med := Medication{
		StartDate: "2024-01-01",
		Schedule:  FixedTimes{Doses: []string{"08:00", "lunchtime", "20:00"}},
	}

	got := DosesForDay(med, date(2024, 1, 1))
	// The bad slot is dropped but the valid entries keep their original
	// positions: index 2, not 1, for the evening dose.
	want := []DoseOccurrence{
		{Time: clock(8, 0), Index: 0},
		{Time: clock(20, 0), Index: 2},
	}
	assertOccurrences(t, got, want)
}

func TestDosesForDayInterval(t *testing.T) {
	med := Medication{
		StartDate: "2024-01-01",
		Schedule:  Interval{FirstDose: "08:00", IntervalHours: 8},
		Duration:  Continuous{},
	}

	// Day one: 08:00 and 16:00; the next step lands at 00:00 on Jan 2.
	got := DosesForDay(med, date(2024, 1, 1))
	assertOccurrences(t, got, []DoseOccurrence{
		{Time: clock(8, 0), Index: 0},
		{Time: clock(16, 0), Index: 1},
	})

	// Day two starts where day one left off: the running index carries
	// across the day boundary.
	got = DosesForDay(med, date(2024, 1, 2))
	assertOccurrences(t, got, []DoseOccurrence{
		{Time: clock(0, 0), Index: 2},
		{Time: clock(8, 0), Index: 3},
		{Time: clock(16, 0), Index: 4},
	})
}

func TestDosesForDayIntervalUnevenWrap(t *testing.T) {
	med := Medication{
		StartDate: "2024-01-01",
		Schedule:  Interval{FirstDose: "06:00", IntervalHours: 5},
	}

	// 24 % 5 != 0, so the per-day count varies. Day one: 06,11,16,21.
	got := DosesForDay(med, date(2024, 1, 1))
	assertOccurrences(t, got, []DoseOccurrence{
		{Time: clock(6, 0), Index: 0},
		{Time: clock(11, 0), Index: 1},
		{Time: clock(16, 0), Index: 2},
		{Time: clock(21, 0), Index: 3},
	})

	// Day two: 02,07,12,17,22 — five doses.
	got = DosesForDay(med, date(2024, 1, 2))
	assertOccurrences(t, got, []DoseOccurrence{
		{Time: clock(2, 0), Index: 4},
		{Time: clock(7, 0), Index: 5},
		{Time: clock(12, 0), Index: 6},
		{Time: clock(17, 0), Index: 7},
		{Time: clock(22, 0), Index: 8},
	})
}

func TestDosesForDayIntervalDegenerate(t *testing.T) {
	base := Medication{StartDate: "2024-01-01"}

	cases := map[string]Medication{
		"zero interval":        withSchedule(base, Interval{FirstDose: "08:00"}),
		"negative interval":    withSchedule(base, Interval{FirstDose: "08:00", IntervalHours: -4}),
		"malformed first dose": withSchedule(base, Interval{FirstDose: "morning", IntervalHours: 8}),
		"malformed start date": {StartDate: "n/a", Schedule: Interval{FirstDose: "08:00", IntervalHours: 8}},
		"no schedule":          base,
	}
	for name, med := range cases {
		t.Run(name, func(t *testing.T) {
			if got := DosesForDay(med, date(2024, 1, 1)); len(got) != 0 {
				t.Errorf("expected no doses, got %v", got)
			}
		})
	}

	// Target before the start date: the walk stops immediately.
	med := withSchedule(base, Interval{FirstDose: "08:00", IntervalHours: 8})
	if got := DosesForDay(med, date(2023, 12, 1)); len(got) != 0 {
		t.Errorf("expected no doses before start, got %v", got)
	}
}

func withSchedule(med Medication, s Schedule) Medication {
	med.Schedule = s
	return med
}

func TestDoseCountPerDay(t *testing.T) {
	tests := []struct {
		name string
		med  Medication
		want int
	}{
		{"fixed two", Medication{Schedule: FixedTimes{Doses: []string{"08:00", "20:00"}}}, 2},
		{"flexible three", Medication{Schedule: Flexible{Doses: []string{"a", "b", "c"}}}, 3},
		{"interval 8h", Medication{Schedule: Interval{IntervalHours: 8}}, 3},
		{"interval 5h floors", Medication{Schedule: Interval{IntervalHours: 5}}, 4},
		{"interval 24h clamps to one", Medication{Schedule: Interval{IntervalHours: 24}}, 1},
		{"interval invalid clamps to one", Medication{Schedule: Interval{}}, 1},
		{"no schedule", Medication{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DoseCountPerDay(tt.med); got != tt.want {
				t.Errorf("DoseCountPerDay = %d, want %d", got, tt.want)
			}
		})
	}
}

func assertOccurrences(t *testing.T, got, want []DoseOccurrence) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("occurrence %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
