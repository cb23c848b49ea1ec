// Package integration provides integration tests for the tracker engines.
package integration

import (
	"testing"
	"time"

	"github.com/gravida-app/gravida/internal/domain/gestation"
	"github.com/gravida-app/gravida/internal/domain/medication"
	"github.com/gravida-app/gravida/pkg/datemath"
	"github.com/gravida-app/gravida/pkg/idempotency"
)

func TestPregnancyReportFlow(t *testing.T) {
	// A profile with both a recalled period date and a later ultrasound.
	// The ultrasound measurement wins.
	profile := gestation.Profile{
		UserID: "user-001",
		LMP:    "2024-01-10",
		Ultrasound: &gestation.UltrasoundExam{
			ExamDate:    "2024-03-04",
			WeeksAtExam: 9,
			DaysAtExam:  0,
		},
	}

	reference, err := datemath.ParseDate("2024-03-11")
	if err != nil {
		t.Fatalf("parse reference: %v", err)
	}

	report, ok := gestation.DeriveReport(profile, reference)
	if !ok {
		t.Fatal("expected a derivable report")
	}

	// 9w0d on March 4 puts the adjusted start at 2024-01-01.
	if report.EstimatedLMP != "2024-01-01" {
		t.Errorf("estimated LMP = %s, want 2024-01-01", report.EstimatedLMP)
	}
	if report.Age.Weeks != 10 || report.Age.Days != 0 {
		t.Errorf("age = %dw%dd, want 10w0d", report.Age.Weeks, report.Age.Days)
	}
	if report.DueDate != "2024-10-07" {
		t.Errorf("due date = %s, want 2024-10-07", report.DueDate)
	}

	if len(report.ExamWindows) == 0 {
		t.Fatal("expected exam windows")
	}
	first := report.ExamWindows[0]
	if first.StartDate != "2024-02-05" || first.EndDate != "2024-03-03" {
		t.Errorf("dating scan window = %s..%s, want 2024-02-05..2024-03-03", first.StartDate, first.EndDate)
	}

	t.Logf("report: age=%s due=%s windows=%d", report.Age, report.DueDate, len(report.ExamWindows))
}

func TestMedicationDayFlow(t *testing.T) {
	med := medication.Medication{
		ID:        "med-001",
		UserID:    "user-001",
		Name:      "Iron supplement",
		StartDate: "2024-03-01",
		Schedule:  medication.Interval{FirstDose: "21:00", IntervalHours: 8},
		Duration:  medication.ForDays{Days: 3},
	}

	type dayExpect struct {
		date    string
		active  bool
		indices []int
	}
	days := []dayExpect{
		{"2024-02-29", false, nil},
		{"2024-03-01", true, []int{0}},
		{"2024-03-02", true, []int{1, 2, 3}},
		{"2024-03-03", true, []int{4, 5, 6}},
		{"2024-03-04", false, nil},
	}

	for _, d := range days {
		day, err := datemath.ParseDate(d.date)
		if err != nil {
			t.Fatalf("parse %s: %v", d.date, err)
		}

		active := medication.IsActiveOn(med, day)
		if active != d.active {
			t.Errorf("%s: active = %v, want %v", d.date, active, d.active)
			continue
		}
		if !active {
			continue
		}

		occs := medication.DosesForDay(med, day)
		if len(occs) != len(d.indices) {
			t.Errorf("%s: %d doses, want %d", d.date, len(occs), len(d.indices))
			continue
		}
		for i, occ := range occs {
			if occ.Index != d.indices[i] {
				t.Errorf("%s: dose %d has index %d, want %d", d.date, i, occ.Index, d.indices[i])
			}
		}
	}
}

func TestReminderKeyGeneration(t *testing.T) {
	key1 := idempotency.GenerateKey("user-001", "med-001", "2024-03-02", 1)
	key2 := idempotency.GenerateKey("user-001", "med-001", "2024-03-02", 1)
	key3 := idempotency.GenerateKey("user-001", "med-001", "2024-03-02", 2)
	key4 := idempotency.GenerateKey("user-001", "med-002", "2024-03-02", 1)

	if key1 != key2 {
		t.Error("same dose should produce same key")
	}
	if key1 == key3 {
		t.Error("different dose index should produce different key")
	}
	if key1 == key4 {
		t.Error("different medication should produce different key")
	}
}

// Sanity check that a schedule edit replans cleanly: the occurrence set for
// a day is derived purely from current state.
func TestScheduleEditReplan(t *testing.T) {
	day, _ := datemath.ParseDate("2024-03-05")

	med := medication.Medication{
		ID:        "med-002",
		UserID:    "user-001",
		StartDate: "2024-03-01",
		Schedule:  medication.FixedTimes{Doses: []string{"08:00", "20:00"}},
		Duration:  medication.Continuous{},
	}
	before := medication.DosesForDay(med, day)
	if len(before) != 2 {
		t.Fatalf("before edit: %d doses, want 2", len(before))
	}

	med.Schedule = medication.FixedTimes{Doses: []string{"08:00", "14:00", "20:00"}}
	after := medication.DosesForDay(med, day)
	if len(after) != 3 {
		t.Fatalf("after edit: %d doses, want 3", len(after))
	}
	for i, occ := range after {
		if occ.Index != i {
			t.Errorf("after edit: dose %d has index %d", i, occ.Index)
		}
	}

	_, err := time.Parse(datemath.ClockLayout, after[1].Time.String())
	if err != nil {
		t.Errorf("occurrence time not in clock layout: %v", err)
	}
}
