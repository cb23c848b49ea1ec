package datemath

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", date(2024, 3, 10), date(2024, 3, 10), 0},
		{"one day forward", date(2024, 3, 10), date(2024, 3, 11), 1},
		{"one day backward", date(2024, 3, 11), date(2024, 3, 10), -1},
		{"across month", date(2024, 1, 31), date(2024, 2, 2), 2},
		{"leap day", date(2024, 2, 28), date(2024, 3, 1), 2},
		{"non-leap year", date(2023, 2, 28), date(2023, 3, 1), 1},
		{"across year", date(2023, 12, 30), date(2024, 1, 2), 3},
		{"forty weeks", date(2024, 1, 1), date(2024, 10, 7), 280},
		{"ignores time of day", date(2024, 3, 10).Add(23 * time.Hour), date(2024, 3, 11), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := DaysBetween(tt.b, tt.a); got != -tt.want {
				t.Errorf("DaysBetween(%v, %v) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestDecomposeDays(t *testing.T) {
	tests := []struct {
		total int
		want  WeeksDays
	}{
		{0, WeeksDays{0, 0}},
		{6, WeeksDays{0, 6}},
		{7, WeeksDays{1, 0}},
		{70, WeeksDays{10, 0}},
		{73, WeeksDays{10, 3}},
		{280, WeeksDays{40, 0}},
	}

	for _, tt := range tests {
		if got := DecomposeDays(tt.total); got != tt.want {
			t.Errorf("DecomposeDays(%d) = %v, want %v", tt.total, got, tt.want)
		}
		if got := DecomposeDays(tt.total).TotalDays(); got != tt.total {
			t.Errorf("TotalDays round trip for %d = %d", tt.total, got)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-01-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if want := date(2024, 1, 15); !got.Equal(want) {
		t.Errorf("ParseDate = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "15/01/2024", "2024-13-01", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) expected error", bad)
		}
	}
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("08:30")
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	if got.Hour != 8 || got.Minute != 30 {
		t.Errorf("ParseClock = %+v", got)
	}
	if got.String() != "08:30" {
		t.Errorf("String = %q", got.String())
	}

	at := got.At(date(2024, 1, 1))
	if want := time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC); !at.Equal(want) {
		t.Errorf("At = %v, want %v", at, want)
	}

	for _, bad := range []string{"", "8h30", "25:00", "08:61", "noon"} {
		if _, err := ParseClock(bad); err == nil {
			t.Errorf("ParseClock(%q) expected error", bad)
		}
	}
}
