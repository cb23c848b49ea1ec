package gestation

import (
	"testing"
	"time"

	"github.com/gravida-app/gravida/pkg/datemath"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEstimateLMPFromDirectEntry(t *testing.T) {
	lmp, ok := EstimateLMP(Profile{LMP: "2024-01-01"})
	if !ok {
		t.Fatal("expected a result")
	}
	if want := date(2024, 1, 1); !lmp.Equal(want) {
		t.Errorf("got %v, want %v", lmp, want)
	}
}

func TestEstimateLMPFromUltrasound(t *testing.T) {
	tests := []struct {
		name    string
		exam    UltrasoundExam
		want    time.Time
		wantOK  bool
	}{
		{
			name:   "weeks and days",
			exam:   UltrasoundExam{ExamDate: "2024-03-15", WeeksAtExam: 8, DaysAtExam: 3},
			want:   date(2024, 3, 15).AddDate(0, 0, -59),
			wantOK: true,
		},
		{
			name:   "weeks only",
			exam:   UltrasoundExam{ExamDate: "2024-03-15", WeeksAtExam: 10},
			want:   date(2024, 3, 15).AddDate(0, 0, -70),
			wantOK: true,
		},
		{
			// Sub-one-week exam ages are accepted: any non-zero total
			// reported age dates the pregnancy.
			name:   "days only",
			exam:   UltrasoundExam{ExamDate: "2024-03-15", DaysAtExam: 4},
			want:   date(2024, 3, 15).AddDate(0, 0, -4),
			wantOK: true,
		},
		{
			name:   "zero age falls through",
			exam:   UltrasoundExam{ExamDate: "2024-03-15"},
			wantOK: false,
		},
		{
			name:   "out-of-range days falls through",
			exam:   UltrasoundExam{ExamDate: "2024-03-15", WeeksAtExam: 8, DaysAtExam: 9},
			wantOK: false,
		},
		{
			name:   "malformed exam date falls through",
			exam:   UltrasoundExam{ExamDate: "15/03/2024", WeeksAtExam: 8},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exam := tt.exam
			got, ok := EstimateLMP(Profile{Ultrasound: &exam})
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEstimateLMPUltrasoundPrecedence(t *testing.T) {
	p := Profile{
		LMP:        "2024-01-01",
		Ultrasound: &UltrasoundExam{ExamDate: "2024-03-15", WeeksAtExam: 8},
	}
	got, ok := EstimateLMP(p)
	if !ok {
		t.Fatal("expected a result")
	}
	if want := date(2024, 3, 15).AddDate(0, 0, -56); !got.Equal(want) {
		t.Errorf("ultrasound should supersede direct LMP: got %v, want %v", got, want)
	}

	// An unusable ultrasound falls back to the direct entry.
	p.Ultrasound = &UltrasoundExam{ExamDate: "bogus", WeeksAtExam: 8}
	got, ok = EstimateLMP(p)
	if !ok || !got.Equal(date(2024, 1, 1)) {
		t.Errorf("expected fallback to direct LMP, got %v ok=%v", got, ok)
	}
}

func TestEstimateLMPInsufficientData(t *testing.T) {
	for _, p := range []Profile{
		{},
		{LMP: "not-a-date"},
		{LMP: "", Ultrasound: &UltrasoundExam{}},
	} {
		if _, ok := EstimateLMP(p); ok {
			t.Errorf("expected no result for %+v", p)
		}
	}
}

func TestAge(t *testing.T) {
	lmp := date(2024, 1, 1)
	tests := []struct {
		name string
		ref  time.Time
		want datemath.WeeksDays
	}{
		{"zero elapsed", lmp, datemath.WeeksDays{}},
		{"seventy days", lmp.AddDate(0, 0, 70), datemath.WeeksDays{Weeks: 10}},
		{"seventy-three days", lmp.AddDate(0, 0, 73), datemath.WeeksDays{Weeks: 10, Days: 3}},
		{"before lmp clamps to zero", lmp.AddDate(0, 0, -5), datemath.WeeksDays{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Age(lmp, tt.ref); got != tt.want {
				t.Errorf("Age = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDueDate(t *testing.T) {
	lmp := date(2024, 1, 1)
	if got, want := DueDate(lmp), lmp.AddDate(0, 0, 280); !got.Equal(want) {
		t.Errorf("DueDate = %v, want %v", got, want)
	}
}

func TestCountdown(t *testing.T) {
	lmp := date(2024, 1, 1)
	due := DueDate(lmp)

	if got := Countdown(lmp, lmp); got != (datemath.WeeksDays{Weeks: 40}) {
		t.Errorf("full countdown = %v", got)
	}
	if got := Countdown(lmp, due); got != (datemath.WeeksDays{}) {
		t.Errorf("countdown on due date = %v, want zero", got)
	}
	if got := Countdown(lmp, due.AddDate(0, 0, 1)); got != (datemath.WeeksDays{}) {
		t.Errorf("countdown past due = %v, want zero", got)
	}
	if got := Countdown(lmp, due.AddDate(0, 0, -10)); got != (datemath.WeeksDays{Weeks: 1, Days: 3}) {
		t.Errorf("countdown ten days out = %v", got)
	}
}

func TestWindowBounds(t *testing.T) {
	lmp := date(2024, 1, 1)

	// Week 1 starts on the LMP itself.
	if got := WindowStart(lmp, 1); !got.Equal(lmp) {
		t.Errorf("WindowStart(1) = %v", got)
	}
	if got := WindowStart(lmp, 11); !got.Equal(lmp.AddDate(0, 0, 70)) {
		t.Errorf("WindowStart(11) = %v", got)
	}
	if got := WindowEnd(lmp, 14); !got.Equal(lmp.AddDate(0, 0, 97)) {
		t.Errorf("WindowEnd(14) = %v", got)
	}
}

func TestDeriveReport(t *testing.T) {
	ref := date(2024, 3, 11) // 10 weeks after 2024-01-01
	report, ok := DeriveReport(Profile{LMP: "2024-01-01"}, ref)
	if !ok {
		t.Fatal("expected a report")
	}
	if report.EstimatedLMP != "2024-01-01" {
		t.Errorf("EstimatedLMP = %q", report.EstimatedLMP)
	}
	if report.Age != (datemath.WeeksDays{Weeks: 10}) {
		t.Errorf("Age = %v", report.Age)
	}
	if report.DueDate != "2024-10-07" {
		t.Errorf("DueDate = %q", report.DueDate)
	}
	if report.Countdown != (datemath.WeeksDays{Weeks: 30}) {
		t.Errorf("Countdown = %v", report.Countdown)
	}
	if len(report.ExamWindows) != len(StandardExamWindows) {
		t.Errorf("ExamWindows count = %d", len(report.ExamWindows))
	}

	if _, ok := DeriveReport(Profile{}, ref); ok {
		t.Error("expected no report for empty profile")
	}
}
