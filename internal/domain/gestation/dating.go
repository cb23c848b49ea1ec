package gestation

import (
	"time"

	"github.com/gravida-app/gravida/pkg/datemath"
)

// gestationDays is the conventional pregnancy length from LMP: 40 weeks.
// Standard obstetric convention, not configurable.
const gestationDays = 280

// EstimateLMP derives the estimated last-menstrual-period date from the
// profile. An ultrasound with a non-zero reported age at exam supersedes a
// directly entered LMP: first-trimester ultrasound dating is clinically
// more reliable than maternal recall of the last period.
//
// Returns false when neither source yields a usable date. A malformed date
// string disqualifies that source only; it never aborts the whole
// derivation.
func EstimateLMP(p Profile) (time.Time, bool) {
	if age := p.Ultrasound.ageAtExam(); age > 0 {
		if exam, err := datemath.ParseDate(p.Ultrasound.ExamDate); err == nil {
			return exam.AddDate(0, 0, -age), true
		}
	}
	if p.LMP != "" {
		if lmp, err := datemath.ParseDate(p.LMP); err == nil {
			return lmp, true
		}
	}
	return time.Time{}, false
}

// Age returns the gestational age at referenceDate. A reference date before
// the estimated LMP yields zero, not an error: per current data the
// pregnancy simply has not started yet.
func Age(estimatedLMP, referenceDate time.Time) datemath.WeeksDays {
	total := datemath.DaysBetween(estimatedLMP, referenceDate)
	if total < 0 {
		return datemath.WeeksDays{}
	}
	return datemath.DecomposeDays(total)
}

// DueDate returns the expected delivery date: estimated LMP plus 280 days.
func DueDate(estimatedLMP time.Time) time.Time {
	return datemath.Truncate(estimatedLMP).AddDate(0, 0, gestationDays)
}

// Countdown returns the time remaining until the due date, clamped to zero
// once the due date has passed.
func Countdown(estimatedLMP, referenceDate time.Time) datemath.WeeksDays {
	remaining := datemath.DaysBetween(referenceDate, DueDate(estimatedLMP))
	if remaining < 0 {
		return datemath.WeeksDays{}
	}
	return datemath.DecomposeDays(remaining)
}

// WindowStart returns the first day of a gestational week window.
// Week numbering is one-based: week 1 starts on the LMP itself.
func WindowStart(estimatedLMP time.Time, startWeek int) time.Time {
	return datemath.Truncate(estimatedLMP).AddDate(0, 0, (startWeek-1)*7)
}

// WindowEnd returns the last day of a gestational week window, inclusive.
func WindowEnd(estimatedLMP time.Time, endWeek int) time.Time {
	return datemath.Truncate(estimatedLMP).AddDate(0, 0, endWeek*7-1)
}
