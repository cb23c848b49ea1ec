package medication

import (
	"time"

	"github.com/gravida-app/gravida/pkg/datemath"
)

// DoseOccurrence is one concrete scheduled dose on a specific day.
//
// Index is the stable identifier used to record adherence. For fixed and
// flexible schedules it is the position in the daily dose list, repeating
// every active day. For interval schedules it is a running counter across
// all days since the first dose, so a given occurrence keeps its index
// even when the per-day dose count varies.
type DoseOccurrence struct {
	Time  datemath.Clock `json:"time"`
	Index int            `json:"dose_index"`
}

// IsActiveOn reports whether the medication is taken on targetDate.
// A malformed start date makes the medication inactive everywhere; one bad
// record must never break the day view.
func IsActiveOn(med Medication, targetDate time.Time) bool {
	start, err := datemath.ParseDate(med.StartDate)
	if err != nil {
		return false
	}
	elapsed := datemath.DaysBetween(start, targetDate)
	if elapsed < 0 {
		return false
	}
	switch d := med.Duration.(type) {
	case ForDays:
		return elapsed < d.Days
	default:
		// Continuous, or absent duration treated as continuous.
		return true
	}
}

// DosesForDay expands the medication's schedule into the doses due on
// targetDate, in time order.
//
// Callers are expected to have checked IsActiveOn first: fixed and
// flexible schedules emit their full slot list for any target date.
// Unparseable dose times are skipped without renumbering the remaining
// slots.
func DosesForDay(med Medication, targetDate time.Time) []DoseOccurrence {
	switch s := med.Schedule.(type) {
	case FixedTimes:
		return slotOccurrences(s.Doses)
	case Flexible:
		return slotOccurrences(s.Doses)
	case Interval:
		return intervalOccurrences(med.StartDate, s, targetDate)
	default:
		return nil
	}
}

func slotOccurrences(doses []string) []DoseOccurrence {
	var out []DoseOccurrence
	for i, raw := range doses {
		clock, err := datemath.ParseClock(raw)
		if err != nil {
			// Bad slot: skip it, keep the original positions of the rest.
			continue
		}
		out = append(out, DoseOccurrence{Time: clock, Index: i})
	}
	return out
}

func intervalOccurrences(startDate string, s Interval, targetDate time.Time) []DoseOccurrence {
	if s.IntervalHours <= 0 {
		return nil
	}
	start, err := datemath.ParseDate(startDate)
	if err != nil {
		return nil
	}
	first, err := datemath.ParseClock(s.FirstDose)
	if err != nil {
		return nil
	}

	target := datemath.Truncate(targetDate)
	step := time.Duration(s.IntervalHours) * time.Hour

	var out []DoseOccurrence
	// Walk forward from the first dose, keeping the running index alive
	// across day boundaries. With 24 % intervalHours != 0 the per-day dose
	// count varies between days; that is the schedule's nature.
	for t, idx := first.At(start), 0; ; t, idx = t.Add(step), idx+1 {
		day := datemath.Truncate(t)
		if day.Before(target) {
			continue
		}
		if day.After(target) {
			return out
		}
		out = append(out, DoseOccurrence{
			Time:  datemath.Clock{Hour: t.Hour(), Minute: t.Minute()},
			Index: idx,
		})
	}
}

// DoseCountPerDay infers the nominal daily dose count for form
// pre-population. It is not authoritative: interval schedules can exceed
// it on days where the interval wraps.
func DoseCountPerDay(med Medication) int {
	switch s := med.Schedule.(type) {
	case Interval:
		if s.IntervalHours <= 0 {
			return 1
		}
		if n := 24 / s.IntervalHours; n > 1 {
			return n
		}
		return 1
	case FixedTimes:
		return len(s.Doses)
	case Flexible:
		return len(s.Doses)
	default:
		return 0
	}
}
