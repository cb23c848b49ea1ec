// Package medication implements medication plans and the dose schedule
// engine that expands a plan into concrete per-day dose occurrences.
package medication

import (
	"time"
)

// Schedule describes when doses of a medication are due. It is a closed
// set of variants; each carries only the fields its rule needs.
type Schedule interface {
	scheduleKind() ScheduleKind
}

// ScheduleKind is the wire tag for a schedule variant.
type ScheduleKind string

const (
	KindFixedTimes ScheduleKind = "fixed_times"
	KindFlexible   ScheduleKind = "flexible"
	KindInterval   ScheduleKind = "interval"
)

// FixedTimes prescribes doses at fixed times of day, every active day.
// Doses holds one HH:MM entry per daily dose slot.
type FixedTimes struct {
	Doses []string
}

// Flexible prescribes a number of doses per day without binding times;
// Doses still carries one HH:MM entry per slot, used as a suggestion.
type Flexible struct {
	Doses []string
}

// Interval prescribes a first dose time and a fixed hour interval
// thereafter, rolling across day boundaries.
type Interval struct {
	FirstDose     string
	IntervalHours int
}

func (FixedTimes) scheduleKind() ScheduleKind { return KindFixedTimes }
func (Flexible) scheduleKind() ScheduleKind   { return KindFlexible }
func (Interval) scheduleKind() ScheduleKind   { return KindInterval }

// Kind returns the wire tag for s, or the empty string for nil.
func Kind(s Schedule) ScheduleKind {
	if s == nil {
		return ""
	}
	return s.scheduleKind()
}

// Duration describes how long a medication is taken from its start date.
type Duration interface {
	durationKind() DurationKind
}

// DurationKind is the wire tag for a duration variant.
type DurationKind string

const (
	KindContinuous DurationKind = "continuous"
	KindForDays    DurationKind = "days"
)

// Continuous means the medication has no end date.
type Continuous struct{}

// ForDays means the medication is taken for exactly Days calendar days,
// inclusive of the start date.
type ForDays struct {
	Days int
}

func (Continuous) durationKind() DurationKind { return KindContinuous }
func (ForDays) durationKind() DurationKind    { return KindForDays }

// DurationOf returns the wire tag for d, or the empty string for nil.
func DurationOf(d Duration) DurationKind {
	if d == nil {
		return ""
	}
	return d.durationKind()
}

// Medication is a persisted medication plan. StartDate is kept in wire
// form (YYYY-MM-DD) because the store never validates it; a malformed
// start date excludes the medication from schedule expansion rather than
// failing the whole day view.
type Medication struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	StartDate string    `json:"start_date"`
	Schedule  Schedule  `json:"-"`
	Duration  Duration  `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TakenRecord marks one dose occurrence as taken.
type TakenRecord struct {
	UserID       string    `json:"user_id"`
	MedicationID string    `json:"medication_id"`
	Date         string    `json:"date"`
	DoseIndex    int       `json:"dose_index"`
	TakenAt      time.Time `json:"taken_at"`
}
