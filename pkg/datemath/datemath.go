// Package datemath provides calendar-day arithmetic and the wire date/time
// formats used by the tracking domain. Everything here operates at whole-day
// granularity; time-of-day never participates in day differences.
package datemath

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"
	// ClockLayout is the wire format for times of day (24-hour).
	ClockLayout = "15:04"
)

// WeeksDays is a day count decomposed into whole weeks plus remainder days.
type WeeksDays struct {
	Weeks int `json:"weeks"`
	Days  int `json:"days"`
}

// TotalDays returns the flat day count represented by w.
func (w WeeksDays) TotalDays() int { return w.Weeks*7 + w.Days }

func (w WeeksDays) String() string {
	return fmt.Sprintf("%dw%dd", w.Weeks, w.Days)
}

// Truncate strips the time-of-day component, keeping the calendar date in UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of calendar days from a to b,
// positive when b is after a. DaysBetween(a, b) == -DaysBetween(b, a).
func DaysBetween(a, b time.Time) int {
	return int(Truncate(b).Sub(Truncate(a)).Hours() / 24)
}

// DecomposeDays splits a non-negative day count into weeks and remainder
// days. Callers clamp negative counts to zero before calling; the clamp
// policy lives with the caller because "negative" means different things
// per derivation (not yet started vs. past due).
func DecomposeDays(totalDays int) WeeksDays {
	return WeeksDays{Weeks: totalDays / 7, Days: totalDays % 7}
}

// ParseDate parses a YYYY-MM-DD wire date into a UTC midnight instant.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseClock parses an HH:MM wire time of day.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return Clock{}, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Clock is a time of day without a date attached.
type Clock struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// At anchors the clock time onto a calendar date, producing a UTC instant.
func (c Clock) At(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, time.UTC)
}
