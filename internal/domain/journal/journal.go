// Package journal implements the daily tracking records that sit alongside
// the pregnancy profile: journal entries, weight, hydration and
// contractions. Records are thin typed rows keyed by user and calendar day.
package journal

import (
	"time"
)

// Entry is a free-form journal note for a day.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	Mood      string    `json:"mood,omitempty"`
	Symptoms  []string  `json:"symptoms,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WeightRecord is one weight measurement.
type WeightRecord struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Date       string    `json:"date"`
	WeightKg   float64   `json:"weight_kg"`
	RecordedAt time.Time `json:"recorded_at"`
}

// HydrationLog is one logged drink.
type HydrationLog struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Date       string    `json:"date"`
	AmountML   int       `json:"amount_ml"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ContractionSession is one timed contraction.
type ContractionSession struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	StartedAt   time.Time `json:"started_at"`
	DurationSec int       `json:"duration_sec"`
}

// DaySummary aggregates a user's tracking records for one day.
type DaySummary struct {
	Date             string               `json:"date"`
	Entries          []Entry              `json:"entries"`
	Weights          []WeightRecord       `json:"weights"`
	HydrationTotalML int                  `json:"hydration_total_ml"`
	Contractions     []ContractionSession `json:"contractions"`
}
