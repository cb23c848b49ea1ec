// Package gestation implements gestational dating: estimating the last
// menstrual period from user-entered facts and deriving gestational age,
// due date and countdown from it.
package gestation

import (
	"time"

	"github.com/gravida-app/gravida/pkg/datemath"
)

// Profile holds the raw user-entered dating facts as persisted. Dates are
// kept in wire form because the store never validates them; parsing happens
// at derivation time and failures degrade to "no result".
type Profile struct {
	UserID string `json:"user_id"`

	// LMP is the directly entered last-menstrual-period date, YYYY-MM-DD.
	// Empty when the user never entered one.
	LMP string `json:"lmp,omitempty"`

	// Ultrasound is the most recent dating exam, if any.
	Ultrasound *UltrasoundExam `json:"ultrasound,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// UltrasoundExam records an ultrasound exam date and the gestational age
// the exam reported.
type UltrasoundExam struct {
	ExamDate    string `json:"exam_date"`
	WeeksAtExam int    `json:"weeks_at_exam"`
	DaysAtExam  int    `json:"days_at_exam"`
}

// ageAtExam returns the reported gestational age at exam in days, or -1 if
// the reported values are unusable.
func (u *UltrasoundExam) ageAtExam() int {
	if u == nil || u.WeeksAtExam < 0 || u.DaysAtExam < 0 || u.DaysAtExam > 6 {
		return -1
	}
	return u.WeeksAtExam*7 + u.DaysAtExam
}

// Report is the full set of derived dating values for one reference date.
type Report struct {
	EstimatedLMP string             `json:"estimated_lmp"`
	Age          datemath.WeeksDays `json:"gestational_age"`
	DueDate      string             `json:"due_date"`
	Countdown    datemath.WeeksDays `json:"countdown"`
	ExamWindows  []ExamWindow       `json:"exam_windows"`
}

// DeriveReport computes every derived dating value for the profile at the
// given reference date. The second return is false when the profile has no
// usable dating source; callers surface that as a distinct "no data yet"
// state, never as zero dates.
func DeriveReport(p Profile, referenceDate time.Time) (Report, bool) {
	lmp, ok := EstimateLMP(p)
	if !ok {
		return Report{}, false
	}
	return Report{
		EstimatedLMP: lmp.Format(datemath.DateLayout),
		Age:          Age(lmp, referenceDate),
		DueDate:      DueDate(lmp).Format(datemath.DateLayout),
		Countdown:    Countdown(lmp, referenceDate),
		ExamWindows:  ExamWindows(lmp),
	}, true
}
