package gestation

import (
	"time"

	"github.com/gravida-app/gravida/pkg/datemath"
)

// ExamWindowSpec is a recommended scheduling window for a standard prenatal
// ultrasound exam, expressed in gestational weeks.
type ExamWindowSpec struct {
	Name      string
	StartWeek int
	EndWeek   int
}

// StandardExamWindows is the fixed reference table of routine prenatal
// ultrasound exams and their recommended gestational-week windows.
var StandardExamWindows = []ExamWindowSpec{
	{Name: "dating scan", StartWeek: 6, EndWeek: 9},
	{Name: "nuchal translucency", StartWeek: 11, EndWeek: 14},
	{Name: "morphology scan", StartWeek: 20, EndWeek: 24},
	{Name: "growth scan", StartWeek: 28, EndWeek: 32},
	{Name: "term scan", StartWeek: 36, EndWeek: 40},
}

// ExamWindow is an exam window resolved against a concrete estimated LMP.
type ExamWindow struct {
	Name      string `json:"name"`
	StartWeek int    `json:"start_week"`
	EndWeek   int    `json:"end_week"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ExamWindows resolves the standard exam table against an estimated LMP.
func ExamWindows(estimatedLMP time.Time) []ExamWindow {
	windows := make([]ExamWindow, 0, len(StandardExamWindows))
	for _, spec := range StandardExamWindows {
		windows = append(windows, ExamWindow{
			Name:      spec.Name,
			StartWeek: spec.StartWeek,
			EndWeek:   spec.EndWeek,
			StartDate: WindowStart(estimatedLMP, spec.StartWeek).Format(datemath.DateLayout),
			EndDate:   WindowEnd(estimatedLMP, spec.EndWeek).Format(datemath.DateLayout),
		})
	}
	return windows
}
