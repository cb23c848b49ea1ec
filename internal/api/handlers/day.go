package handlers

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/gravida-app/gravida/internal/domain/journal"
	"github.com/gravida-app/gravida/internal/domain/medication"
	"github.com/gravida-app/gravida/internal/observability/metrics"
	"github.com/gravida-app/gravida/pkg/datemath"
)

// DayHandler assembles the per-day view: scheduled doses joined with
// adherence records, plus the day's tracking summary.
type DayHandler struct {
	meds    *medication.Repository
	journal *journal.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewDayHandler creates a new handler.
func NewDayHandler(meds *medication.Repository, jr *journal.Repository, m *metrics.Metrics, logger *zap.Logger) *DayHandler {
	return &DayHandler{meds: meds, journal: jr, metrics: m, logger: logger}
}

// Routes returns the handler routes, mounted under a user scope.
func (h *DayHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{date}/doses", h.Doses)
	r.Get("/{date}", h.Summary)
	return r
}

// doseView is one scheduled dose joined with its taken state.
type doseView struct {
	Time      string `json:"time"`
	DoseIndex int    `json:"dose_index"`
	Taken     bool   `json:"taken"`
}

// medicationDayView is one medication's doses for the day.
type medicationDayView struct {
	MedicationID string     `json:"medication_id"`
	Name         string     `json:"name"`
	Dosage       string     `json:"dosage,omitempty"`
	Doses        []doseView `json:"doses"`
}

// dayDosesResponse is the full dose plan for one day.
type dayDosesResponse struct {
	Date        string              `json:"date"`
	Medications []medicationDayView `json:"medications"`
}

// Doses handles GET /users/{userID}/days/{date}/doses.
func (h *DayHandler) Doses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tracer := otel.Tracer("day-handler")
	ctx, span := tracer.Start(ctx, "day_doses")
	defer span.End()

	userID := chi.URLParam(r, "userID")
	rawDate := chi.URLParam(r, "date")

	target, err := datemath.ParseDate(rawDate)
	if err != nil {
		jsonError(w, "invalid date", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("user_id", userID), attribute.String("date", rawDate))

	meds, err := h.meds.ListByUser(ctx, userID)
	if err != nil {
		h.logger.Error("medication list failed", zap.Error(err))
		jsonError(w, "failed to load medications", http.StatusInternalServerError)
		return
	}

	taken, err := h.meds.TakenForDay(ctx, userID, rawDate)
	if err != nil {
		h.logger.Error("taken records load failed", zap.Error(err))
		jsonError(w, "failed to load adherence records", http.StatusInternalServerError)
		return
	}

	resp := dayDosesResponse{
		Date:        rawDate,
		Medications: h.expandDay(meds, taken, target),
	}
	h.metrics.DayViewsServed.Inc()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// expandDay runs the schedule engine over the user's medications for one day
// and joins each occurrence with its taken state.
func (h *DayHandler) expandDay(meds []medication.Medication, taken map[string][]int, target time.Time) []medicationDayView {
	start := time.Now()
	views := []medicationDayView{}
	for _, med := range meds {
		if !medication.IsActiveOn(med, target) {
			continue
		}
		occurrences := medication.DosesForDay(med, target)
		if len(occurrences) == 0 {
			continue
		}

		view := medicationDayView{
			MedicationID: med.ID,
			Name:         med.Name,
			Dosage:       med.Dosage,
			Doses:        make([]doseView, 0, len(occurrences)),
		}
		for _, occ := range occurrences {
			view.Doses = append(view.Doses, doseView{
				Time:      occ.Time.String(),
				DoseIndex: occ.Index,
				Taken:     slices.Contains(taken[med.ID], occ.Index),
			})
		}
		views = append(views, view)
	}
	h.metrics.ScheduleExpansion.Observe(time.Since(start).Seconds())
	return views
}

// daySummaryResponse is the full day view: scheduled doses plus the day's
// tracking records.
type daySummaryResponse struct {
	journal.DaySummary
	Medications []medicationDayView `json:"medications"`
}

// Summary handles GET /users/{userID}/days/{date}: the whole day in one
// response, dose plan and tracking records together.
func (h *DayHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")
	rawDate := chi.URLParam(r, "date")

	target, err := datemath.ParseDate(rawDate)
	if err != nil {
		jsonError(w, "invalid date", http.StatusBadRequest)
		return
	}

	summary, err := h.journal.SummaryForDay(ctx, userID, rawDate)
	if err != nil {
		h.logger.Error("day summary failed", zap.Error(err))
		jsonError(w, "failed to load day summary", http.StatusInternalServerError)
		return
	}

	meds, err := h.meds.ListByUser(ctx, userID)
	if err != nil {
		h.logger.Error("medication list failed", zap.Error(err))
		jsonError(w, "failed to load medications", http.StatusInternalServerError)
		return
	}
	taken, err := h.meds.TakenForDay(ctx, userID, rawDate)
	if err != nil {
		h.logger.Error("taken records load failed", zap.Error(err))
		jsonError(w, "failed to load adherence records", http.StatusInternalServerError)
		return
	}

	resp := daySummaryResponse{
		DaySummary:  summary,
		Medications: h.expandDay(meds, taken, target),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
