package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/gravida-app/gravida/internal/domain/medication"
	"github.com/gravida-app/gravida/internal/observability/metrics"
	"github.com/gravida-app/gravida/pkg/datemath"
)

// MedicationHandler handles medication plan endpoints.
type MedicationHandler struct {
	repo    *medication.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewMedicationHandler creates a new handler.
func NewMedicationHandler(repo *medication.Repository, m *metrics.Metrics, logger *zap.Logger) *MedicationHandler {
	return &MedicationHandler{repo: repo, metrics: m, logger: logger}
}

// Routes returns the handler routes, mounted under a user scope.
func (h *MedicationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/doses/{date}/{index}", h.MarkTaken)
	r.Delete("/{id}/doses/{date}/{index}", h.UnmarkTaken)
	return r
}

// schedulePayload is the wire form of a schedule variant.
type schedulePayload struct {
	Kind          string   `json:"kind"`
	Doses         []string `json:"doses,omitempty"`
	FirstDose     string   `json:"first_dose,omitempty"`
	IntervalHours int      `json:"interval_hours,omitempty"`
}

// durationPayload is the wire form of a duration variant.
type durationPayload struct {
	Kind string `json:"kind"`
	Days int    `json:"days,omitempty"`
}

// medicationRequest is the request body for creating or updating a plan.
type medicationRequest struct {
	Name      string          `json:"name"`
	Dosage    string          `json:"dosage,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	StartDate string          `json:"start_date"`
	Schedule  schedulePayload `json:"schedule"`
	Duration  durationPayload `json:"duration"`
}

// medicationResponse is the wire form of a stored plan.
type medicationResponse struct {
	medication.Medication
	Schedule schedulePayload `json:"schedule"`
	Duration durationPayload `json:"duration"`
	// DoseCountPerDay is the inferred daily dose count, for form
	// pre-population only.
	DoseCountPerDay int `json:"dose_count_per_day"`
}

func (req medicationRequest) validate() string {
	if req.Name == "" {
		return "name is required"
	}
	if _, err := datemath.ParseDate(req.StartDate); err != nil {
		return "start_date must be YYYY-MM-DD"
	}
	switch medication.ScheduleKind(req.Schedule.Kind) {
	case medication.KindFixedTimes, medication.KindFlexible:
		if len(req.Schedule.Doses) == 0 {
			return "schedule requires at least one dose time"
		}
	case medication.KindInterval:
		if req.Schedule.FirstDose == "" {
			return "interval schedule requires first_dose"
		}
		if req.Schedule.IntervalHours < 1 || req.Schedule.IntervalHours > 24 {
			return "interval_hours must be between 1 and 24"
		}
	default:
		return "unknown schedule kind"
	}
	switch medication.DurationKind(req.Duration.Kind) {
	case medication.KindContinuous:
	case medication.KindForDays:
		if req.Duration.Days <= 0 {
			return "duration days must be positive"
		}
	default:
		return "unknown duration kind"
	}
	return ""
}

func (req medicationRequest) toDomain(userID, id string) medication.Medication {
	med := medication.Medication{
		ID:        id,
		UserID:    userID,
		Name:      req.Name,
		Dosage:    req.Dosage,
		Notes:     req.Notes,
		StartDate: req.StartDate,
	}
	switch medication.ScheduleKind(req.Schedule.Kind) {
	case medication.KindFixedTimes:
		med.Schedule = medication.FixedTimes{Doses: req.Schedule.Doses}
	case medication.KindFlexible:
		med.Schedule = medication.Flexible{Doses: req.Schedule.Doses}
	case medication.KindInterval:
		med.Schedule = medication.Interval{
			FirstDose:     req.Schedule.FirstDose,
			IntervalHours: req.Schedule.IntervalHours,
		}
	}
	switch medication.DurationKind(req.Duration.Kind) {
	case medication.KindForDays:
		med.Duration = medication.ForDays{Days: req.Duration.Days}
	default:
		med.Duration = medication.Continuous{}
	}
	return med
}

func toResponse(med medication.Medication) medicationResponse {
	resp := medicationResponse{
		Medication:      med,
		Schedule:        schedulePayload{Kind: string(medication.Kind(med.Schedule))},
		Duration:        durationPayload{Kind: string(medication.DurationOf(med.Duration))},
		DoseCountPerDay: medication.DoseCountPerDay(med),
	}
	switch s := med.Schedule.(type) {
	case medication.FixedTimes:
		resp.Schedule.Doses = s.Doses
	case medication.Flexible:
		resp.Schedule.Doses = s.Doses
	case medication.Interval:
		resp.Schedule.FirstDose = s.FirstDose
		resp.Schedule.IntervalHours = s.IntervalHours
	}
	if d, ok := med.Duration.(medication.ForDays); ok {
		resp.Duration.Days = d.Days
	}
	return resp
}

// Create handles POST /users/{userID}/medications.
func (h *MedicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tracer := otel.Tracer("medication-handler")
	ctx, span := tracer.Start(ctx, "create_medication")
	defer span.End()

	userID := chi.URLParam(r, "userID")

	var req medicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		jsonError(w, msg, http.StatusBadRequest)
		return
	}

	med := req.toDomain(userID, uuid.New().String())
	span.SetAttributes(attribute.String("medication_id", med.ID))

	if err := h.repo.Create(ctx, med); err != nil {
		h.logger.Error("medication create failed", zap.Error(err))
		jsonError(w, "failed to create medication", http.StatusInternalServerError)
		return
	}

	h.metrics.MedicationsCreated.Inc()
	h.logger.Info("medication created",
		zap.String("medication_id", med.ID),
		zap.String("user_id", userID),
		zap.String("schedule_kind", string(medication.Kind(med.Schedule))),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toResponse(med))
}

// List handles GET /users/{userID}/medications.
func (h *MedicationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	meds, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("medication list failed", zap.Error(err))
		jsonError(w, "failed to list medications", http.StatusInternalServerError)
		return
	}

	out := make([]medicationResponse, 0, len(meds))
	for _, med := range meds {
		out = append(out, toResponse(med))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Get handles GET /users/{userID}/medications/{id}.
func (h *MedicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	med, err := h.repo.Get(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "id"))
	if errors.Is(err, medication.ErrNotFound) {
		jsonError(w, "medication not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("medication load failed", zap.Error(err))
		jsonError(w, "failed to load medication", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toResponse(med))
}

// Update handles PUT /users/{userID}/medications/{id}.
func (h *MedicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	id := chi.URLParam(r, "id")

	var req medicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		jsonError(w, msg, http.StatusBadRequest)
		return
	}

	med := req.toDomain(userID, id)
	err := h.repo.Update(r.Context(), med)
	if errors.Is(err, medication.ErrNotFound) {
		jsonError(w, "medication not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("medication update failed", zap.Error(err))
		jsonError(w, "failed to update medication", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toResponse(med))
}

// Delete handles DELETE /users/{userID}/medications/{id}.
func (h *MedicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.repo.Delete(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "id"))
	if errors.Is(err, medication.ErrNotFound) {
		jsonError(w, "medication not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("medication delete failed", zap.Error(err))
		jsonError(w, "failed to delete medication", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkTaken handles POST /users/{userID}/medications/{id}/doses/{date}/{index}.
func (h *MedicationHandler) MarkTaken(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.takenRecordFromPath(w, r)
	if !ok {
		return
	}
	rec.TakenAt = time.Now().UTC()

	if err := h.repo.MarkTaken(r.Context(), rec); err != nil {
		h.logger.Error("mark taken failed", zap.Error(err))
		jsonError(w, "failed to mark dose taken", http.StatusInternalServerError)
		return
	}

	h.metrics.DosesMarkedTaken.Inc()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// UnmarkTaken handles DELETE /users/{userID}/medications/{id}/doses/{date}/{index}.
func (h *MedicationHandler) UnmarkTaken(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.takenRecordFromPath(w, r)
	if !ok {
		return
	}

	err := h.repo.UnmarkTaken(r.Context(), rec.UserID, rec.MedicationID, rec.Date, rec.DoseIndex)
	if err != nil {
		h.logger.Error("unmark taken failed", zap.Error(err))
		jsonError(w, "failed to unmark dose", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MedicationHandler) takenRecordFromPath(w http.ResponseWriter, r *http.Request) (medication.TakenRecord, bool) {
	date := chi.URLParam(r, "date")
	if _, err := datemath.ParseDate(date); err != nil {
		jsonError(w, "invalid date", http.StatusBadRequest)
		return medication.TakenRecord{}, false
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		jsonError(w, "invalid dose index", http.StatusBadRequest)
		return medication.TakenRecord{}, false
	}
	return medication.TakenRecord{
		UserID:       chi.URLParam(r, "userID"),
		MedicationID: chi.URLParam(r, "id"),
		Date:         date,
		DoseIndex:    index,
	}, true
}
