package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gravida-app/gravida/internal/domain/journal"
	"github.com/gravida-app/gravida/internal/observability/metrics"
	"github.com/gravida-app/gravida/pkg/datemath"
)

// JournalHandler handles tracking record endpoints.
type JournalHandler struct {
	repo    *journal.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewJournalHandler creates a new handler.
func NewJournalHandler(repo *journal.Repository, m *metrics.Metrics, logger *zap.Logger) *JournalHandler {
	return &JournalHandler{repo: repo, metrics: m, logger: logger}
}

// Routes returns the handler routes, mounted under a user scope.
func (h *JournalHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/entries", h.CreateEntry)
	r.Get("/entries", h.Entries)
	r.Post("/weights", h.CreateWeight)
	r.Post("/hydration", h.CreateHydration)
	r.Post("/contractions", h.CreateContraction)
	return r
}

// Entries handles GET /users/{userID}/journal/entries?date=YYYY-MM-DD.
func (h *JournalHandler) Entries(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	date := r.URL.Query().Get("date")

	if _, err := datemath.ParseDate(date); err != nil {
		jsonError(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	entries, err := h.repo.EntriesForDay(r.Context(), userID, date)
	if err != nil {
		h.logger.Error("journal entries load failed", zap.Error(err))
		jsonError(w, "failed to load journal entries", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

type entryRequest struct {
	Date     string   `json:"date"`
	Mood     string   `json:"mood,omitempty"`
	Symptoms []string `json:"symptoms,omitempty"`
	Note     string   `json:"note,omitempty"`
}

// CreateEntry handles POST /users/{userID}/journal/entries.
func (h *JournalHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := datemath.ParseDate(req.Date); err != nil {
		jsonError(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if req.Note == "" && req.Mood == "" && len(req.Symptoms) == 0 {
		jsonError(w, "entry is empty", http.StatusBadRequest)
		return
	}

	entry := journal.Entry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Date:      req.Date,
		Mood:      req.Mood,
		Symptoms:  req.Symptoms,
		Note:      req.Note,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repo.CreateEntry(r.Context(), entry); err != nil {
		h.logger.Error("journal entry create failed", zap.Error(err))
		jsonError(w, "failed to create entry", http.StatusInternalServerError)
		return
	}

	h.metrics.JournalRecordsCreated.Inc()
	created(w, entry)
}

type weightRequest struct {
	Date     string  `json:"date"`
	WeightKg float64 `json:"weight_kg"`
}

// CreateWeight handles POST /users/{userID}/journal/weights.
func (h *JournalHandler) CreateWeight(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req weightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := datemath.ParseDate(req.Date); err != nil {
		jsonError(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if req.WeightKg <= 0 {
		jsonError(w, "weight_kg must be positive", http.StatusBadRequest)
		return
	}

	rec := journal.WeightRecord{
		ID:         uuid.New().String(),
		UserID:     userID,
		Date:       req.Date,
		WeightKg:   req.WeightKg,
		RecordedAt: time.Now().UTC(),
	}
	if err := h.repo.CreateWeight(r.Context(), rec); err != nil {
		h.logger.Error("weight record create failed", zap.Error(err))
		jsonError(w, "failed to create weight record", http.StatusInternalServerError)
		return
	}

	h.metrics.JournalRecordsCreated.Inc()
	created(w, rec)
}

type hydrationRequest struct {
	Date     string `json:"date"`
	AmountML int    `json:"amount_ml"`
}

// CreateHydration handles POST /users/{userID}/journal/hydration.
func (h *JournalHandler) CreateHydration(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req hydrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := datemath.ParseDate(req.Date); err != nil {
		jsonError(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if req.AmountML <= 0 {
		jsonError(w, "amount_ml must be positive", http.StatusBadRequest)
		return
	}

	log := journal.HydrationLog{
		ID:         uuid.New().String(),
		UserID:     userID,
		Date:       req.Date,
		AmountML:   req.AmountML,
		RecordedAt: time.Now().UTC(),
	}
	if err := h.repo.CreateHydration(r.Context(), log); err != nil {
		h.logger.Error("hydration log create failed", zap.Error(err))
		jsonError(w, "failed to create hydration log", http.StatusInternalServerError)
		return
	}

	h.metrics.JournalRecordsCreated.Inc()
	created(w, log)
}

type contractionRequest struct {
	StartedAt   time.Time `json:"started_at"`
	DurationSec int       `json:"duration_sec"`
}

// CreateContraction handles POST /users/{userID}/journal/contractions.
func (h *JournalHandler) CreateContraction(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req contractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.StartedAt.IsZero() || req.DurationSec <= 0 {
		jsonError(w, "started_at and positive duration_sec are required", http.StatusBadRequest)
		return
	}

	session := journal.ContractionSession{
		ID:          uuid.New().String(),
		UserID:      userID,
		StartedAt:   req.StartedAt.UTC(),
		DurationSec: req.DurationSec,
	}
	if err := h.repo.CreateContraction(r.Context(), session); err != nil {
		h.logger.Error("contraction session create failed", zap.Error(err))
		jsonError(w, "failed to create contraction session", http.StatusInternalServerError)
		return
	}

	h.metrics.JournalRecordsCreated.Inc()
	created(w, session)
}

func created(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(body)
}
