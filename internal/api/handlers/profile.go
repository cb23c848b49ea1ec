// Package handlers provides HTTP handlers for the tracker API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/gravida-app/gravida/internal/domain/gestation"
	"github.com/gravida-app/gravida/internal/observability/metrics"
	"github.com/gravida-app/gravida/pkg/datemath"
)

// ProfileHandler handles gestational profile endpoints.
type ProfileHandler struct {
	repo    *gestation.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewProfileHandler creates a new handler.
func NewProfileHandler(repo *gestation.Repository, m *metrics.Metrics, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{repo: repo, metrics: m, logger: logger}
}

// Routes returns the handler routes, mounted under a user scope.
func (h *ProfileHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Put("/", h.Save)
	r.Get("/", h.Get)
	return r
}

// profileRequest is the request body for saving a profile.
type profileRequest struct {
	LMP        string `json:"lmp,omitempty"`
	Ultrasound *struct {
		ExamDate    string `json:"exam_date"`
		WeeksAtExam int    `json:"weeks_at_exam"`
		DaysAtExam  int    `json:"days_at_exam"`
	} `json:"ultrasound,omitempty"`
}

// profileResponse is the profile plus its derived dating, when derivable.
type profileResponse struct {
	Profile gestation.Profile `json:"profile"`
	// Dating is nil when the profile has no usable dating source. The
	// client shows "no data yet" for that, never zero dates.
	Dating *gestation.Report `json:"dating,omitempty"`
}

// Save handles PUT /users/{userID}/profile.
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tracer := otel.Tracer("profile-handler")
	ctx, span := tracer.Start(ctx, "save_profile")
	defer span.End()

	userID := chi.URLParam(r, "userID")
	span.SetAttributes(attribute.String("user_id", userID))

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.LMP == "" && req.Ultrasound == nil {
		jsonError(w, "lmp or ultrasound is required", http.StatusBadRequest)
		return
	}
	if req.Ultrasound != nil {
		u := req.Ultrasound
		if u.WeeksAtExam < 0 || u.DaysAtExam < 0 || u.DaysAtExam > 6 {
			jsonError(w, "ultrasound age at exam out of range", http.StatusBadRequest)
			return
		}
	}

	profile := gestation.Profile{UserID: userID, LMP: req.LMP}
	if req.Ultrasound != nil {
		profile.Ultrasound = &gestation.UltrasoundExam{
			ExamDate:    req.Ultrasound.ExamDate,
			WeeksAtExam: req.Ultrasound.WeeksAtExam,
			DaysAtExam:  req.Ultrasound.DaysAtExam,
		}
	}

	if err := h.repo.Save(ctx, profile); err != nil {
		h.logger.Error("profile save failed", zap.String("user_id", userID), zap.Error(err))
		jsonError(w, "failed to save profile", http.StatusInternalServerError)
		return
	}

	h.metrics.ProfilesSaved.Inc()
	h.logger.Info("profile saved", zap.String("user_id", userID))

	h.respond(w, r, profile)
}

// Get handles GET /users/{userID}/profile. The optional ?on=YYYY-MM-DD
// query sets the reference date for the derived dating; it defaults to the
// server's current date. The engines themselves never read the clock.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	profile, err := h.repo.Get(ctx, userID)
	if errors.Is(err, gestation.ErrNotFound) {
		jsonError(w, "profile not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("profile load failed", zap.String("user_id", userID), zap.Error(err))
		jsonError(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	h.respond(w, r, profile)
}

func (h *ProfileHandler) respond(w http.ResponseWriter, r *http.Request, profile gestation.Profile) {
	ref, ok := referenceDate(r)
	if !ok {
		jsonError(w, "invalid reference date", http.StatusBadRequest)
		return
	}

	resp := profileResponse{Profile: profile}
	if report, ok := gestation.DeriveReport(profile, ref); ok {
		resp.Dating = &report
		h.metrics.ReportsDerived.Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// referenceDate resolves the ?on= query parameter, defaulting to today.
func referenceDate(r *http.Request) (time.Time, bool) {
	on := r.URL.Query().Get("on")
	if on == "" {
		return datemath.Truncate(time.Now().UTC()), true
	}
	ref, err := datemath.ParseDate(on)
	if err != nil {
		return time.Time{}, false
	}
	return ref, true
}

func jsonError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
