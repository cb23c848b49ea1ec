package gestation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a user has no saved profile.
var ErrNotFound = errors.New("gestational profile not found")

// Repository persists gestational profiles.
type Repository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewRepository creates a new repository.
func NewRepository(pool *pgxpool.Pool, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{pool: pool, logger: logger}
}

// Save upserts the profile for its user. Raw date strings are stored as
// entered; validation is the dating engine's concern on read.
func (r *Repository) Save(ctx context.Context, p Profile) error {
	var (
		examDate    *string
		weeksAtExam *int
		daysAtExam  *int
	)
	if p.Ultrasound != nil {
		examDate = &p.Ultrasound.ExamDate
		weeksAtExam = &p.Ultrasound.WeeksAtExam
		daysAtExam = &p.Ultrasound.DaysAtExam
	}

	query := `
		INSERT INTO gestational_profiles (user_id, lmp, exam_date, weeks_at_exam, days_at_exam, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			lmp = EXCLUDED.lmp,
			exam_date = EXCLUDED.exam_date,
			weeks_at_exam = EXCLUDED.weeks_at_exam,
			days_at_exam = EXCLUDED.days_at_exam,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		p.UserID, p.LMP, examDate, weeksAtExam, daysAtExam, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Get loads the profile for a user.
func (r *Repository) Get(ctx context.Context, userID string) (Profile, error) {
	query := `
		SELECT user_id, COALESCE(lmp, ''), exam_date, weeks_at_exam, days_at_exam, updated_at
		FROM gestational_profiles
		WHERE user_id = $1
	`

	var (
		p           Profile
		examDate    *string
		weeksAtExam *int
		daysAtExam  *int
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.LMP, &examDate, &weeksAtExam, &daysAtExam, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}

	if examDate != nil {
		exam := UltrasoundExam{ExamDate: *examDate}
		if weeksAtExam != nil {
			exam.WeeksAtExam = *weeksAtExam
		}
		if daysAtExam != nil {
			exam.DaysAtExam = *daysAtExam
		}
		p.Ultrasound = &exam
	}
	return p, nil
}
