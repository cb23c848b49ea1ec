package journal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Repository persists tracking records.
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

// CreateEntry inserts a journal entry.
func (r *Repository) CreateEntry(ctx context.Context, e Entry) error {
	query := `
		INSERT INTO journal_entries (id, user_id, entry_date, mood, symptoms, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		e.ID, e.UserID, e.Date, e.Mood, e.Symptoms, e.Note, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create journal entry: %w", err)
	}
	return nil
}

// EntriesForDay lists a user's journal entries for one day.
func (r *Repository) EntriesForDay(ctx context.Context, userID, date string) ([]Entry, error) {
	query := `
		SELECT id, user_id, entry_date, COALESCE(mood, ''), symptoms, COALESCE(note, ''), created_at
		FROM journal_entries
		WHERE user_id = $1 AND entry_date = $2
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.Mood, &e.Symptoms, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CreateWeight inserts a weight record.
func (r *Repository) CreateWeight(ctx context.Context, w WeightRecord) error {
	query := `
		INSERT INTO weight_records (id, user_id, record_date, weight_kg, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.pool.Exec(ctx, query, w.ID, w.UserID, w.Date, w.WeightKg, w.RecordedAt); err != nil {
		return fmt.Errorf("create weight record: %w", err)
	}
	return nil
}

// WeightsForDay lists weight records for one day.
func (r *Repository) WeightsForDay(ctx context.Context, userID, date string) ([]WeightRecord, error) {
	query := `
		SELECT id, user_id, record_date, weight_kg, recorded_at
		FROM weight_records
		WHERE user_id = $1 AND record_date = $2
		ORDER BY recorded_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("list weight records: %w", err)
	}
	defer rows.Close()

	var weights []WeightRecord
	for rows.Next() {
		var w WeightRecord
		if err := rows.Scan(&w.ID, &w.UserID, &w.Date, &w.WeightKg, &w.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan weight record: %w", err)
		}
		weights = append(weights, w)
	}
	return weights, rows.Err()
}

// CreateHydration inserts a hydration log.
func (r *Repository) CreateHydration(ctx context.Context, h HydrationLog) error {
	query := `
		INSERT INTO hydration_logs (id, user_id, log_date, amount_ml, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.pool.Exec(ctx, query, h.ID, h.UserID, h.Date, h.AmountML, h.RecordedAt); err != nil {
		return fmt.Errorf("create hydration log: %w", err)
	}
	return nil
}

// HydrationTotalForDay sums logged intake for one day, in milliliters.
func (r *Repository) HydrationTotalForDay(ctx context.Context, userID, date string) (int, error) {
	query := `
		SELECT COALESCE(SUM(amount_ml), 0)
		FROM hydration_logs
		WHERE user_id = $1 AND log_date = $2
	`
	var total int
	if err := r.pool.QueryRow(ctx, query, userID, date).Scan(&total); err != nil {
		return 0, fmt.Errorf("hydration total: %w", err)
	}
	return total, nil
}

// CreateContraction inserts a contraction session.
func (r *Repository) CreateContraction(ctx context.Context, c ContractionSession) error {
	query := `
		INSERT INTO contraction_sessions (id, user_id, started_at, duration_sec)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.pool.Exec(ctx, query, c.ID, c.UserID, c.StartedAt, c.DurationSec); err != nil {
		return fmt.Errorf("create contraction session: %w", err)
	}
	return nil
}

// ContractionsForDay lists contraction sessions started on one day (UTC).
func (r *Repository) ContractionsForDay(ctx context.Context, userID, date string) ([]ContractionSession, error) {
	query := `
		SELECT id, user_id, started_at, duration_sec
		FROM contraction_sessions
		WHERE user_id = $1 AND started_at >= $2::date AND started_at < $2::date + INTERVAL '1 day'
		ORDER BY started_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("list contraction sessions: %w", err)
	}
	defer rows.Close()

	var sessions []ContractionSession
	for rows.Next() {
		var c ContractionSession
		if err := rows.Scan(&c.ID, &c.UserID, &c.StartedAt, &c.DurationSec); err != nil {
			return nil, fmt.Errorf("scan contraction session: %w", err)
		}
		sessions = append(sessions, c)
	}
	return sessions, rows.Err()
}

// SummaryForDay assembles the full day summary for a user.
func (r *Repository) SummaryForDay(ctx context.Context, userID, date string) (DaySummary, error) {
	entries, err := r.EntriesForDay(ctx, userID, date)
	if err != nil {
		return DaySummary{}, err
	}
	weights, err := r.WeightsForDay(ctx, userID, date)
	if err != nil {
		return DaySummary{}, err
	}
	total, err := r.HydrationTotalForDay(ctx, userID, date)
	if err != nil {
		return DaySummary{}, err
	}
	contractions, err := r.ContractionsForDay(ctx, userID, date)
	if err != nil {
		return DaySummary{}, err
	}
	return DaySummary{
		Date:             date,
		Entries:          entries,
		Weights:          weights,
		HydrationTotalML: total,
		Contractions:     contractions,
	}, nil
}
