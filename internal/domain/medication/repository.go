package medication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/gravida-app/gravida/internal/infrastructure/postgres"
)

// ErrNotFound is returned when a medication does not exist for the user.
var ErrNotFound = errors.New("medication not found")

// Event types written to the outbox alongside domain writes.
const (
	EventScheduleChanged = "medication.schedule.changed"
	EventScheduleRemoved = "medication.schedule.removed"
	EventDoseTaken       = "medication.dose.taken"
)

// Topics the outbox relay publishes medication events to.
const (
	TopicScheduleEvents  = "medication.schedule.events"
	TopicAdherenceEvents = "medication.adherence.events"
)

// Repository persists medications and dose-taken records. Writes that
// other services react to (schedule changes, adherence) go through the
// transactional outbox in the same transaction.
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

// row is the flattened storage shape of a medication.
type row struct {
	scheduleKind  string
	doses         []string
	intervalHours *int
	durationKind  string
	durationDays  *int
}

func flatten(med Medication) row {
	r := row{
		scheduleKind: string(Kind(med.Schedule)),
		durationKind: string(DurationOf(med.Duration)),
	}
	switch s := med.Schedule.(type) {
	case FixedTimes:
		r.doses = s.Doses
	case Flexible:
		r.doses = s.Doses
	case Interval:
		r.doses = []string{s.FirstDose}
		hours := s.IntervalHours
		r.intervalHours = &hours
	}
	if d, ok := med.Duration.(ForDays); ok {
		days := d.Days
		r.durationDays = &days
	}
	return r
}

func unflatten(med *Medication, r row) {
	switch ScheduleKind(r.scheduleKind) {
	case KindFixedTimes:
		med.Schedule = FixedTimes{Doses: r.doses}
	case KindFlexible:
		med.Schedule = Flexible{Doses: r.doses}
	case KindInterval:
		first := ""
		if len(r.doses) > 0 {
			first = r.doses[0]
		}
		hours := 0
		if r.intervalHours != nil {
			hours = *r.intervalHours
		}
		med.Schedule = Interval{FirstDose: first, IntervalHours: hours}
	}
	switch DurationKind(r.durationKind) {
	case KindForDays:
		days := 0
		if r.durationDays != nil {
			days = *r.durationDays
		}
		med.Duration = ForDays{Days: days}
	default:
		med.Duration = Continuous{}
	}
}

// Create inserts a medication and records a schedule-changed event.
func (r *Repository) Create(ctx context.Context, med Medication) error {
	return r.upsert(ctx, med, `
		INSERT INTO medications
			(id, user_id, name, dosage, notes, start_date, schedule_kind, doses, interval_hours, duration_kind, duration_days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
	`)
}

// Update rewrites a medication and records a schedule-changed event.
func (r *Repository) Update(ctx context.Context, med Medication) error {
	return r.upsert(ctx, med, `
		UPDATE medications SET
			name = $3, dosage = $4, notes = $5, start_date = $6,
			schedule_kind = $7, doses = $8, interval_hours = $9,
			duration_kind = $10, duration_days = $11, updated_at = $12
		WHERE id = $1 AND user_id = $2
	`)
}

func (r *Repository) upsert(ctx context.Context, med Medication, query string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	flat := flatten(med)
	tag, err := tx.Exec(ctx, query,
		med.ID, med.UserID, med.Name, med.Dosage, med.Notes, med.StartDate,
		flat.scheduleKind, flat.doses, flat.intervalHours,
		flat.durationKind, flat.durationDays, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("write medication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := r.writeScheduleEvent(ctx, tx, med, EventScheduleChanged); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Delete removes a medication and records a schedule-removed event.
func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, "DELETE FROM medications WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("delete medication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	err = r.writeScheduleEvent(ctx, tx, Medication{ID: id, UserID: userID}, EventScheduleRemoved)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *Repository) writeScheduleEvent(ctx context.Context, tx pgx.Tx, med Medication, eventType string) error {
	payload, err := json.Marshal(map[string]string{
		"medication_id": med.ID,
		"user_id":       med.UserID,
	})
	if err != nil {
		return err
	}
	return postgres.WriteEntry(ctx, tx, &postgres.OutboxEntry{
		UserID:    med.UserID,
		EventType: eventType,
		Payload:   payload,
		Topic:     TopicScheduleEvents,
		Key:       med.ID,
	})
}

const medicationColumns = `
	id, user_id, name, COALESCE(dosage, ''), COALESCE(notes, ''), start_date,
	schedule_kind, doses, interval_hours, duration_kind, duration_days,
	created_at, updated_at
`

func scanMedication(scan func(...any) error) (Medication, error) {
	var (
		med  Medication
		flat row
	)
	err := scan(
		&med.ID, &med.UserID, &med.Name, &med.Dosage, &med.Notes, &med.StartDate,
		&flat.scheduleKind, &flat.doses, &flat.intervalHours,
		&flat.durationKind, &flat.durationDays,
		&med.CreatedAt, &med.UpdatedAt,
	)
	if err != nil {
		return Medication{}, err
	}
	unflatten(&med, flat)
	return med, nil
}

// Get loads one medication for a user.
func (r *Repository) Get(ctx context.Context, userID, id string) (Medication, error) {
	query := "SELECT " + medicationColumns + " FROM medications WHERE id = $1 AND user_id = $2"
	med, err := scanMedication(r.pool.QueryRow(ctx, query, id, userID).Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return Medication{}, ErrNotFound
	}
	if err != nil {
		return Medication{}, fmt.Errorf("get medication: %w", err)
	}
	return med, nil
}

// ListByUser loads all medications for a user, oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Medication, error) {
	query := "SELECT " + medicationColumns + " FROM medications WHERE user_id = $1 ORDER BY created_at ASC"
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	defer rows.Close()

	var meds []Medication
	for rows.Next() {
		med, err := scanMedication(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan medication: %w", err)
		}
		meds = append(meds, med)
	}
	return meds, rows.Err()
}

// MarkTaken records a dose as taken and writes an adherence event in the
// same transaction. Marking the same dose twice is a no-op.
func (r *Repository) MarkTaken(ctx context.Context, rec TakenRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO dose_taken (user_id, medication_id, dose_date, dose_index, taken_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, medication_id, dose_date, dose_index) DO NOTHING
	`
	tag, err := tx.Exec(ctx, query,
		rec.UserID, rec.MedicationID, rec.Date, rec.DoseIndex, rec.TakenAt,
	)
	if err != nil {
		return fmt.Errorf("mark taken: %w", err)
	}

	if tag.RowsAffected() > 0 {
		payload, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		err = postgres.WriteEntry(ctx, tx, &postgres.OutboxEntry{
			UserID:    rec.UserID,
			EventType: EventDoseTaken,
			Payload:   payload,
			Topic:     TopicAdherenceEvents,
			Key:       rec.MedicationID,
		})
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// UnmarkTaken removes a taken record.
func (r *Repository) UnmarkTaken(ctx context.Context, userID, medicationID, date string, doseIndex int) error {
	query := `
		DELETE FROM dose_taken
		WHERE user_id = $1 AND medication_id = $2 AND dose_date = $3 AND dose_index = $4
	`
	if _, err := r.pool.Exec(ctx, query, userID, medicationID, date, doseIndex); err != nil {
		return fmt.Errorf("unmark taken: %w", err)
	}
	return nil
}

// TakenForDay returns, per medication, the dose indices taken on a date.
func (r *Repository) TakenForDay(ctx context.Context, userID, date string) (map[string][]int, error) {
	query := `
		SELECT medication_id, dose_index
		FROM dose_taken
		WHERE user_id = $1 AND dose_date = $2
		ORDER BY medication_id, dose_index
	`
	rows, err := r.pool.Query(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("taken for day: %w", err)
	}
	defer rows.Close()

	taken := make(map[string][]int)
	for rows.Next() {
		var (
			medID string
			idx   int
		)
		if err := rows.Scan(&medID, &idx); err != nil {
			return nil, fmt.Errorf("scan taken record: %w", err)
		}
		taken[medID] = append(taken[medID], idx)
	}
	return taken, rows.Err()
}
