package persistence

import (
	"context"
	"time"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	sharedPersistence "github.com/coursecast/coursecast/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresReminderRepository implements domain.ReminderRepository using
// PostgreSQL. The table's composite primary key is the idempotency guard.
type PostgresReminderRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresReminderRepository creates a new PostgreSQL reminder repository.
func NewPostgresReminderRepository(pool *pgxpool.Pool) *PostgresReminderRepository {
	return &PostgresReminderRepository{pool: pool}
}

// reminderRow represents a database row for reminder records.
type reminderRow struct {
	ClassSessionID uuid.UUID
	Kind           string
	RecipientRef   uuid.UUID
	SentAt         time.Time
}

// Create stores a record for a sent reminder. A primary-key collision means
// another run already sent it and surfaces as domain.ErrDuplicate.
func (r *PostgresReminderRepository) Create(ctx context.Context, record *domain.ReminderRecord) error {
	query := `
		INSERT INTO reminder_records (class_session_id, reminder_kind, recipient_ref, sent_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, query,
		record.ClassSessionID(),
		string(record.Kind()),
		record.RecipientRef(),
		record.SentAt(),
	)
	return mapPostgresError(err)
}

// Exists reports whether a reminder was already sent to a recipient.
func (r *PostgresReminderRepository) Exists(ctx context.Context, sessionID uuid.UUID, kind domain.ReminderKind, recipient uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reminder_records
			WHERE class_session_id = $1 AND reminder_kind = $2 AND recipient_ref = $3
		)
	`

	var exists bool
	err := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query, sessionID, string(kind), recipient).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ListBySession returns all records for a session.
func (r *PostgresReminderRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.ReminderRecord, error) {
	query := `
		SELECT class_session_id, reminder_kind, recipient_ref, sent_at
		FROM reminder_records
		WHERE class_session_id = $1
		ORDER BY sent_at ASC
	`

	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.ReminderRecord, 0)
	for rows.Next() {
		var row reminderRow
		if err := rows.Scan(&row.ClassSessionID, &row.Kind, &row.RecipientRef, &row.SentAt); err != nil {
			return nil, err
		}
		records = append(records, domain.NewReminderRecord(
			row.ClassSessionID,
			domain.ReminderKind(row.Kind),
			row.RecipientRef,
			row.SentAt,
		))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
