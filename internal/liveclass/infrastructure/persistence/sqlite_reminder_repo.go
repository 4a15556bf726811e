package persistence

import (
	"context"
	"database/sql"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	sharedPersistence "github.com/coursecast/coursecast/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteReminderRepository implements domain.ReminderRepository using SQLite.
type SQLiteReminderRepository struct {
	db *sql.DB
}

// NewSQLiteReminderRepository creates a new SQLite reminder repository.
func NewSQLiteReminderRepository(db *sql.DB) *SQLiteReminderRepository {
	return &SQLiteReminderRepository{db: db}
}

// Create stores a record for a sent reminder. A primary-key collision means
// another run already sent it and surfaces as domain.ErrDuplicate.
func (r *SQLiteReminderRepository) Create(ctx context.Context, record *domain.ReminderRecord) error {
	query := `
		INSERT INTO reminder_records (class_session_id, reminder_kind, recipient_ref, sent_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := sharedPersistence.SQLDB(ctx, r.db).ExecContext(ctx, query,
		record.ClassSessionID().String(),
		string(record.Kind()),
		record.RecipientRef().String(),
		formatTime(record.SentAt()),
	)
	return mapSQLiteError(err)
}

// Exists reports whether a reminder was already sent to a recipient.
func (r *SQLiteReminderRepository) Exists(ctx context.Context, sessionID uuid.UUID, kind domain.ReminderKind, recipient uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reminder_records
			WHERE class_session_id = ? AND reminder_kind = ? AND recipient_ref = ?
		)
	`

	var exists int
	err := sharedPersistence.SQLDB(ctx, r.db).
		QueryRowContext(ctx, query, sessionID.String(), string(kind), recipient.String()).
		Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists != 0, nil
}

// ListBySession returns all records for a session.
func (r *SQLiteReminderRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.ReminderRecord, error) {
	query := `
		SELECT class_session_id, reminder_kind, recipient_ref, sent_at
		FROM reminder_records
		WHERE class_session_id = ?
		ORDER BY sent_at ASC
	`

	rows, err := sharedPersistence.SQLDB(ctx, r.db).QueryContext(ctx, query, sessionID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.ReminderRecord, 0)
	for rows.Next() {
		var sessionStr, kind, recipientStr, sentStr string
		if err := rows.Scan(&sessionStr, &kind, &recipientStr, &sentStr); err != nil {
			return nil, err
		}

		sid, err := uuid.Parse(sessionStr)
		if err != nil {
			return nil, err
		}
		recipient, err := uuid.Parse(recipientStr)
		if err != nil {
			return nil, err
		}
		sentAt, err := parseTime(sentStr)
		if err != nil {
			return nil, err
		}

		records = append(records, domain.NewReminderRecord(sid, domain.ReminderKind(kind), recipient, sentAt))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
