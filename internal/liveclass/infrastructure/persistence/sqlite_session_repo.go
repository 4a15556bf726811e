package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	sharedPersistence "github.com/coursecast/coursecast/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteSessionRepository implements domain.SessionRepository using SQLite.
type SQLiteSessionRepository struct {
	db *sql.DB
}

// NewSQLiteSessionRepository creates a new SQLite session repository.
func NewSQLiteSessionRepository(db *sql.DB) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{db: db}
}

const sqliteSessionColumns = `
	id, live_class_id, content_item_ref, session_slot, scheduled_at,
	status, is_free, capacity, remaining, created_at, updated_at
`

// InsertBatch inserts all sessions or none. Without an in-context
// transaction it opens its own so a duplicate rolls back the whole batch.
func (r *SQLiteSessionRepository) InsertBatch(ctx context.Context, sessions []*domain.ClassSession) error {
	if len(sessions) == 0 {
		return nil
	}

	if info, ok := sharedPersistence.SQLTxInfoFromContext(ctx); ok {
		return r.insertAll(ctx, info.Tx, sessions)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.insertAll(ctx, tx, sessions); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLiteSessionRepository) insertAll(ctx context.Context, tx *sql.Tx, sessions []*domain.ClassSession) error {
	query := `
		INSERT INTO class_sessions (` + sqliteSessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range sessions {
		_, err := stmt.ExecContext(ctx,
			s.ID().String(),
			s.LiveClassID().String(),
			s.ContentItemRef().String(),
			string(s.Slot()),
			formatTime(s.ScheduledAt()),
			string(s.Status()),
			boolToInt(s.IsFree()),
			intPtrToNull(s.Capacity()),
			intPtrToNull(s.Remaining()),
			formatTime(s.CreatedAt()),
			formatTime(s.UpdatedAt()),
		)
		if err != nil {
			return mapSQLiteError(err)
		}
	}

	return nil
}

// Save updates a session's mutable state (status, remaining seats).
func (r *SQLiteSessionRepository) Save(ctx context.Context, session *domain.ClassSession) error {
	query := `
		UPDATE class_sessions SET
			status = ?,
			remaining = ?,
			updated_at = ?
		WHERE id = ?
	`

	_, err := sharedPersistence.SQLDB(ctx, r.db).ExecContext(ctx, query,
		string(session.Status()),
		intPtrToNull(session.Remaining()),
		formatTime(session.UpdatedAt()),
		session.ID().String(),
	)
	return err
}

// CountScheduledFrom counts a class's scheduled sessions at or after from.
func (r *SQLiteSessionRepository) CountScheduledFrom(ctx context.Context, classID uuid.UUID, from time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM class_sessions
		WHERE live_class_id = ? AND status = 'scheduled' AND scheduled_at >= ?
	`

	var count int
	err := sharedPersistence.SQLDB(ctx, r.db).
		QueryRowContext(ctx, query, classID.String(), formatTime(from)).
		Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// LastScheduledFrom returns the latest scheduled session time for a class at
// or after from, nil when there is none.
func (r *SQLiteSessionRepository) LastScheduledFrom(ctx context.Context, classID uuid.UUID, from time.Time) (*time.Time, error) {
	query := `
		SELECT scheduled_at
		FROM class_sessions
		WHERE live_class_id = ? AND status = 'scheduled' AND scheduled_at >= ?
		ORDER BY scheduled_at DESC
		LIMIT 1
	`

	var lastStr string
	err := sharedPersistence.SQLDB(ctx, r.db).
		QueryRowContext(ctx, query, classID.String(), formatTime(from)).
		Scan(&lastStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	last, err := parseTime(lastStr)
	if err != nil {
		return nil, err
	}
	return &last, nil
}

// FindScheduledInRange returns all scheduled sessions with scheduled_at in
// [from, to), ordered by scheduled_at.
func (r *SQLiteSessionRepository) FindScheduledInRange(ctx context.Context, from, to time.Time) ([]*domain.ClassSession, error) {
	query := `
		SELECT ` + sqliteSessionColumns + `
		FROM class_sessions
		WHERE status = 'scheduled' AND scheduled_at >= ? AND scheduled_at < ?
		ORDER BY scheduled_at ASC
	`

	rows, err := sharedPersistence.SQLDB(ctx, r.db).
		QueryContext(ctx, query, formatTime(from), formatTime(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteSessions(rows)
}

// FindByClassFrom returns a class's sessions at or after from, ordered by
// scheduled_at.
func (r *SQLiteSessionRepository) FindByClassFrom(ctx context.Context, classID uuid.UUID, from time.Time) ([]*domain.ClassSession, error) {
	query := `
		SELECT ` + sqliteSessionColumns + `
		FROM class_sessions
		WHERE live_class_id = ? AND scheduled_at >= ?
		ORDER BY scheduled_at ASC
	`

	rows, err := sharedPersistence.SQLDB(ctx, r.db).
		QueryContext(ctx, query, classID.String(), formatTime(from))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteSessions(rows)
}

func scanSQLiteSessions(rows *sql.Rows) ([]*domain.ClassSession, error) {
	sessions := make([]*domain.ClassSession, 0)

	for rows.Next() {
		var (
			idStr, classStr, itemStr   string
			slot, scheduledStr, status string
			isFree                     int
			capacity, remaining        sql.NullInt64
			createdStr, updatedStr     string
		)
		err := rows.Scan(
			&idStr, &classStr, &itemStr, &slot, &scheduledStr,
			&status, &isFree, &capacity, &remaining, &createdStr, &updatedStr,
		)
		if err != nil {
			return nil, err
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, err
		}
		classID, err := uuid.Parse(classStr)
		if err != nil {
			return nil, err
		}
		itemRef, err := uuid.Parse(itemStr)
		if err != nil {
			return nil, err
		}
		scheduledAt, err := parseTime(scheduledStr)
		if err != nil {
			return nil, err
		}
		createdAt, err := parseTime(createdStr)
		if err != nil {
			return nil, err
		}
		updatedAt, err := parseTime(updatedStr)
		if err != nil {
			return nil, err
		}

		sessions = append(sessions, domain.RehydrateClassSession(
			id,
			classID,
			itemRef,
			domain.SessionSlot(slot),
			scheduledAt,
			domain.SessionStatus(status),
			isFree != 0,
			nullToIntPtr(capacity),
			nullToIntPtr(remaining),
			createdAt,
			updatedAt,
		))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

func intPtrToNull(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullToIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
