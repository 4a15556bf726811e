package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	sharedPersistence "github.com/coursecast/coursecast/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSessionRepository implements domain.SessionRepository using
// PostgreSQL.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSessionRepository creates a new PostgreSQL session repository.
func NewPostgresSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

// sessionRow represents a database row for class sessions.
type sessionRow struct {
	ID             uuid.UUID
	LiveClassID    uuid.UUID
	ContentItemRef uuid.UUID
	Slot           string
	ScheduledAt    time.Time
	Status         string
	IsFree         bool
	Capacity       *int
	Remaining      *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const sessionColumns = `
	id, live_class_id, content_item_ref, session_slot, scheduled_at,
	status, is_free, capacity, remaining, created_at, updated_at
`

const insertSessionQuery = `
	INSERT INTO class_sessions (
		id, live_class_id, content_item_ref, session_slot, scheduled_at,
		status, is_free, capacity, remaining, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

// InsertBatch inserts all sessions in one transaction so a duplicate rolls
// back the whole batch and surfaces as domain.ErrDuplicate.
func (r *PostgresSessionRepository) InsertBatch(ctx context.Context, sessions []*domain.ClassSession) error {
	if len(sessions) == 0 {
		return nil
	}

	if info, ok := sharedPersistence.TxInfoFromContext(ctx); ok {
		return r.insertBatchWithTx(ctx, info.Tx, sessions)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.insertBatchWithTx(ctx, tx, sessions); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostgresSessionRepository) insertBatchWithTx(ctx context.Context, tx pgx.Tx, sessions []*domain.ClassSession) error {
	batch := &pgx.Batch{}
	for _, s := range sessions {
		batch.Queue(insertSessionQuery,
			s.ID(),
			s.LiveClassID(),
			s.ContentItemRef(),
			string(s.Slot()),
			s.ScheduledAt(),
			string(s.Status()),
			s.IsFree(),
			s.Capacity(),
			s.Remaining(),
			s.CreatedAt(),
			s.UpdatedAt(),
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for range sessions {
		if _, err := results.Exec(); err != nil {
			return mapPostgresError(err)
		}
	}

	return nil
}

// Save updates a session's mutable state (status, remaining seats).
func (r *PostgresSessionRepository) Save(ctx context.Context, session *domain.ClassSession) error {
	query := `
		UPDATE class_sessions SET
			status = $2,
			remaining = $3,
			updated_at = $4
		WHERE id = $1
	`

	_, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, query,
		session.ID(),
		string(session.Status()),
		session.Remaining(),
		session.UpdatedAt(),
	)
	return err
}

// CountScheduledFrom counts a class's scheduled sessions at or after from.
func (r *PostgresSessionRepository) CountScheduledFrom(ctx context.Context, classID uuid.UUID, from time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM class_sessions
		WHERE live_class_id = $1 AND status = 'scheduled' AND scheduled_at >= $2
	`

	var count int
	err := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query, classID, from).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// LastScheduledFrom returns the latest scheduled session time for a class at
// or after from, nil when there is none.
func (r *PostgresSessionRepository) LastScheduledFrom(ctx context.Context, classID uuid.UUID, from time.Time) (*time.Time, error) {
	query := `
		SELECT scheduled_at
		FROM class_sessions
		WHERE live_class_id = $1 AND status = 'scheduled' AND scheduled_at >= $2
		ORDER BY scheduled_at DESC
		LIMIT 1
	`

	var last time.Time
	err := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query, classID, from).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &last, nil
}

// FindScheduledInRange returns all scheduled sessions with scheduled_at in
// [from, to), ordered by scheduled_at.
func (r *PostgresSessionRepository) FindScheduledInRange(ctx context.Context, from, to time.Time) ([]*domain.ClassSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM class_sessions
		WHERE status = 'scheduled' AND scheduled_at >= $1 AND scheduled_at < $2
		ORDER BY scheduled_at ASC
	`

	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

// FindByClassFrom returns a class's sessions at or after from, ordered by
// scheduled_at.
func (r *PostgresSessionRepository) FindByClassFrom(ctx context.Context, classID uuid.UUID, from time.Time) ([]*domain.ClassSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM class_sessions
		WHERE live_class_id = $1 AND scheduled_at >= $2
		ORDER BY scheduled_at ASC
	`

	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx, query, classID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

func scanSessions(rows pgx.Rows) ([]*domain.ClassSession, error) {
	sessions := make([]*domain.ClassSession, 0)

	for rows.Next() {
		var row sessionRow
		err := rows.Scan(
			&row.ID,
			&row.LiveClassID,
			&row.ContentItemRef,
			&row.Slot,
			&row.ScheduledAt,
			&row.Status,
			&row.IsFree,
			&row.Capacity,
			&row.Remaining,
			&row.CreatedAt,
			&row.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, rowToSession(row))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

func rowToSession(row sessionRow) *domain.ClassSession {
	return domain.RehydrateClassSession(
		row.ID,
		row.LiveClassID,
		row.ContentItemRef,
		domain.SessionSlot(row.Slot),
		row.ScheduledAt,
		domain.SessionStatus(row.Status),
		row.IsFree,
		row.Capacity,
		row.Remaining,
		row.CreatedAt,
		row.UpdatedAt,
	)
}
