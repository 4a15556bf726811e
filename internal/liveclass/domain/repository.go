package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrDuplicate is returned by repositories when an insert hits a storage
// uniqueness constraint. Callers treat it as "already scheduled/already
// sent", not as a failure: uniqueness is enforced at the storage layer so
// racing runs fail cleanly instead of corrupting the calendar.
var ErrDuplicate = errors.New("row already exists")

// ErrClassNotFound is returned when an operation targets a class that does
// not exist.
var ErrClassNotFound = errors.New("live class not found")

// LiveClassRepository persists live classes.
type LiveClassRepository interface {
	// Save persists a live class (create or update).
	Save(ctx context.Context, class *LiveClass) error

	// FindByID finds a live class by its ID, nil when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*LiveClass, error)

	// FindActive returns all active live classes.
	FindActive(ctx context.Context) ([]*LiveClass, error)

	// Delete removes a live class. Used only as compensation for a failed
	// initial creation.
	Delete(ctx context.Context, id uuid.UUID) error
}

// SessionRepository persists class sessions.
type SessionRepository interface {
	// InsertBatch inserts all sessions or none. Returns ErrDuplicate when
	// any (class, scheduled_at, slot) key already exists.
	InsertBatch(ctx context.Context, sessions []*ClassSession) error

	// Save updates a session's mutable state (status, remaining seats).
	Save(ctx context.Context, session *ClassSession) error

	// CountScheduledFrom counts a class's scheduled sessions at or after
	// the given time.
	CountScheduledFrom(ctx context.Context, classID uuid.UUID, from time.Time) (int, error)

	// LastScheduledFrom returns the latest scheduled session time for a
	// class at or after the given time, nil when there is none.
	LastScheduledFrom(ctx context.Context, classID uuid.UUID, from time.Time) (*time.Time, error)

	// FindScheduledInRange returns all scheduled sessions with
	// scheduled_at in [from, to), ordered by scheduled_at.
	FindScheduledInRange(ctx context.Context, from, to time.Time) ([]*ClassSession, error)

	// FindByClassFrom returns a class's sessions at or after the given
	// time, ordered by scheduled_at.
	FindByClassFrom(ctx context.Context, classID uuid.UUID, from time.Time) ([]*ClassSession, error)
}

// ReminderRepository persists the reminder idempotency ledger.
type ReminderRepository interface {
	// Create stores a record for a sent reminder. Returns ErrDuplicate
	// when the (session, kind, recipient) triple already exists.
	Create(ctx context.Context, record *ReminderRecord) error

	// Exists reports whether a reminder was already sent to a recipient.
	Exists(ctx context.Context, sessionID uuid.UUID, kind ReminderKind, recipient uuid.UUID) (bool, error)

	// ListBySession returns all records for a session.
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*ReminderRecord, error)
}
