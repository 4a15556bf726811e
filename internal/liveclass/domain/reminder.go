package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReminderKind is a named offset-before-start reminder category. The set is
// closed so an unknown kind is unrepresentable in scanner logic.
type ReminderKind string

const (
	Kind24hBefore   ReminderKind = "24h_before"
	Kind2hBefore    ReminderKind = "2h_before"
	Kind1hBefore    ReminderKind = "1h_before"
	Kind30mBefore   ReminderKind = "30m_before"
	Kind2mBefore    ReminderKind = "2m_before"
	KindStartingNow ReminderKind = "starting_now"
)

// AllReminderKinds returns the kinds ordered from farthest offset to start.
func AllReminderKinds() []ReminderKind {
	return []ReminderKind{
		Kind24hBefore,
		Kind2hBefore,
		Kind1hBefore,
		Kind30mBefore,
		Kind2mBefore,
		KindStartingNow,
	}
}

// IsValid checks if the kind is a known reminder kind.
func (k ReminderKind) IsValid() bool {
	switch k {
	case Kind24hBefore, Kind2hBefore, Kind1hBefore, Kind30mBefore, Kind2mBefore, KindStartingNow:
		return true
	default:
		return false
	}
}

// Offset returns how long before session start the kind targets.
func (k ReminderKind) Offset() time.Duration {
	switch k {
	case Kind24hBefore:
		return 24 * time.Hour
	case Kind2hBefore:
		return 2 * time.Hour
	case Kind1hBefore:
		return time.Hour
	case Kind30mBefore:
		return 30 * time.Minute
	case Kind2mBefore:
		return 2 * time.Minute
	default:
		return 0
	}
}

// DueWithin reports whether a session starting in timeUntil is inside the
// kind's send window. Both window edges are inclusive; the scanner must run
// at least once per tolerance-width interval or the window is missed.
func (k ReminderKind) DueWithin(timeUntil, tolerance time.Duration) bool {
	offset := k.Offset()
	return timeUntil >= offset-tolerance && timeUntil <= offset+tolerance
}

// ReminderRecord is the idempotency ledger entry for one delivered reminder.
// Identity is the (session, kind, recipient) triple: access can be granted
// per recipient at different times, so "already sent" is a per-recipient
// question, never a per-session flag.
type ReminderRecord struct {
	classSessionID uuid.UUID
	kind           ReminderKind
	recipientRef   uuid.UUID
	sentAt         time.Time
}

// NewReminderRecord creates a record for a reminder that was just sent.
func NewReminderRecord(sessionID uuid.UUID, kind ReminderKind, recipient uuid.UUID, sentAt time.Time) *ReminderRecord {
	return &ReminderRecord{
		classSessionID: sessionID,
		kind:           kind,
		recipientRef:   recipient,
		sentAt:         sentAt.UTC(),
	}
}

// Getters
func (r *ReminderRecord) ClassSessionID() uuid.UUID { return r.classSessionID }
func (r *ReminderRecord) Kind() ReminderKind        { return r.kind }
func (r *ReminderRecord) RecipientRef() uuid.UUID   { return r.recipientRef }
func (r *ReminderRecord) SentAt() time.Time         { return r.sentAt }
