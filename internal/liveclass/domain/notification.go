package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionContext carries the session facts a notification needs. Which
// channel the message goes out on is the sender's routing concern, not the
// scanner's.
type SessionContext struct {
	SessionID   uuid.UUID
	LiveClassID uuid.UUID
	Slot        SessionSlot
	StartsAt    time.Time
	IsFree      bool
}

// NotificationSender delivers a single reminder to a single recipient.
// Delivery mechanics (channel, retries, formatting) live behind this port.
type NotificationSender interface {
	Send(ctx context.Context, recipient uuid.UUID, kind ReminderKind, session SessionContext) error
}

// GrantReader resolves who may attend a session. Grants exist at two
// scopes: a single session, or a whole live class.
type GrantReader interface {
	// SessionRecipients returns users granted access to one session.
	SessionRecipients(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, error)

	// ClassRecipients returns users granted access to the whole class.
	ClassRecipients(ctx context.Context, classID uuid.UUID) ([]uuid.UUID, error)
}
