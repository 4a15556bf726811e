package notify

import (
	"context"
	"log/slog"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	"github.com/google/uuid"
)

// NoopSender logs reminders without delivering them. Used in development
// and when no broker is configured.
type NoopSender struct {
	logger *slog.Logger
}

// NewNoopSender creates a sender that does nothing.
func NewNoopSender(logger *slog.Logger) *NoopSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopSender{logger: logger}
}

// Send logs the reminder but doesn't deliver it.
func (s *NoopSender) Send(ctx context.Context, recipient uuid.UUID, kind domain.ReminderKind, session domain.SessionContext) error {
	s.logger.Debug("noop reminder",
		"recipient", recipient,
		"kind", kind,
		"session_id", session.SessionID,
	)
	return nil
}

// Close is a no-op.
func (s *NoopSender) Close() error {
	return nil
}
