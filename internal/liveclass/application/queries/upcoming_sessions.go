// Package queries holds the read-side handlers for live-class data.
package queries

import (
	"context"
	"time"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	"github.com/google/uuid"
)

// UpcomingSessionsHandler lists a class's upcoming sessions.
type UpcomingSessionsHandler struct {
	sessionRepo domain.SessionRepository
	now         func() time.Time
}

// NewUpcomingSessionsHandler creates a new handler.
func NewUpcomingSessionsHandler(sessionRepo domain.SessionRepository) *UpcomingSessionsHandler {
	return &UpcomingSessionsHandler{
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

// Handle returns the class's sessions from now on, ordered by start time.
func (h *UpcomingSessionsHandler) Handle(ctx context.Context, classID uuid.UUID) ([]*domain.ClassSession, error) {
	return h.sessionRepo.FindByClassFrom(ctx, classID, h.now())
}
