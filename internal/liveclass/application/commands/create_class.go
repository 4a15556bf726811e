package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/coursecast/coursecast/internal/liveclass/application/services"
	"github.com/coursecast/coursecast/internal/liveclass/domain"
	sharedApplication "github.com/coursecast/coursecast/internal/shared/application"
	"github.com/google/uuid"
)

// CreateClassResult is the outcome of creating a live class.
type CreateClassResult struct {
	Class           *domain.LiveClass
	SessionsCreated int
}

// CreateClassHandler creates a live class and schedules its initial
// calendar. When the initial schedule cannot be persisted the class itself
// is removed again, so a class never exists without sessions.
type CreateClassHandler struct {
	classRepo   domain.LiveClassRepository
	sessionRepo domain.SessionRepository
	catalog     domain.CatalogReader
	planner     *services.RotationPlanner
	uow         sharedApplication.UnitOfWork
	logger      *slog.Logger
	now         func() time.Time
}

// NewCreateClassHandler creates a new handler.
func NewCreateClassHandler(
	classRepo domain.LiveClassRepository,
	sessionRepo domain.SessionRepository,
	catalog domain.CatalogReader,
	planner *services.RotationPlanner,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *CreateClassHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateClassHandler{
		classRepo:   classRepo,
		sessionRepo: sessionRepo,
		catalog:     catalog,
		planner:     planner,
		uow:         uow,
		logger:      logger,
		now:         time.Now,
	}
}

// Handle creates the class and its initial schedule.
func (h *CreateClassHandler) Handle(ctx context.Context, contentSourceRef uuid.UUID) (*CreateClassResult, error) {
	items, err := h.catalog.ListItems(ctx, contentSourceRef)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	class := domain.NewLiveClass(contentSourceRef)
	if err := h.classRepo.Save(ctx, class); err != nil {
		return nil, err
	}

	plan, err := h.planner.Plan(services.PlanRequest{
		Class:   class,
		Catalog: items,
		Now:     h.now(),
	})
	if err != nil {
		h.compensate(ctx, class.ID())
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(ctx context.Context) error {
		if err := h.sessionRepo.InsertBatch(ctx, plan.Sessions); err != nil {
			return err
		}
		if err := class.AdvanceCursor(plan.DaysPlanned, plan.CycleLength); err != nil {
			return err
		}
		return h.classRepo.Save(ctx, class)
	})
	if err != nil {
		h.compensate(ctx, class.ID())
		return nil, err
	}

	h.logger.Info("live class created",
		"class_id", class.ID(),
		"content_source_ref", contentSourceRef,
		"sessions_created", len(plan.Sessions),
	)

	return &CreateClassResult{
		Class:           class,
		SessionsCreated: len(plan.Sessions),
	}, nil
}

// compensate removes a half-created class.
func (h *CreateClassHandler) compensate(ctx context.Context, classID uuid.UUID) {
	if err := h.classRepo.Delete(ctx, classID); err != nil {
		h.logger.Error("failed to remove half-created class",
			"class_id", classID,
			"error", err,
		)
	}
}
