package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/coursecast/coursecast/internal/liveclass/application/services"
	"github.com/coursecast/coursecast/internal/liveclass/domain"
	sharedApplication "github.com/coursecast/coursecast/internal/shared/application"
	"github.com/google/uuid"
)

// ExtendSchedulesResult summarizes one generator run.
type ExtendSchedulesResult struct {
	ClassesProcessed int
	ClassesExtended  int
	ClassesSkipped   int
	ClassesFailed    int
	SessionsCreated  int
	Details          []ClassExtension
}

// ClassExtension is the outcome for a single class.
type ClassExtension struct {
	ClassID         uuid.UUID
	SessionsCreated int
	NewCursor       int
	Skipped         bool
	Error           string
}

// ExtendSchedulesHandler extends the rolling calendar of every active live
// class. Classes are processed independently: one class's failure is logged
// and never aborts the run.
type ExtendSchedulesHandler struct {
	classRepo   domain.LiveClassRepository
	sessionRepo domain.SessionRepository
	catalog     domain.CatalogReader
	planner     *services.RotationPlanner
	uow         sharedApplication.UnitOfWork
	logger      *slog.Logger
	now         func() time.Time
}

// NewExtendSchedulesHandler creates a new handler.
func NewExtendSchedulesHandler(
	classRepo domain.LiveClassRepository,
	sessionRepo domain.SessionRepository,
	catalog domain.CatalogReader,
	planner *services.RotationPlanner,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *ExtendSchedulesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtendSchedulesHandler{
		classRepo:   classRepo,
		sessionRepo: sessionRepo,
		catalog:     catalog,
		planner:     planner,
		uow:         uow,
		logger:      logger,
		now:         time.Now,
	}
}

// Handle runs one extension pass over all active classes.
func (h *ExtendSchedulesHandler) Handle(ctx context.Context) (*ExtendSchedulesResult, error) {
	classes, err := h.classRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	result := &ExtendSchedulesResult{
		Details: make([]ClassExtension, 0, len(classes)),
	}

	for _, class := range classes {
		result.ClassesProcessed++

		detail := h.extendClass(ctx, class)
		result.Details = append(result.Details, detail)

		switch {
		case detail.Error != "":
			result.ClassesFailed++
		case detail.Skipped:
			result.ClassesSkipped++
		default:
			result.ClassesExtended++
			result.SessionsCreated += detail.SessionsCreated
		}
	}

	h.logger.Info("schedule extension finished",
		"processed", result.ClassesProcessed,
		"extended", result.ClassesExtended,
		"skipped", result.ClassesSkipped,
		"failed", result.ClassesFailed,
		"sessions_created", result.SessionsCreated,
	)

	return result, nil
}

func (h *ExtendSchedulesHandler) extendClass(ctx context.Context, class *domain.LiveClass) ClassExtension {
	detail := ClassExtension{ClassID: class.ID(), NewCursor: class.CycleCursor()}

	now := h.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	futureCount, err := h.sessionRepo.CountScheduledFrom(ctx, class.ID(), today)
	if err != nil {
		return h.failClass(detail, class.ID(), "count future sessions", err)
	}

	lastScheduled, err := h.sessionRepo.LastScheduledFrom(ctx, class.ID(), today)
	if err != nil {
		return h.failClass(detail, class.ID(), "find latest session", err)
	}

	catalog, err := h.catalog.ListItems(ctx, class.ContentSourceRef())
	if err != nil {
		return h.failClass(detail, class.ID(), "list catalog items", err)
	}

	plan, err := h.planner.Plan(services.PlanRequest{
		Class:         class,
		Catalog:       catalog,
		FutureCount:   futureCount,
		LastScheduled: lastScheduled,
		Now:           now,
	})
	if err != nil {
		return h.failClass(detail, class.ID(), "plan extension", err)
	}
	if plan == nil {
		detail.Skipped = true
		return detail
	}

	// Insert the batch and advance the cursor in one transaction so a
	// partial extension can never leave the cursor out of step.
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(ctx context.Context) error {
		if err := h.sessionRepo.InsertBatch(ctx, plan.Sessions); err != nil {
			return err
		}
		if err := class.AdvanceCursor(plan.DaysPlanned, plan.CycleLength); err != nil {
			return err
		}
		return h.classRepo.Save(ctx, class)
	})
	if errors.Is(err, domain.ErrDuplicate) {
		// A concurrent run already extended this class.
		h.logger.Info("calendar already extended by another run", "class_id", class.ID())
		detail.Skipped = true
		return detail
	}
	if err != nil {
		return h.failClass(detail, class.ID(), "persist extension", err)
	}

	detail.SessionsCreated = len(plan.Sessions)
	detail.NewCursor = class.CycleCursor()
	return detail
}

func (h *ExtendSchedulesHandler) failClass(detail ClassExtension, classID uuid.UUID, op string, err error) ClassExtension {
	h.logger.Error("class extension failed",
		"class_id", classID,
		"op", op,
		"error", err,
	)
	detail.Error = err.Error()
	return detail
}
