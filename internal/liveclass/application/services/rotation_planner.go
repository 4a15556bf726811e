package services

import (
	"time"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
)

// RotationPlannerConfig tunes how far and how densely calendars extend.
type RotationPlannerConfig struct {
	// Slots is the fixed daily slot set, in chronological order.
	Slots []domain.SessionSlot

	// SlotTimes maps each slot to its wall-clock start time.
	SlotTimes domain.SlotTimes

	// LowWaterMarkDays is the minimum buffered days of future sessions
	// before extension is skipped.
	LowWaterMarkDays int

	// ExtensionDays is the number of calendar days each extension adds.
	ExtensionDays int

	// MinCycleLength pads the rotation of short standalone catalogs.
	MinCycleLength int

	// MaxCycleLength caps how much of a long course a rotation exposes.
	MaxCycleLength int

	// DefaultCapacity limits seats per session; zero means unlimited.
	DefaultCapacity int

	// Location anchors calendar days and slot times.
	Location *time.Location
}

// DefaultRotationPlannerConfig returns the standard rotation settings.
func DefaultRotationPlannerConfig() RotationPlannerConfig {
	return RotationPlannerConfig{
		Slots:            domain.AllSlots(),
		SlotTimes:        domain.DefaultSlotTimes(),
		LowWaterMarkDays: 7,
		ExtensionDays:    30,
		MinCycleLength:   7,
		MaxCycleLength:   60,
		DefaultCapacity:  0,
		Location:         time.UTC,
	}
}

// PlanRequest carries one class's current calendar state into planning.
type PlanRequest struct {
	Class         *domain.LiveClass
	Catalog       []domain.CatalogItem
	FutureCount   int
	LastScheduled *time.Time
	Now           time.Time
}

// Plan is a computed extension batch for one class. Nothing is persisted
// here; the caller inserts the sessions and advances the cursor together.
type Plan struct {
	Sessions    []*domain.ClassSession
	CycleLength int
	DaysPlanned int
	NewCursor   int
}

// RotationPlanner computes extension batches by walking a class's catalog
// cyclically. It is pure: all state comes in through the request.
type RotationPlanner struct {
	cfg    RotationPlannerConfig
	policy domain.AccessPolicy
}

// NewRotationPlanner creates a planner, filling config gaps with defaults.
func NewRotationPlanner(cfg RotationPlannerConfig, policy domain.AccessPolicy) *RotationPlanner {
	defaults := DefaultRotationPlannerConfig()
	if len(cfg.Slots) == 0 {
		cfg.Slots = defaults.Slots
	}
	if cfg.SlotTimes == nil {
		cfg.SlotTimes = defaults.SlotTimes
	}
	if cfg.LowWaterMarkDays <= 0 {
		cfg.LowWaterMarkDays = defaults.LowWaterMarkDays
	}
	if cfg.ExtensionDays <= 0 {
		cfg.ExtensionDays = defaults.ExtensionDays
	}
	if cfg.MinCycleLength <= 0 {
		cfg.MinCycleLength = defaults.MinCycleLength
	}
	if cfg.MaxCycleLength <= 0 {
		cfg.MaxCycleLength = defaults.MaxCycleLength
	}
	if cfg.Location == nil {
		cfg.Location = defaults.Location
	}

	return &RotationPlanner{cfg: cfg, policy: policy}
}

// SlotsPerDay returns the number of sessions each calendar day holds.
func (p *RotationPlanner) SlotsPerDay() int {
	return len(p.cfg.Slots)
}

// Plan computes the extension batch for one class. It returns (nil, nil)
// when the calendar already holds enough buffered days, which makes repeated
// invocation a no-op.
func (p *RotationPlanner) Plan(req PlanRequest) (*Plan, error) {
	if !req.Class.IsActive() {
		return nil, domain.ErrClassInactive
	}
	if len(req.Catalog) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	daysRemaining := req.FutureCount / len(p.cfg.Slots)
	if daysRemaining >= p.cfg.LowWaterMarkDays {
		return nil, nil
	}

	startDay := p.startDay(req.Now, req.LastScheduled)
	cycleLength := p.cycleLength(len(req.Catalog))
	cursor := req.Class.CycleCursor()

	var capacity *int
	if p.cfg.DefaultCapacity > 0 {
		capacity = &p.cfg.DefaultCapacity
	}

	sessions := make([]*domain.ClassSession, 0, p.cfg.ExtensionDays*len(p.cfg.Slots))
	for day := 0; day < p.cfg.ExtensionDays; day++ {
		rotationIndex := (cursor + day) % cycleLength
		// Padded rotations (catalog shorter than the minimum cycle)
		// wrap back onto real items.
		item := req.Catalog[rotationIndex%len(req.Catalog)]
		calendarDay := startDay.AddDate(0, 0, day)

		for _, slot := range p.cfg.Slots {
			scheduledAt := p.cfg.SlotTimes[slot].At(calendarDay, p.cfg.Location)
			session, err := domain.NewClassSession(
				req.Class.ID(),
				item.ItemID,
				slot,
				scheduledAt,
				p.policy.IsFree(item.OrdinalPosition),
				capacity,
			)
			if err != nil {
				return nil, err
			}
			sessions = append(sessions, session)
		}
	}

	return &Plan{
		Sessions:    sessions,
		CycleLength: cycleLength,
		DaysPlanned: p.cfg.ExtensionDays,
		NewCursor:   (cursor + p.cfg.ExtensionDays) % cycleLength,
	}, nil
}

// startDay is the day after the latest future session, never earlier than
// tomorrow.
func (p *RotationPlanner) startDay(now time.Time, lastScheduled *time.Time) time.Time {
	tomorrow := startOfDay(now.In(p.cfg.Location)).AddDate(0, 0, 1)
	if lastScheduled == nil {
		return tomorrow
	}

	next := startOfDay(lastScheduled.In(p.cfg.Location)).AddDate(0, 0, 1)
	if next.After(tomorrow) {
		return next
	}
	return tomorrow
}

// cycleLength clamps the rotation period: short standalone catalogs are
// padded up to the minimum, long course catalogs are capped at the maximum.
func (p *RotationPlanner) cycleLength(catalogLen int) int {
	if catalogLen < p.cfg.MinCycleLength {
		return p.cfg.MinCycleLength
	}
	if catalogLen > p.cfg.MaxCycleLength {
		return p.cfg.MaxCycleLength
	}
	return catalogLen
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
