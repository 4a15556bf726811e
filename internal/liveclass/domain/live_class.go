package domain

import (
	"errors"
	"time"

	sharedDomain "github.com/coursecast/coursecast/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrInvalidCycleLength = errors.New("cycle length must be positive")
	ErrClassInactive      = errors.New("live class is inactive")
	ErrEmptyCatalog       = errors.New("content catalog is empty")
)

// LiveClass is a recurring live-session stream derived from a content
// catalog. The cycle cursor is the only rotation state: it marks the next
// catalog position to schedule and survives across generator runs.
type LiveClass struct {
	sharedDomain.BaseEntity
	contentSourceRef uuid.UUID
	cycleCursor      int
	isActive         bool
}

// NewLiveClass creates an active live class with its cursor at the start of
// the catalog rotation.
func NewLiveClass(contentSourceRef uuid.UUID) *LiveClass {
	return &LiveClass{
		BaseEntity:       sharedDomain.NewBaseEntity(),
		contentSourceRef: contentSourceRef,
		cycleCursor:      0,
		isActive:         true,
	}
}

// Getters
func (c *LiveClass) ContentSourceRef() uuid.UUID { return c.contentSourceRef }
func (c *LiveClass) CycleCursor() int            { return c.cycleCursor }
func (c *LiveClass) IsActive() bool              { return c.isActive }

// AdvanceCursor moves the rotation cursor forward by the given number of
// scheduled days, wrapping at cycleLength.
func (c *LiveClass) AdvanceCursor(days, cycleLength int) error {
	if cycleLength <= 0 {
		return ErrInvalidCycleLength
	}
	if days < 0 {
		days = 0
	}
	c.cycleCursor = (c.cycleCursor + days) % cycleLength
	c.Touch()
	return nil
}

// Activate resumes scheduling and reminding for this class.
func (c *LiveClass) Activate() {
	if !c.isActive {
		c.isActive = true
		c.Touch()
	}
}

// Deactivate stops the class from being extended or reminded.
func (c *LiveClass) Deactivate() {
	if c.isActive {
		c.isActive = false
		c.Touch()
	}
}

// RehydrateLiveClass recreates a live class from persisted state.
func RehydrateLiveClass(
	id uuid.UUID,
	contentSourceRef uuid.UUID,
	cycleCursor int,
	isActive bool,
	createdAt, updatedAt time.Time,
) *LiveClass {
	return &LiveClass{
		BaseEntity:       sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		contentSourceRef: contentSourceRef,
		cycleCursor:      cycleCursor,
		isActive:         isActive,
	}
}
