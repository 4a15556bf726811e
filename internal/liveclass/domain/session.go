package domain

import (
	"errors"
	"fmt"
	"time"

	sharedDomain "github.com/coursecast/coursecast/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrInvalidSlot       = errors.New("invalid session slot")
	ErrInvalidStatus     = errors.New("invalid session status")
	ErrZeroScheduledTime = errors.New("session must have a scheduled time")
	ErrSessionFull       = errors.New("session has no remaining capacity")
	ErrSessionNotLimited = errors.New("session has no capacity limit")
	ErrIllegalTransition = errors.New("illegal session status transition")
	ErrNegativeCapacity  = errors.New("capacity must be positive")
)

// SessionSlot is one of the fixed daily scheduling positions. The set is
// closed; the wall-clock time of each slot comes from configuration.
type SessionSlot string

const (
	SlotMorning   SessionSlot = "morning"
	SlotAfternoon SessionSlot = "afternoon"
	SlotEvening   SessionSlot = "evening"
)

// AllSlots returns the daily slots in chronological order.
func AllSlots() []SessionSlot {
	return []SessionSlot{SlotMorning, SlotAfternoon, SlotEvening}
}

// IsValid checks if the slot is one of the known daily slots.
func (s SessionSlot) IsValid() bool {
	switch s {
	case SlotMorning, SlotAfternoon, SlotEvening:
		return true
	default:
		return false
	}
}

// SlotTime is the wall-clock time of day a slot starts at.
type SlotTime struct {
	Hour   int
	Minute int
}

// SlotTimes maps each slot to its start-of-session wall-clock time.
type SlotTimes map[SessionSlot]SlotTime

// DefaultSlotTimes returns the default daily cadence.
func DefaultSlotTimes() SlotTimes {
	return SlotTimes{
		SlotMorning:   {Hour: 9, Minute: 0},
		SlotAfternoon: {Hour: 14, Minute: 0},
		SlotEvening:   {Hour: 19, Minute: 0},
	}
}

// At anchors the slot's wall-clock time onto a calendar day in loc.
func (st SlotTime) At(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), st.Hour, st.Minute, 0, 0, loc)
}

// SessionStatus is the lifecycle state of a class session.
type SessionStatus string

const (
	StatusScheduled  SessionStatus = "scheduled"
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
	StatusCancelled  SessionStatus = "cancelled"
)

// IsValid checks if the status is a known lifecycle state.
func (s SessionStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// canTransitionTo reports whether the status may move to next.
func (s SessionStatus) canTransitionTo(next SessionStatus) bool {
	switch s {
	case StatusScheduled:
		return next == StatusInProgress || next == StatusCancelled
	case StatusInProgress:
		return next == StatusCompleted
	default:
		return false
	}
}

// ClassSession is a single dated occurrence of a live class, built from one
// catalog item at one daily slot.
type ClassSession struct {
	sharedDomain.BaseEntity
	liveClassID    uuid.UUID
	contentItemRef uuid.UUID
	slot           SessionSlot
	scheduledAt    time.Time
	status         SessionStatus
	isFree         bool
	capacity       *int
	remaining      *int
}

// NewClassSession creates a scheduled session. A nil capacity means the
// session is not slot-limited.
func NewClassSession(
	liveClassID uuid.UUID,
	contentItemRef uuid.UUID,
	slot SessionSlot,
	scheduledAt time.Time,
	isFree bool,
	capacity *int,
) (*ClassSession, error) {
	if !slot.IsValid() {
		return nil, ErrInvalidSlot
	}
	if scheduledAt.IsZero() {
		return nil, ErrZeroScheduledTime
	}
	if capacity != nil && *capacity <= 0 {
		return nil, ErrNegativeCapacity
	}

	// Copy the limit so sessions never share capacity state with the
	// caller or each other.
	var capCopy, remaining *int
	if capacity != nil {
		c := *capacity
		r := *capacity
		capCopy, remaining = &c, &r
	}

	return &ClassSession{
		BaseEntity:     sharedDomain.NewBaseEntity(),
		liveClassID:    liveClassID,
		contentItemRef: contentItemRef,
		slot:           slot,
		scheduledAt:    scheduledAt.UTC(),
		status:         StatusScheduled,
		isFree:         isFree,
		capacity:       capCopy,
		remaining:      remaining,
	}, nil
}

// Getters
func (s *ClassSession) LiveClassID() uuid.UUID    { return s.liveClassID }
func (s *ClassSession) ContentItemRef() uuid.UUID { return s.contentItemRef }
func (s *ClassSession) Slot() SessionSlot         { return s.slot }
func (s *ClassSession) ScheduledAt() time.Time    { return s.scheduledAt }
func (s *ClassSession) Status() SessionStatus     { return s.status }
func (s *ClassSession) IsFree() bool              { return s.isFree }
func (s *ClassSession) Capacity() *int            { return s.capacity }
func (s *ClassSession) Remaining() *int           { return s.remaining }

// TimeUntil returns how long until the session starts, negative if started.
func (s *ClassSession) TimeUntil(now time.Time) time.Duration {
	return s.scheduledAt.Sub(now)
}

// Start moves the session into in_progress.
func (s *ClassSession) Start() error {
	return s.transition(StatusInProgress)
}

// Complete moves the session into completed.
func (s *ClassSession) Complete() error {
	return s.transition(StatusCompleted)
}

// Cancel cancels a not-yet-started session.
func (s *ClassSession) Cancel() error {
	return s.transition(StatusCancelled)
}

func (s *ClassSession) transition(next SessionStatus) error {
	if !s.status.canTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.status, next)
	}
	s.status = next
	s.Touch()
	return nil
}

// Reserve takes one seat on a slot-limited session.
func (s *ClassSession) Reserve() error {
	if s.remaining == nil {
		return ErrSessionNotLimited
	}
	if *s.remaining <= 0 {
		return ErrSessionFull
	}
	*s.remaining--
	s.Touch()
	return nil
}

// Release returns one seat on a slot-limited session, capped at capacity.
func (s *ClassSession) Release() error {
	if s.remaining == nil || s.capacity == nil {
		return ErrSessionNotLimited
	}
	if *s.remaining < *s.capacity {
		*s.remaining++
		s.Touch()
	}
	return nil
}

// RehydrateClassSession recreates a session from persisted state.
func RehydrateClassSession(
	id uuid.UUID,
	liveClassID uuid.UUID,
	contentItemRef uuid.UUID,
	slot SessionSlot,
	scheduledAt time.Time,
	status SessionStatus,
	isFree bool,
	capacity *int,
	remaining *int,
	createdAt, updatedAt time.Time,
) *ClassSession {
	return &ClassSession{
		BaseEntity:     sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		liveClassID:    liveClassID,
		contentItemRef: contentItemRef,
		slot:           slot,
		scheduledAt:    scheduledAt,
		status:         status,
		isFree:         isFree,
		capacity:       capacity,
		remaining:      remaining,
	}
}
