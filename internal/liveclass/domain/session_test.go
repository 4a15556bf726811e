package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, capacity *int) *ClassSession {
	t.Helper()

	session, err := NewClassSession(
		uuid.New(),
		uuid.New(),
		SlotMorning,
		time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
		true,
		capacity,
	)
	require.NoError(t, err)
	return session
}

func TestNewClassSession(t *testing.T) {
	t.Run("creates a scheduled session", func(t *testing.T) {
		session := newTestSession(t, nil)

		assert.Equal(t, StatusScheduled, session.Status())
		assert.Equal(t, SlotMorning, session.Slot())
		assert.True(t, session.IsFree())
		assert.Nil(t, session.Capacity())
		assert.Nil(t, session.Remaining())
	})

	t.Run("rejects unknown slot", func(t *testing.T) {
		_, err := NewClassSession(uuid.New(), uuid.New(), SessionSlot("midnight"), time.Now(), false, nil)
		assert.ErrorIs(t, err, ErrInvalidSlot)
	})

	t.Run("rejects zero scheduled time", func(t *testing.T) {
		_, err := NewClassSession(uuid.New(), uuid.New(), SlotEvening, time.Time{}, false, nil)
		assert.ErrorIs(t, err, ErrZeroScheduledTime)
	})

	t.Run("rejects non-positive capacity", func(t *testing.T) {
		capacity := 0
		_, err := NewClassSession(uuid.New(), uuid.New(), SlotEvening, time.Now(), false, &capacity)
		assert.ErrorIs(t, err, ErrNegativeCapacity)
	})

	t.Run("remaining starts at capacity", func(t *testing.T) {
		capacity := 25
		session := newTestSession(t, &capacity)

		require.NotNil(t, session.Remaining())
		assert.Equal(t, 25, *session.Remaining())
	})
}

func TestSessionStatus_Transitions(t *testing.T) {
	t.Run("scheduled to in_progress to completed", func(t *testing.T) {
		session := newTestSession(t, nil)

		require.NoError(t, session.Start())
		assert.Equal(t, StatusInProgress, session.Status())

		require.NoError(t, session.Complete())
		assert.Equal(t, StatusCompleted, session.Status())
	})

	t.Run("scheduled to cancelled", func(t *testing.T) {
		session := newTestSession(t, nil)

		require.NoError(t, session.Cancel())
		assert.Equal(t, StatusCancelled, session.Status())
	})

	t.Run("cannot complete without starting", func(t *testing.T) {
		session := newTestSession(t, nil)
		assert.ErrorIs(t, session.Complete(), ErrIllegalTransition)
	})

	t.Run("cannot cancel after start", func(t *testing.T) {
		session := newTestSession(t, nil)
		require.NoError(t, session.Start())
		assert.ErrorIs(t, session.Cancel(), ErrIllegalTransition)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		session := newTestSession(t, nil)
		require.NoError(t, session.Start())
		require.NoError(t, session.Complete())

		assert.ErrorIs(t, session.Start(), ErrIllegalTransition)
		assert.ErrorIs(t, session.Cancel(), ErrIllegalTransition)
	})
}

func TestClassSession_Capacity(t *testing.T) {
	t.Run("reserve decrements remaining", func(t *testing.T) {
		capacity := 2
		session := newTestSession(t, &capacity)

		require.NoError(t, session.Reserve())
		require.NoError(t, session.Reserve())
		assert.Equal(t, 0, *session.Remaining())

		assert.ErrorIs(t, session.Reserve(), ErrSessionFull)
	})

	t.Run("release is capped at capacity", func(t *testing.T) {
		capacity := 2
		session := newTestSession(t, &capacity)

		require.NoError(t, session.Reserve())
		require.NoError(t, session.Release())
		assert.Equal(t, 2, *session.Remaining())

		require.NoError(t, session.Release())
		assert.Equal(t, 2, *session.Remaining())
	})

	t.Run("unlimited sessions reject reservation", func(t *testing.T) {
		session := newTestSession(t, nil)
		assert.ErrorIs(t, session.Reserve(), ErrSessionNotLimited)
		assert.ErrorIs(t, session.Release(), ErrSessionNotLimited)
	})
}

func TestSessionSlot(t *testing.T) {
	t.Run("known slots are valid", func(t *testing.T) {
		for _, slot := range AllSlots() {
			assert.True(t, slot.IsValid(), string(slot))
		}
		assert.False(t, SessionSlot("brunch").IsValid())
	})

	t.Run("slots are in chronological default order", func(t *testing.T) {
		times := DefaultSlotTimes()
		day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

		var prev time.Time
		for _, slot := range AllSlots() {
			at := times[slot].At(day, time.UTC)
			assert.True(t, at.After(prev), "slot %s out of order", slot)
			prev = at
		}
	})
}

func TestSlotTime_At(t *testing.T) {
	st := SlotTime{Hour: 14, Minute: 30}
	day := time.Date(2026, time.July, 4, 23, 59, 0, 0, time.UTC)

	at := st.At(day, time.UTC)
	assert.Equal(t, time.Date(2026, time.July, 4, 14, 30, 0, 0, time.UTC), at)
}

func TestClassSession_TimeUntil(t *testing.T) {
	session := newTestSession(t, nil)
	now := session.ScheduledAt().Add(-45 * time.Minute)

	assert.Equal(t, 45*time.Minute, session.TimeUntil(now))
	assert.Negative(t, session.TimeUntil(session.ScheduledAt().Add(time.Minute)))
}
