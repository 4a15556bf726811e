package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteReminderRepository_CreateAndExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteReminderRepository(db)
	ctx := context.Background()

	class := createTestClass(t, db)
	session := createTestSession(t, class.ID(),
		domain.SlotMorning, time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC), nil)
	require.NoError(t, NewSQLiteSessionRepository(db).InsertBatch(ctx, []*domain.ClassSession{session}))

	recipient := uuid.New()
	sentAt := time.Date(2026, time.April, 1, 8, 0, 0, 0, time.UTC)

	exists, err := repo.Exists(ctx, session.ID(), domain.Kind1hBefore, recipient)
	require.NoError(t, err)
	assert.False(t, exists)

	record := domain.NewReminderRecord(session.ID(), domain.Kind1hBefore, recipient, sentAt)
	require.NoError(t, repo.Create(ctx, record))

	exists, err = repo.Exists(ctx, session.ID(), domain.Kind1hBefore, recipient)
	require.NoError(t, err)
	assert.True(t, exists)

	// The same kind to a different recipient is a distinct record.
	exists, err = repo.Exists(ctx, session.ID(), domain.Kind1hBefore, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSQLiteReminderRepository_Create_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteReminderRepository(db)
	ctx := context.Background()

	class := createTestClass(t, db)
	session := createTestSession(t, class.ID(),
		domain.SlotMorning, time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC), nil)
	require.NoError(t, NewSQLiteSessionRepository(db).InsertBatch(ctx, []*domain.ClassSession{session}))

	recipient := uuid.New()
	sentAt := time.Date(2026, time.April, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, domain.NewReminderRecord(session.ID(), domain.Kind1hBefore, recipient, sentAt)))

	err := repo.Create(ctx, domain.NewReminderRecord(session.ID(), domain.Kind1hBefore, recipient, sentAt.Add(time.Minute)))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestSQLiteReminderRepository_ListBySession(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteReminderRepository(db)
	ctx := context.Background()

	class := createTestClass(t, db)
	session := createTestSession(t, class.ID(),
		domain.SlotMorning, time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC), nil)
	require.NoError(t, NewSQLiteSessionRepository(db).InsertBatch(ctx, []*domain.ClassSession{session}))

	recipient := uuid.New()
	base := time.Date(2026, time.March, 31, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, domain.NewReminderRecord(session.ID(), domain.Kind24hBefore, recipient, base)))
	require.NoError(t, repo.Create(ctx, domain.NewReminderRecord(session.ID(), domain.Kind1hBefore, recipient, base.Add(23*time.Hour))))

	records, err := repo.ListBySession(ctx, session.ID())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, domain.Kind24hBefore, records[0].Kind())
	assert.Equal(t, domain.Kind1hBefore, records[1].Kind())
	assert.Equal(t, recipient, records[0].RecipientRef())
}
