package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	"github.com/coursecast/coursecast/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)

	// Each pool connection would get its own in-memory database.
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), db))

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestSQLiteLiveClassRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteLiveClassRepository(db)
	ctx := context.Background()

	class := domain.NewLiveClass(uuid.New())
	require.NoError(t, repo.Save(ctx, class))

	found, err := repo.FindByID(ctx, class.ID())
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, class.ID(), found.ID())
	assert.Equal(t, class.ContentSourceRef(), found.ContentSourceRef())
	assert.Equal(t, 0, found.CycleCursor())
	assert.True(t, found.IsActive())
}

func TestSQLiteLiveClassRepository_SaveUpdatesCursor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteLiveClassRepository(db)
	ctx := context.Background()

	class := domain.NewLiveClass(uuid.New())
	require.NoError(t, repo.Save(ctx, class))

	require.NoError(t, class.AdvanceCursor(12, 5))
	require.NoError(t, repo.Save(ctx, class))

	found, err := repo.FindByID(ctx, class.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 2, found.CycleCursor())
}

func TestSQLiteLiveClassRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteLiveClassRepository(db)

	found, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestSQLiteLiveClassRepository_FindActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteLiveClassRepository(db)
	ctx := context.Background()

	active := domain.NewLiveClass(uuid.New())
	paused := domain.NewLiveClass(uuid.New())
	paused.Deactivate()

	require.NoError(t, repo.Save(ctx, active))
	require.NoError(t, repo.Save(ctx, paused))

	classes, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, active.ID(), classes[0].ID())
}

func TestSQLiteLiveClassRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteLiveClassRepository(db)
	ctx := context.Background()

	class := domain.NewLiveClass(uuid.New())
	require.NoError(t, repo.Save(ctx, class))

	require.NoError(t, repo.Delete(ctx, class.ID()))

	found, err := repo.FindByID(ctx, class.ID())
	require.NoError(t, err)
	assert.Nil(t, found)

	assert.ErrorIs(t, repo.Delete(ctx, class.ID()), ErrClassNotFound)
}
