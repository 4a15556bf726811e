package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	sharedPersistence "github.com/coursecast/coursecast/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteLiveClassRepository implements domain.LiveClassRepository using
// SQLite. Timestamps are stored as RFC3339 UTC text.
type SQLiteLiveClassRepository struct {
	db *sql.DB
}

// NewSQLiteLiveClassRepository creates a new SQLite live class repository.
func NewSQLiteLiveClassRepository(db *sql.DB) *SQLiteLiveClassRepository {
	return &SQLiteLiveClassRepository{db: db}
}

// Save persists a live class (create or update).
func (r *SQLiteLiveClassRepository) Save(ctx context.Context, class *domain.LiveClass) error {
	query := `
		INSERT INTO live_classes (
			id, content_source_ref, cycle_cursor, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			content_source_ref = excluded.content_source_ref,
			cycle_cursor = excluded.cycle_cursor,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at
	`

	_, err := sharedPersistence.SQLDB(ctx, r.db).ExecContext(ctx, query,
		class.ID().String(),
		class.ContentSourceRef().String(),
		class.CycleCursor(),
		boolToInt(class.IsActive()),
		formatTime(class.CreatedAt()),
		formatTime(class.UpdatedAt()),
	)
	return mapSQLiteError(err)
}

// FindByID retrieves a live class by its ID, nil when absent.
func (r *SQLiteLiveClassRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.LiveClass, error) {
	query := `
		SELECT id, content_source_ref, cycle_cursor, is_active, created_at, updated_at
		FROM live_classes
		WHERE id = ?
	`

	row := sharedPersistence.SQLDB(ctx, r.db).QueryRowContext(ctx, query, id.String())
	class, err := scanLiveClassRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return class, nil
}

// FindActive retrieves all active live classes, oldest first.
func (r *SQLiteLiveClassRepository) FindActive(ctx context.Context) ([]*domain.LiveClass, error) {
	query := `
		SELECT id, content_source_ref, cycle_cursor, is_active, created_at, updated_at
		FROM live_classes
		WHERE is_active = 1
		ORDER BY created_at ASC
	`

	rows, err := sharedPersistence.SQLDB(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := make([]*domain.LiveClass, 0)
	for rows.Next() {
		class, err := scanLiveClassRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return classes, nil
}

// Delete removes a live class and, via cascade, its sessions.
func (r *SQLiteLiveClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := sharedPersistence.SQLDB(ctx, r.db).ExecContext(ctx,
		`DELETE FROM live_classes WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrClassNotFound
	}
	return nil
}

func scanLiveClassRow(scan func(dest ...any) error) (*domain.LiveClass, error) {
	var (
		idStr, sourceStr         string
		cursor, active           int
		createdAtStr, updatedStr string
	)
	if err := scan(&idStr, &sourceStr, &cursor, &active, &createdAtStr, &updatedStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	sourceRef, err := uuid.Parse(sourceStr)
	if err != nil {
		return nil, err
	}
	createdAt, err := parseTime(createdAtStr)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(updatedStr)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateLiveClass(id, sourceRef, cursor, active != 0, createdAt, updatedAt), nil
}

// Helper functions shared by the SQLite repositories.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
