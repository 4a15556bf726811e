package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	sharedPersistence "github.com/coursecast/coursecast/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLiveClassRepository implements domain.LiveClassRepository using
// PostgreSQL.
type PostgresLiveClassRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLiveClassRepository creates a new PostgreSQL live class repository.
func NewPostgresLiveClassRepository(pool *pgxpool.Pool) *PostgresLiveClassRepository {
	return &PostgresLiveClassRepository{pool: pool}
}

// liveClassRow represents a database row for live classes.
type liveClassRow struct {
	ID               uuid.UUID
	ContentSourceRef uuid.UUID
	CycleCursor      int
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Save persists a live class (create or update).
func (r *PostgresLiveClassRepository) Save(ctx context.Context, class *domain.LiveClass) error {
	query := `
		INSERT INTO live_classes (
			id, content_source_ref, cycle_cursor, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			content_source_ref = EXCLUDED.content_source_ref,
			cycle_cursor = EXCLUDED.cycle_cursor,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`

	_, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, query,
		class.ID(),
		class.ContentSourceRef(),
		class.CycleCursor(),
		class.IsActive(),
		class.CreatedAt(),
		class.UpdatedAt(),
	)
	return mapPostgresError(err)
}

// FindByID retrieves a live class by its ID, nil when absent.
func (r *PostgresLiveClassRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.LiveClass, error) {
	query := `
		SELECT id, content_source_ref, cycle_cursor, is_active, created_at, updated_at
		FROM live_classes
		WHERE id = $1
	`

	var row liveClassRow
	err := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&row.ID,
		&row.ContentSourceRef,
		&row.CycleCursor,
		&row.IsActive,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return rowToLiveClass(row), nil
}

// FindActive retrieves all active live classes, oldest first so long-running
// classes are extended before recently created ones.
func (r *PostgresLiveClassRepository) FindActive(ctx context.Context) ([]*domain.LiveClass, error) {
	query := `
		SELECT id, content_source_ref, cycle_cursor, is_active, created_at, updated_at
		FROM live_classes
		WHERE is_active = TRUE
		ORDER BY created_at ASC
	`

	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := make([]*domain.LiveClass, 0)
	for rows.Next() {
		var row liveClassRow
		err := rows.Scan(
			&row.ID,
			&row.ContentSourceRef,
			&row.CycleCursor,
			&row.IsActive,
			&row.CreatedAt,
			&row.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		classes = append(classes, rowToLiveClass(row))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return classes, nil
}

// Delete removes a live class and, via cascade, its sessions.
func (r *PostgresLiveClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM live_classes WHERE id = $1`
	result, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrClassNotFound
	}
	return nil
}

func rowToLiveClass(row liveClassRow) *domain.LiveClass {
	return domain.RehydrateLiveClass(
		row.ID,
		row.ContentSourceRef,
		row.CycleCursor,
		row.IsActive,
		row.CreatedAt,
		row.UpdatedAt,
	)
}
