// Package catalog reads the platform-owned content catalog tables.
package catalog

import (
	"context"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresReader implements domain.CatalogReader using PostgreSQL.
type PostgresReader struct {
	pool *pgxpool.Pool
}

// NewPostgresReader creates a new PostgreSQL catalog reader.
func NewPostgresReader(pool *pgxpool.Pool) *PostgresReader {
	return &PostgresReader{pool: pool}
}

// ListItems returns the catalog for a content source ordered by ordinal
// position.
func (r *PostgresReader) ListItems(ctx context.Context, sourceRef uuid.UUID) ([]domain.CatalogItem, error) {
	query := `
		SELECT item_id, ordinal_position, title
		FROM content_items
		WHERE source_ref = $1
		ORDER BY ordinal_position ASC
	`

	rows, err := r.pool.Query(ctx, query, sourceRef)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.CatalogItem, 0)
	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(&item.ItemID, &item.OrdinalPosition, &item.Title); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
