package catalog

import (
	"context"
	"database/sql"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	"github.com/google/uuid"
)

// SQLiteReader implements domain.CatalogReader using SQLite.
type SQLiteReader struct {
	db *sql.DB
}

// NewSQLiteReader creates a new SQLite catalog reader.
func NewSQLiteReader(db *sql.DB) *SQLiteReader {
	return &SQLiteReader{db: db}
}

// ListItems returns the catalog for a content source ordered by ordinal
// position.
func (r *SQLiteReader) ListItems(ctx context.Context, sourceRef uuid.UUID) ([]domain.CatalogItem, error) {
	query := `
		SELECT item_id, ordinal_position, title
		FROM content_items
		WHERE source_ref = ?
		ORDER BY ordinal_position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, sourceRef.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.CatalogItem, 0)
	for rows.Next() {
		var (
			itemStr string
			item    domain.CatalogItem
		)
		if err := rows.Scan(&itemStr, &item.OrdinalPosition, &item.Title); err != nil {
			return nil, err
		}
		item.ItemID, err = uuid.Parse(itemStr)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
