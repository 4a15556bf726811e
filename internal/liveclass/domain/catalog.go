package domain

import (
	"context"

	"github.com/google/uuid"
)

// CatalogItem is one entry of a class's ordered content catalog.
type CatalogItem struct {
	ItemID          uuid.UUID
	OrdinalPosition int
	Title           string
}

// CatalogReader reads the ordered content catalog backing a live class.
// The catalog itself is owned by the wider platform.
type CatalogReader interface {
	// ListItems returns the catalog for a content source ordered by
	// ordinal position.
	ListItems(ctx context.Context, sourceRef uuid.UUID) ([]CatalogItem, error)
}
