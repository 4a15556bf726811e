package queries

import (
	"context"

	"github.com/coursecast/coursecast/internal/liveclass/domain"
	"github.com/google/uuid"
)

// AccessPreviewItem is one catalog entry with its computed access tier.
type AccessPreviewItem struct {
	ItemID          uuid.UUID
	OrdinalPosition int
	Title           string
	IsFree          bool
}

// AccessPreviewHandler shows how the access policy splits a class's catalog
// into free and paid items, without touching the calendar.
type AccessPreviewHandler struct {
	classRepo domain.LiveClassRepository
	catalog   domain.CatalogReader
	policy    domain.AccessPolicy
}

// NewAccessPreviewHandler creates a new handler.
func NewAccessPreviewHandler(classRepo domain.LiveClassRepository, catalog domain.CatalogReader, policy domain.AccessPolicy) *AccessPreviewHandler {
	return &AccessPreviewHandler{
		classRepo: classRepo,
		catalog:   catalog,
		policy:    policy,
	}
}

// Handle returns the class's catalog annotated with the free/paid split.
func (h *AccessPreviewHandler) Handle(ctx context.Context, classID uuid.UUID) ([]AccessPreviewItem, error) {
	class, err := h.classRepo.FindByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, domain.ErrClassNotFound
	}

	items, err := h.catalog.ListItems(ctx, class.ContentSourceRef())
	if err != nil {
		return nil, err
	}

	preview := make([]AccessPreviewItem, 0, len(items))
	for _, item := range items {
		preview = append(preview, AccessPreviewItem{
			ItemID:          item.ItemID,
			OrdinalPosition: item.OrdinalPosition,
			Title:           item.Title,
			IsFree:          h.policy.IsFree(item.OrdinalPosition),
		})
	}
	return preview, nil
}
