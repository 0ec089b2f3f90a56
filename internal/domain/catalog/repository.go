package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the read interface over the product catalog
type ProductRepository interface {
	// FindByID finds a product variant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds product variants by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindVariantsByTemplateIDs expands templates to their active,
	// purchasable variants
	FindVariantsByTemplateIDs(ctx context.Context, templateIDs []uuid.UUID) ([]Product, error)

	// FindPurchasable finds every active, purchasable variant, optionally
	// restricted to a category set
	FindPurchasable(ctx context.Context, categoryIDs []uuid.UUID) ([]Product, error)
}
