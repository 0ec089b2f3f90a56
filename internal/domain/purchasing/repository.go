package purchasing

import (
	"context"

	"github.com/google/uuid"
)

// SupplierInfoRepository defines the interface for vendor-product
// association lookups
type SupplierInfoRepository interface {
	// FindByVendor returns every association belonging to a commercial
	// entity
	FindByVendor(ctx context.Context, commercialID uuid.UUID) ([]SupplierInfo, error)

	// FindForProducts returns the associations that can supply any of the
	// given products: variant-level records for the products plus
	// template-level records for their templates
	FindForProducts(ctx context.Context, productIDs, templateIDs []uuid.UUID) ([]SupplierInfo, error)
}
