package partner

import (
	"context"

	"github.com/google/uuid"
)

// VendorRepository defines the interface for vendor lookups
type VendorRepository interface {
	// FindByID finds a vendor by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Vendor, error)
}

// WarehouseRepository defines the interface for warehouse lookups
type WarehouseRepository interface {
	// FindByIDs finds warehouses by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Warehouse, error)
}
