package persistence

import (
	"context"
	"errors"

	"github.com/erp/planner/internal/domain/partner"
	"github.com/erp/planner/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVendorRepository implements partner.VendorRepository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// FindByID finds a vendor by its ID
func (r *GormVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Vendor, error) {
	var vendor partner.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

// GormWarehouseRepository implements partner.WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByIDs finds warehouses by their IDs
func (r *GormWarehouseRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]partner.Warehouse, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var warehouses []partner.Warehouse
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&warehouses).Error
	return warehouses, err
}
