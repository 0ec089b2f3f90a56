package persistence

import (
	"context"

	"github.com/erp/planner/internal/domain/purchasing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplierInfoRepository implements purchasing.SupplierInfoRepository using GORM
type GormSupplierInfoRepository struct {
	db *gorm.DB
}

// NewGormSupplierInfoRepository creates a new GormSupplierInfoRepository
func NewGormSupplierInfoRepository(db *gorm.DB) *GormSupplierInfoRepository {
	return &GormSupplierInfoRepository{db: db}
}

// FindByVendor returns every association belonging to a commercial entity
func (r *GormSupplierInfoRepository) FindByVendor(ctx context.Context, commercialID uuid.UUID) ([]purchasing.SupplierInfo, error) {
	var infos []purchasing.SupplierInfo
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", commercialID).
		Order("sequence ASC, price ASC").
		Find(&infos).Error
	return infos, err
}

// FindForProducts returns the associations that can supply any of the given
// products, matching variant-level and template-level records
func (r *GormSupplierInfoRepository) FindForProducts(ctx context.Context, productIDs, templateIDs []uuid.UUID) ([]purchasing.SupplierInfo, error) {
	if len(productIDs) == 0 && len(templateIDs) == 0 {
		return nil, nil
	}
	var infos []purchasing.SupplierInfo
	err := r.db.WithContext(ctx).
		Where("product_id IN ? OR template_id IN ?", productIDs, templateIDs).
		Order("sequence ASC, price ASC").
		Find(&infos).Error
	return infos, err
}
