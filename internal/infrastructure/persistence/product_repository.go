package persistence

import (
	"context"
	"errors"

	"github.com/erp/planner/internal/domain/catalog"
	"github.com/erp/planner/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product variant by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs finds product variants by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []catalog.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

// FindVariantsByTemplateIDs expands templates to their active, purchasable
// variants
func (r *GormProductRepository) FindVariantsByTemplateIDs(ctx context.Context, templateIDs []uuid.UUID) ([]catalog.Product, error) {
	if len(templateIDs) == 0 {
		return nil, nil
	}
	var products []catalog.Product
	err := r.db.WithContext(ctx).
		Where("template_id IN ? AND active = ? AND purchasable = ?", templateIDs, true, true).
		Find(&products).Error
	return products, err
}

// FindPurchasable finds every active, purchasable variant, optionally
// restricted to a category set
func (r *GormProductRepository) FindPurchasable(ctx context.Context, categoryIDs []uuid.UUID) ([]catalog.Product, error) {
	query := r.db.WithContext(ctx).
		Where("active = ? AND purchasable = ?", true, true)
	if len(categoryIDs) > 0 {
		query = query.Where("category_id IN ?", categoryIDs)
	}
	var products []catalog.Product
	err := query.Find(&products).Error
	return products, err
}
