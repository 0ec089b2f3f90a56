package catalog

import (
	"strings"
	"time"

	"github.com/erp/planner/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductTemplate is the commercial definition of a product. A template owns
// one or more concrete variants; vendor associations may reference either
// level. Templates are mastered by the catalog owner, this service reads them.
type ProductTemplate struct {
	shared.BaseEntity
	Code         string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string     `gorm:"type:varchar(200);not null"`
	CategoryID   *uuid.UUID `gorm:"type:uuid;index"`
	PurchaseUnit string     `gorm:"type:varchar(20);not null;default:'pcs'"`
	Active       bool       `gorm:"not null;default:true"`
	Purchasable  bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductTemplate) TableName() string {
	return "product_templates"
}

// Product is a concrete, stockable variant of a template. Category and the
// active/purchasable flags are denormalized from the template when the
// catalog owner writes the record.
type Product struct {
	shared.BaseEntity
	TemplateID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Code         string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string     `gorm:"type:varchar(200);not null"`
	CategoryID   *uuid.UUID `gorm:"type:uuid;index"`
	PurchaseUnit string     `gorm:"type:varchar(20);not null;default:'pcs'"`
	Active       bool       `gorm:"not null;default:true"`
	Purchasable  bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product variant under a template
func NewProduct(templateID uuid.UUID, code, name string) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}

	return &Product{
		BaseEntity:   shared.NewBaseEntity(),
		TemplateID:   templateID,
		Code:         strings.ToUpper(code),
		Name:         name,
		PurchaseUnit: "pcs",
		Active:       true,
		Purchasable:  true,
	}, nil
}

// IsCandidate reports whether the product can appear on a purchase plan
func (p *Product) IsCandidate() bool {
	return p.Active && p.Purchasable
}

// InCategories reports whether the product belongs to one of the given
// categories. An empty set matches everything.
func (p *Product) InCategories(categoryIDs []uuid.UUID) bool {
	if len(categoryIDs) == 0 {
		return true
	}
	if p.CategoryID == nil {
		return false
	}
	for _, id := range categoryIDs {
		if *p.CategoryID == id {
			return true
		}
	}
	return false
}

// Deactivate removes the product from the purchasable candidate pool
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
}

// validateProductCode validates the product code (SKU)
func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}
