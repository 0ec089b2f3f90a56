// Package purchasing holds the vendor-product association records ("who
// sells what") and the seller-resolution rules applied to them.
package purchasing

import (
	"sort"
	"time"

	"github.com/erp/planner/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierInfo declares that a vendor supplies a product at given terms. The
// association may target a concrete variant or a whole template; exactly one
// of ProductID / TemplateID is set.
type SupplierInfo struct {
	shared.BaseEntity
	VendorID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index"`
	TemplateID  *uuid.UUID      `gorm:"type:uuid;index"`
	Sequence    int             `gorm:"not null;default:10"`
	MinQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'EUR'"`
	DateStart   *time.Time      // validity window, nil = open
	DateEnd     *time.Time
	LeadDays    int `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SupplierInfo) TableName() string {
	return "supplier_infos"
}

// NewSupplierInfo creates a vendor-product association. Exactly one of
// productID / templateID must be non-nil.
func NewSupplierInfo(vendorID uuid.UUID, productID, templateID *uuid.UUID, price decimal.Decimal, currency string) (*SupplierInfo, error) {
	if (productID == nil) == (templateID == nil) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Supplier info must reference exactly one of product or template")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Supplier price cannot be negative")
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
	}

	return &SupplierInfo{
		BaseEntity: shared.NewBaseEntity(),
		VendorID:   vendorID,
		ProductID:  productID,
		TemplateID: templateID,
		Sequence:   10,
		Price:      price,
		Currency:   currency,
	}, nil
}

// ValidOn reports whether the association's validity window contains date
func (s *SupplierInfo) ValidOn(date time.Time) bool {
	if s.DateStart != nil && date.Before(*s.DateStart) {
		return false
	}
	if s.DateEnd != nil && date.After(*s.DateEnd) {
		return false
	}
	return true
}

// SellerQuote is the outcome of seller resolution for one product
type SellerQuote struct {
	VendorID uuid.UUID
	Price    decimal.Decimal
	Currency string
}

// SelectSeller picks the applicable association among the candidates for a
// given vendor, date and quantity: vendor match when a vendor is given, the
// validity window must contain the date, and the minimum quantity must be
// met. Ties are broken by sequence, then by lower price. Returns nil when no
// association applies; a product nobody sells is a valid outcome, not an
// error.
func SelectSeller(infos []SupplierInfo, vendorID *uuid.UUID, date time.Time, quantity decimal.Decimal) *SupplierInfo {
	matches := make([]SupplierInfo, 0, len(infos))
	for _, info := range infos {
		if vendorID != nil && info.VendorID != *vendorID {
			continue
		}
		if !info.ValidOn(date) {
			continue
		}
		if info.MinQuantity.GreaterThan(quantity) {
			continue
		}
		matches = append(matches, info)
	}
	if len(matches) == 0 {
		return nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Sequence != matches[j].Sequence {
			return matches[i].Sequence < matches[j].Sequence
		}
		return matches[i].Price.LessThan(matches[j].Price)
	})
	return &matches[0]
}

// Quote converts the association into a seller quote
func (s *SupplierInfo) Quote() *SellerQuote {
	return &SellerQuote{
		VendorID: s.VendorID,
		Price:    s.Price,
		Currency: s.Currency,
	}
}
