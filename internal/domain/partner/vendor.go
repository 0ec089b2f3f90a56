package partner

import (
	"strings"
	"time"

	"github.com/erp/planner/internal/domain/shared"
	"github.com/google/uuid"
)

// VendorStatus represents the status of a vendor
type VendorStatus string

const (
	VendorStatusActive   VendorStatus = "active"
	VendorStatusInactive VendorStatus = "inactive"
)

// Vendor represents a supplying partner. A vendor may be a contact of a
// larger commercial entity; supplier pricing is always attached to the
// commercial entity, so lookups resolve through CommercialEntityID.
type Vendor struct {
	shared.BaseEntity
	Code         string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string       `gorm:"type:varchar(200);not null"`
	CommercialID *uuid.UUID   `gorm:"type:uuid;index"` // nil when the vendor is its own commercial entity
	Status       VendorStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName  string       `gorm:"type:varchar(100)"`
	Email        string       `gorm:"type:varchar(200);index"`
	Phone        string       `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}

// NewVendor creates a new vendor with required fields
func NewVendor(code, name string) (*Vendor, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Vendor code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Vendor name cannot be empty")
	}

	return &Vendor{
		BaseEntity: shared.NewBaseEntity(),
		Code:       strings.ToUpper(code),
		Name:       name,
		Status:     VendorStatusActive,
	}, nil
}

// CommercialEntityID resolves the top-level commercial entity for pricing
// lookups: the parent when one exists, the vendor itself otherwise.
func (v *Vendor) CommercialEntityID() uuid.UUID {
	if v.CommercialID != nil {
		return *v.CommercialID
	}
	return v.ID
}

// IsActive returns true if the vendor is active
func (v *Vendor) IsActive() bool {
	return v.Status == VendorStatusActive
}

// Deactivate deactivates the vendor
func (v *Vendor) Deactivate() error {
	if v.Status == VendorStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Vendor is already inactive")
	}
	v.Status = VendorStatusInactive
	v.UpdatedAt = time.Now()
	return nil
}
