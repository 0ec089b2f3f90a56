package stock

import (
	"github.com/erp/planner/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLevel is the current quantity picture of a product in one warehouse,
// maintained by the external stock owner. Forecasted is the projected
// available quantity: on hand plus incoming minus outgoing reservations.
type StockLevel struct {
	shared.BaseEntity
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_product_warehouse,priority:1"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_product_warehouse,priority:2"`
	OnHand      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Forecasted  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockLevel) TableName() string {
	return "stock_levels"
}

// Snapshot is the point-in-time quantity picture of one product, summed
// over the selected warehouse scope
type Snapshot struct {
	OnHand     decimal.Decimal
	Forecasted decimal.Decimal
}
