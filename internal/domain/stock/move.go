// Package stock exposes a read-only view over the external stock ledger:
// completed movements between location kinds and current per-warehouse
// stock levels.
package stock

import (
	"time"

	"github.com/erp/planner/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LocationKind classifies the endpoint of a movement
type LocationKind string

const (
	LocationKindInternal LocationKind = "internal"
	LocationKindSupplier LocationKind = "supplier"
	LocationKindCustomer LocationKind = "customer"
	LocationKindTransit  LocationKind = "transit"
)

// MoveState represents the lifecycle state of a stock move
type MoveState string

const (
	MoveStateDraft     MoveState = "draft"
	MoveStateDone      MoveState = "done"
	MoveStateCancelled MoveState = "cancelled"
)

// StockMove is one completed (or pending) transfer line of a product
// between two location kinds. WarehouseID is the warehouse of the
// originating transfer and may be nil for moves outside any warehouse.
type StockMove struct {
	shared.BaseEntity
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // quantity done
	State       MoveState       `gorm:"type:varchar(20);not null;default:'draft';index"`
	SourceKind  LocationKind    `gorm:"type:varchar(20);not null;index"`
	DestKind    LocationKind    `gorm:"type:varchar(20);not null;index"`
	WarehouseID *uuid.UUID      `gorm:"type:uuid;index"`
	MovedAt     time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMove) TableName() string {
	return "stock_moves"
}

// IsDone reports whether the move has been completed
func (m *StockMove) IsDone() bool {
	return m.State == MoveStateDone
}

// MovementQuery restricts a grouped aggregation over the move ledger.
// Timestamps are inclusive on both ends.
type MovementQuery struct {
	ProductIDs   []uuid.UUID
	From         time.Time
	To           time.Time
	SourceKind   LocationKind
	DestKind     LocationKind
	WarehouseIDs []uuid.UUID
}

// MovementStat is one grouped aggregation row: how many completed moves a
// product had and the summed quantity done.
type MovementStat struct {
	ProductID uuid.UUID
	MoveCount int64
	Total     decimal.Decimal
}

// ReceivedQuery builds the query for inbound supplier deliveries
func ReceivedQuery(productIDs []uuid.UUID, from, to time.Time, warehouseIDs []uuid.UUID) MovementQuery {
	return MovementQuery{
		ProductIDs:   productIDs,
		From:         from,
		To:           to,
		SourceKind:   LocationKindSupplier,
		DestKind:     LocationKindInternal,
		WarehouseIDs: warehouseIDs,
	}
}

// DeliveredQuery builds the query for outbound customer shipments
func DeliveredQuery(productIDs []uuid.UUID, from, to time.Time, warehouseIDs []uuid.UUID) MovementQuery {
	return MovementQuery{
		ProductIDs:   productIDs,
		From:         from,
		To:           to,
		SourceKind:   LocationKindInternal,
		DestKind:     LocationKindCustomer,
		WarehouseIDs: warehouseIDs,
	}
}
