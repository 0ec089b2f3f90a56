package planning

import (
	"github.com/erp/planner/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStat is the merged movement summary for one product over the
// requested window. Received covers supplier-to-internal moves, Delivered
// covers internal-to-customer moves.
type ProductStat struct {
	ProductID      uuid.UUID
	ReceivedCount  int64
	ReceivedQty    decimal.Decimal
	DeliveredCount int64
	DeliveredQty   decimal.Decimal
}

// NewProductStat returns a zero-valued stat for a product, used when a
// product must appear in the result even without any recorded movement.
func NewProductStat(productID uuid.UUID) *ProductStat {
	return &ProductStat{
		ProductID:    productID,
		ReceivedQty:  decimal.Zero,
		DeliveredQty: decimal.Zero,
	}
}

// StatMap indexes merged stats by product
type StatMap map[uuid.UUID]*ProductStat

// MergeStats combines the two directional aggregations into one map keyed by
// product. A product present in only one direction keeps zeros for the other.
func MergeStats(received, delivered []stock.MovementStat) StatMap {
	stats := make(StatMap, len(received)+len(delivered))
	for _, r := range received {
		s := stats.Ensure(r.ProductID)
		s.ReceivedCount = r.MoveCount
		s.ReceivedQty = r.Total
	}
	for _, d := range delivered {
		s := stats.Ensure(d.ProductID)
		s.DeliveredCount = d.MoveCount
		s.DeliveredQty = d.Total
	}
	return stats
}

// Ensure returns the stat for productID, creating a zero-valued entry when
// the product has not been seen yet.
func (m StatMap) Ensure(productID uuid.UUID) *ProductStat {
	if s, ok := m[productID]; ok {
		return s
	}
	s := NewProductStat(productID)
	m[productID] = s
	return s
}
