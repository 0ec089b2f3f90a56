package persistence

import (
	"context"

	"github.com/erp/planner/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormMoveRepository implements stock.MoveRepository using GORM
type GormMoveRepository struct {
	db *gorm.DB
}

// NewGormMoveRepository creates a new GormMoveRepository
func NewGormMoveRepository(db *gorm.DB) *GormMoveRepository {
	return &GormMoveRepository{db: db}
}

// AggregateByProduct groups completed moves matching the query by product
func (r *GormMoveRepository) AggregateByProduct(ctx context.Context, query stock.MovementQuery) ([]stock.MovementStat, error) {
	if len(query.ProductIDs) == 0 {
		return nil, nil
	}

	q := r.db.WithContext(ctx).
		Model(&stock.StockMove{}).
		Select("product_id, COUNT(*) AS move_count, COALESCE(SUM(quantity), 0) AS total").
		Where("product_id IN ?", query.ProductIDs).
		Where("state = ?", stock.MoveStateDone).
		Where("source_kind = ? AND dest_kind = ?", query.SourceKind, query.DestKind).
		Where("moved_at >= ? AND moved_at <= ?", query.From, query.To)
	if len(query.WarehouseIDs) > 0 {
		q = q.Where("warehouse_id IN ?", query.WarehouseIDs)
	}

	var stats []stock.MovementStat
	err := q.Group("product_id").
		Order("move_count DESC, total DESC").
		Scan(&stats).Error
	return stats, err
}

// GormLevelRepository implements stock.LevelRepository using GORM
type GormLevelRepository struct {
	db *gorm.DB
}

// NewGormLevelRepository creates a new GormLevelRepository
func NewGormLevelRepository(db *gorm.DB) *GormLevelRepository {
	return &GormLevelRepository{db: db}
}

type levelRow struct {
	ProductID  uuid.UUID
	OnHand     decimal.Decimal
	Forecasted decimal.Decimal
}

// Snapshot returns per-product quantities summed over the given warehouses,
// or over all warehouses when the set is empty
func (r *GormLevelRepository) Snapshot(ctx context.Context, productIDs []uuid.UUID, warehouseIDs []uuid.UUID) (map[uuid.UUID]stock.Snapshot, error) {
	if len(productIDs) == 0 {
		return map[uuid.UUID]stock.Snapshot{}, nil
	}

	q := r.db.WithContext(ctx).
		Model(&stock.StockLevel{}).
		Select("product_id, COALESCE(SUM(on_hand), 0) AS on_hand, COALESCE(SUM(forecasted), 0) AS forecasted").
		Where("product_id IN ?", productIDs)
	if len(warehouseIDs) > 0 {
		q = q.Where("warehouse_id IN ?", warehouseIDs)
	}

	var rows []levelRow
	if err := q.Group("product_id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	snapshots := make(map[uuid.UUID]stock.Snapshot, len(rows))
	for _, row := range rows {
		snapshots[row.ProductID] = stock.Snapshot{
			OnHand:     row.OnHand,
			Forecasted: row.Forecasted,
		}
	}
	return snapshots, nil
}
