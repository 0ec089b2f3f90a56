package stock

import (
	"context"

	"github.com/google/uuid"
)

// MoveRepository defines the read interface over the movement ledger
type MoveRepository interface {
	// AggregateByProduct groups completed moves matching the query by
	// product, counting moves and summing quantity done. Results are
	// ordered by (move count desc, total desc); callers that persist
	// rows re-sort by product identity.
	AggregateByProduct(ctx context.Context, query MovementQuery) ([]MovementStat, error)
}

// LevelRepository defines the read interface over current stock levels
type LevelRepository interface {
	// Snapshot returns per-product on-hand and forecasted quantities,
	// summed over the given warehouses, or over all warehouses when the
	// set is empty.
	Snapshot(ctx context.Context, productIDs []uuid.UUID, warehouseIDs []uuid.UUID) (map[uuid.UUID]Snapshot, error)
}
