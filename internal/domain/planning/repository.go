package planning

import (
	"context"
	"time"

	"github.com/erp/planner/internal/domain/shared"
	"github.com/google/uuid"
)

// RunRepository persists planning runs and their lines
type RunRepository interface {
	// SaveRun inserts the header and all lines in one transaction
	SaveRun(ctx context.Context, run *Run, lines []*RecommendationLine) error
	FindRun(ctx context.Context, id uuid.UUID) (*Run, error)
	// ListLines returns the lines of a run ordered by product code then
	// product id
	ListLines(ctx context.Context, runID uuid.UUID, filter shared.Filter) ([]*RecommendationLine, error)
	CountLines(ctx context.Context, runID uuid.UUID, filter shared.Filter) (int64, error)
	// DeleteRunsBefore removes runs created before the cutoff together with
	// their lines, returning how many runs were purged
	DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteRun(ctx context.Context, id uuid.UUID) error
}
