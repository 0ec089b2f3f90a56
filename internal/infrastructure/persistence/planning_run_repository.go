package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/planner/internal/domain/planning"
	"github.com/erp/planner/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRunRepository implements planning.RunRepository using GORM
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a new GormRunRepository
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// SaveRun inserts the header and all lines in one transaction
func (r *GormRunRepository) SaveRun(ctx context.Context, run *planning.Run, lines []*planning.RecommendationLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.CreateInBatches(lines, 200).Error
	})
}

// FindRun finds a run header by its ID
func (r *GormRunRepository) FindRun(ctx context.Context, id uuid.UUID) (*planning.Run, error) {
	var run planning.Run
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// ListLines returns the lines of a run ordered by product code then id
func (r *GormRunRepository) ListLines(ctx context.Context, runID uuid.UUID, filter shared.Filter) ([]*planning.RecommendationLine, error) {
	query := r.lineQuery(ctx, runID, filter).
		Order("product_code ASC, product_id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var lines []*planning.RecommendationLine
	err := query.Find(&lines).Error
	return lines, err
}

// CountLines counts the lines of a run matching the filter
func (r *GormRunRepository) CountLines(ctx context.Context, runID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.lineQuery(ctx, runID, filter).Count(&count).Error
	return count, err
}

// DeleteRunsBefore removes runs created before the cutoff together with
// their lines
func (r *GormRunRepository) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var purged int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&planning.Run{}).
			Where("created_at < ?", cutoff).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("run_id IN ?", ids).Delete(&planning.RecommendationLine{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&planning.Run{})
		purged = result.RowsAffected
		return result.Error
	})
	return purged, err
}

// DeleteRun removes a run and its lines
func (r *GormRunRepository) DeleteRun(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", id).Delete(&planning.RecommendationLine{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&planning.Run{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormRunRepository) lineQuery(ctx context.Context, runID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&planning.RecommendationLine{}).
		Where("run_id = ?", runID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("product_code ILIKE ? OR product_name ILIKE ?", pattern, pattern)
	}
	return query
}
