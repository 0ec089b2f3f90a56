// Package planning implements the purchase-planning use case: resolve the
// candidate products for a request, aggregate their stock movements, enrich
// them with pricing and stock levels, and persist the result as a run.
package planning

import (
	"context"
	"sort"
	"time"

	"github.com/erp/planner/internal/domain/catalog"
	"github.com/erp/planner/internal/domain/partner"
	"github.com/erp/planner/internal/domain/planning"
	"github.com/erp/planner/internal/domain/purchasing"
	"github.com/erp/planner/internal/domain/shared"
	"github.com/erp/planner/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service orchestrates planning run generation and retrieval
type Service struct {
	productRepo   catalog.ProductRepository
	vendorRepo    partner.VendorRepository
	warehouseRepo partner.WarehouseRepository
	supplierRepo  purchasing.SupplierInfoRepository
	moveRepo      stock.MoveRepository
	levelRepo     stock.LevelRepository
	runRepo       planning.RunRepository
	retention     time.Duration
	logger        *zap.Logger
}

// NewService creates a new planning service. A zero retention disables
// purging of old runs.
func NewService(
	productRepo catalog.ProductRepository,
	vendorRepo partner.VendorRepository,
	warehouseRepo partner.WarehouseRepository,
	supplierRepo purchasing.SupplierInfoRepository,
	moveRepo stock.MoveRepository,
	levelRepo stock.LevelRepository,
	runRepo planning.RunRepository,
	retention time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		productRepo:   productRepo,
		vendorRepo:    vendorRepo,
		warehouseRepo: warehouseRepo,
		supplierRepo:  supplierRepo,
		moveRepo:      moveRepo,
		levelRepo:     levelRepo,
		runRepo:       runRepo,
		retention:     retention,
		logger:        logger,
	}
}

// candidateSet is the resolved input of one run: the products to report on
// and the supplier associations that may price them.
type candidateSet struct {
	products map[uuid.UUID]*catalog.Product
	infos    []purchasing.SupplierInfo
	// commercial entity behind the requested vendor, nil in show-all mode
	sellerVendorID *uuid.UUID
}

// GeneratePlan runs the full pipeline for one request and returns the
// persisted run header. An empty candidate set produces an empty run, not an
// error.
func (s *Service) GeneratePlan(ctx context.Context, req planning.Request) (*planning.Run, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.validateWarehouses(ctx, req.WarehouseIDs); err != nil {
		return nil, err
	}

	set, err := s.resolveCandidates(ctx, req)
	if err != nil {
		return nil, err
	}

	stats := planning.StatMap{}
	if len(set.products) > 0 {
		stats, err = s.aggregateMovements(ctx, req, set)
		if err != nil {
			return nil, err
		}
	}

	lines, err := s.buildLines(ctx, req, set, stats)
	if err != nil {
		return nil, err
	}

	run := planning.NewRun(req, len(lines))
	for _, line := range lines {
		line.RunID = run.ID
	}
	if err := s.runRepo.SaveRun(ctx, run, lines); err != nil {
		return nil, err
	}

	s.purgeExpiredRuns(ctx)

	s.logger.Info("Planning run generated",
		zap.String("run_id", run.ID.String()),
		zap.Int("lines", len(lines)),
		zap.Int("total_days", run.TotalDays),
	)

	return run, nil
}

// GetRun returns one run header
func (s *Service) GetRun(ctx context.Context, id uuid.UUID) (*planning.Run, error) {
	return s.runRepo.FindRun(ctx, id)
}

// ListLines returns a page of a run's lines together with the total count.
// The run must exist.
func (s *Service) ListLines(ctx context.Context, runID uuid.UUID, filter shared.Filter) ([]*planning.RecommendationLine, int64, error) {
	if _, err := s.runRepo.FindRun(ctx, runID); err != nil {
		return nil, 0, err
	}
	lines, err := s.runRepo.ListLines(ctx, runID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.runRepo.CountLines(ctx, runID, filter)
	if err != nil {
		return nil, 0, err
	}
	return lines, total, nil
}

// DeleteRun removes a run and its lines
func (s *Service) DeleteRun(ctx context.Context, id uuid.UUID) error {
	if _, err := s.runRepo.FindRun(ctx, id); err != nil {
		return err
	}
	return s.runRepo.DeleteRun(ctx, id)
}

// validateWarehouses rejects requests that filter on warehouses which do not
// exist, so the aggregation never silently drops an unknown ID.
func (s *Service) validateWarehouses(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	warehouses, err := s.warehouseRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	found := make(map[uuid.UUID]struct{}, len(warehouses))
	for _, w := range warehouses {
		found[w.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return shared.NewDomainError("NOT_FOUND", "One or more warehouses do not exist")
		}
	}
	return nil
}

// resolveCandidates expands the request into concrete product variants. With
// a vendor, candidates come from the vendor's supplier associations; in
// show-all mode every purchasable variant qualifies. The category filter
// applies to both paths.
func (s *Service) resolveCandidates(ctx context.Context, req planning.Request) (*candidateSet, error) {
	set := &candidateSet{products: make(map[uuid.UUID]*catalog.Product)}

	if req.ShowAllPurchasable {
		products, err := s.productRepo.FindPurchasable(ctx, req.CategoryIDs)
		if err != nil {
			return nil, err
		}
		productIDs := make([]uuid.UUID, 0, len(products))
		templateIDs := make([]uuid.UUID, 0, len(products))
		for i := range products {
			p := &products[i]
			set.products[p.ID] = p
			productIDs = append(productIDs, p.ID)
			templateIDs = append(templateIDs, p.TemplateID)
		}
		if len(productIDs) > 0 {
			infos, err := s.supplierRepo.FindForProducts(ctx, productIDs, templateIDs)
			if err != nil {
				return nil, err
			}
			set.infos = infos
		}
		return set, nil
	}

	if req.VendorID == nil {
		return set, nil
	}

	vendor, err := s.vendorRepo.FindByID(ctx, *req.VendorID)
	if err != nil {
		return nil, err
	}
	commercialID := vendor.CommercialEntityID()
	set.sellerVendorID = &commercialID

	infos, err := s.supplierRepo.FindByVendor(ctx, commercialID)
	if err != nil {
		return nil, err
	}
	set.infos = infos

	variantIDs := make([]uuid.UUID, 0, len(infos))
	templateIDs := make([]uuid.UUID, 0, len(infos))
	for _, info := range infos {
		if info.ProductID != nil {
			variantIDs = append(variantIDs, *info.ProductID)
		}
		if info.TemplateID != nil {
			templateIDs = append(templateIDs, *info.TemplateID)
		}
	}

	if len(templateIDs) > 0 {
		variants, err := s.productRepo.FindVariantsByTemplateIDs(ctx, templateIDs)
		if err != nil {
			return nil, err
		}
		for i := range variants {
			p := &variants[i]
			if p.InCategories(req.CategoryIDs) {
				set.products[p.ID] = p
			}
		}
	}
	if len(variantIDs) > 0 {
		direct, err := s.productRepo.FindByIDs(ctx, variantIDs)
		if err != nil {
			return nil, err
		}
		for i := range direct {
			p := &direct[i]
			if p.IsCandidate() && p.InCategories(req.CategoryIDs) {
				set.products[p.ID] = p
			}
		}
	}

	return set, nil
}

// aggregateMovements runs the two grouped ledger queries and merges them.
// Both show-all flags force a zero stat for candidates without movements.
func (s *Service) aggregateMovements(ctx context.Context, req planning.Request, set *candidateSet) (planning.StatMap, error) {
	productIDs := make([]uuid.UUID, 0, len(set.products))
	for id := range set.products {
		productIDs = append(productIDs, id)
	}
	from, to := req.Window()

	received, err := s.moveRepo.AggregateByProduct(ctx, stock.ReceivedQuery(productIDs, from, to, req.WarehouseIDs))
	if err != nil {
		return nil, err
	}
	delivered, err := s.moveRepo.AggregateByProduct(ctx, stock.DeliveredQuery(productIDs, from, to, req.WarehouseIDs))
	if err != nil {
		return nil, err
	}

	stats := planning.MergeStats(received, delivered)
	if req.ShowVendorProducts || req.ShowAllPurchasable {
		for _, id := range productIDs {
			stats.Ensure(id)
		}
	}
	return stats, nil
}

// buildLines enriches the merged stats with stock levels and pricing, then
// sorts them by product code and id
func (s *Service) buildLines(ctx context.Context, req planning.Request, set *candidateSet, stats planning.StatMap) ([]*planning.RecommendationLine, error) {
	if len(stats) == 0 {
		return nil, nil
	}

	productIDs := make([]uuid.UUID, 0, len(stats))
	for id := range stats {
		productIDs = append(productIDs, id)
	}
	levels, err := s.levelRepo.Snapshot(ctx, productIDs, req.WarehouseIDs)
	if err != nil {
		return nil, err
	}

	variantInfos := make(map[uuid.UUID][]purchasing.SupplierInfo)
	templateInfos := make(map[uuid.UUID][]purchasing.SupplierInfo)
	for _, info := range set.infos {
		if info.ProductID != nil {
			variantInfos[*info.ProductID] = append(variantInfos[*info.ProductID], info)
		}
		if info.TemplateID != nil {
			templateInfos[*info.TemplateID] = append(templateInfos[*info.TemplateID], info)
		}
	}

	today := time.Now()
	totalDays := decimal.NewFromInt(int64(req.TotalDays()))
	one := decimal.NewFromInt(1)

	lines := make([]*planning.RecommendationLine, 0, len(stats))
	for id, stat := range stats {
		product, ok := set.products[id]
		if !ok {
			continue
		}

		line := &planning.RecommendationLine{
			BaseEntity:        shared.NewBaseEntity(),
			ProductID:         product.ID,
			ProductCode:       product.Code,
			ProductName:       product.Name,
			PurchaseUnit:      product.PurchaseUnit,
			TimesReceived:     stat.ReceivedCount,
			UnitsReceived:     stat.ReceivedQty,
			TimesDelivered:    stat.DeliveredCount,
			UnitsDelivered:    stat.DeliveredQty,
			UnitsAvgDelivered: stat.DeliveredQty.Div(totalDays),
			UnitsAvailable:    decimal.Zero,
			UnitsForecasted:   decimal.Zero,
		}

		if level, ok := levels[id]; ok {
			line.UnitsAvailable = level.OnHand
			line.UnitsForecasted = level.Forecasted
		}

		candidates := append([]purchasing.SupplierInfo{}, variantInfos[id]...)
		candidates = append(candidates, templateInfos[product.TemplateID]...)
		if seller := purchasing.SelectSeller(candidates, set.sellerVendorID, today, one); seller != nil {
			quote := seller.Quote()
			line.VendorID = &quote.VendorID
			price := quote.Price
			line.UnitPrice = &price
			line.Currency = quote.Currency
		}

		lines = append(lines, line)
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].ProductCode != lines[j].ProductCode {
			return lines[i].ProductCode < lines[j].ProductCode
		}
		return lines[i].ProductID.String() < lines[j].ProductID.String()
	})
	return lines, nil
}

// purgeExpiredRuns drops runs older than the retention window. Purge
// failures are logged, never surfaced: the new run is already committed.
func (s *Service) purgeExpiredRuns(ctx context.Context) {
	if s.retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.retention)
	purged, err := s.runRepo.DeleteRunsBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to purge expired planning runs", zap.Error(err))
		return
	}
	if purged > 0 {
		s.logger.Info("Purged expired planning runs", zap.Int64("count", purged))
	}
}
