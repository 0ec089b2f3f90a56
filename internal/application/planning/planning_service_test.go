package planning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/planner/internal/domain/catalog"
	"github.com/erp/planner/internal/domain/partner"
	"github.com/erp/planner/internal/domain/planning"
	"github.com/erp/planner/internal/domain/purchasing"
	"github.com/erp/planner/internal/domain/shared"
	"github.com/erp/planner/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindVariantsByTemplateIDs(ctx context.Context, templateIDs []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, templateIDs)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindPurchasable(ctx context.Context, categoryIDs []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryIDs)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

// MockVendorRepository is a mock implementation of partner.VendorRepository
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Vendor), args.Error(1)
}

// MockWarehouseRepository is a mock implementation of partner.WarehouseRepository
type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]partner.Warehouse, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Warehouse), args.Error(1)
}

// MockSupplierInfoRepository is a mock implementation of purchasing.SupplierInfoRepository
type MockSupplierInfoRepository struct {
	mock.Mock
}

func (m *MockSupplierInfoRepository) FindByVendor(ctx context.Context, commercialID uuid.UUID) ([]purchasing.SupplierInfo, error) {
	args := m.Called(ctx, commercialID)
	return args.Get(0).([]purchasing.SupplierInfo), args.Error(1)
}

func (m *MockSupplierInfoRepository) FindForProducts(ctx context.Context, productIDs, templateIDs []uuid.UUID) ([]purchasing.SupplierInfo, error) {
	args := m.Called(ctx, productIDs, templateIDs)
	return args.Get(0).([]purchasing.SupplierInfo), args.Error(1)
}

// MockMoveRepository is a mock implementation of stock.MoveRepository
type MockMoveRepository struct {
	mock.Mock
}

func (m *MockMoveRepository) AggregateByProduct(ctx context.Context, query stock.MovementQuery) ([]stock.MovementStat, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.MovementStat), args.Error(1)
}

// MockLevelRepository is a mock implementation of stock.LevelRepository
type MockLevelRepository struct {
	mock.Mock
}

func (m *MockLevelRepository) Snapshot(ctx context.Context, productIDs []uuid.UUID, warehouseIDs []uuid.UUID) (map[uuid.UUID]stock.Snapshot, error) {
	args := m.Called(ctx, productIDs, warehouseIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]stock.Snapshot), args.Error(1)
}

// MockRunRepository is a mock implementation of planning.RunRepository
type MockRunRepository struct {
	mock.Mock

	savedRun   *planning.Run
	savedLines []*planning.RecommendationLine
}

func (m *MockRunRepository) SaveRun(ctx context.Context, run *planning.Run, lines []*planning.RecommendationLine) error {
	args := m.Called(ctx, run, lines)
	m.savedRun = run
	m.savedLines = lines
	return args.Error(0)
}

func (m *MockRunRepository) FindRun(ctx context.Context, id uuid.UUID) (*planning.Run, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planning.Run), args.Error(1)
}

func (m *MockRunRepository) ListLines(ctx context.Context, runID uuid.UUID, filter shared.Filter) ([]*planning.RecommendationLine, error) {
	args := m.Called(ctx, runID, filter)
	return args.Get(0).([]*planning.RecommendationLine), args.Error(1)
}

func (m *MockRunRepository) CountLines(ctx context.Context, runID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, runID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRunRepository) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRunRepository) DeleteRun(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type serviceFixture struct {
	productRepo   *MockProductRepository
	vendorRepo    *MockVendorRepository
	warehouseRepo *MockWarehouseRepository
	supplierRepo  *MockSupplierInfoRepository
	moveRepo      *MockMoveRepository
	levelRepo     *MockLevelRepository
	runRepo       *MockRunRepository
	service       *Service
}

func newFixture(retention time.Duration) *serviceFixture {
	f := &serviceFixture{
		productRepo:   new(MockProductRepository),
		vendorRepo:    new(MockVendorRepository),
		warehouseRepo: new(MockWarehouseRepository),
		supplierRepo:  new(MockSupplierInfoRepository),
		moveRepo:      new(MockMoveRepository),
		levelRepo:     new(MockLevelRepository),
		runRepo:       new(MockRunRepository),
	}
	f.service = NewService(
		f.productRepo, f.vendorRepo, f.warehouseRepo, f.supplierRepo,
		f.moveRepo, f.levelRepo, f.runRepo,
		retention, zap.NewNop(),
	)
	return f
}

func mkProduct(code, name string) catalog.Product {
	return catalog.Product{
		BaseEntity:   shared.NewBaseEntity(),
		TemplateID:   uuid.New(),
		Code:         code,
		Name:         name,
		PurchaseUnit: "pcs",
		Active:       true,
		Purchasable:  true,
	}
}

func variantInfo(vendorID, productID uuid.UUID, price int64) purchasing.SupplierInfo {
	pid := productID
	return purchasing.SupplierInfo{
		BaseEntity: shared.NewBaseEntity(),
		VendorID:   vendorID,
		ProductID:  &pid,
		Sequence:   10,
		Price:      decimal.NewFromInt(price),
		Currency:   "EUR",
	}
}

func TestGeneratePlanVendorPath(t *testing.T) {
	ctx := context.Background()
	vendorID := uuid.New()
	vendor := &partner.Vendor{
		BaseEntity: shared.BaseEntity{ID: vendorID},
		Code:       "VEND-1",
		Name:       "Acme Supplies",
		Status:     partner.VendorStatusActive,
	}

	productA := mkProduct("SKU-A", "Product A")
	productB := mkProduct("SKU-B", "Product B")

	setup := func(f *serviceFixture, received, delivered []stock.MovementStat) {
		f.vendorRepo.On("FindByID", ctx, vendorID).Return(vendor, nil)
		infos := []purchasing.SupplierInfo{
			variantInfo(vendorID, productA.ID, 4),
			variantInfo(vendorID, productB.ID, 6),
		}
		f.supplierRepo.On("FindByVendor", ctx, vendorID).Return(infos, nil)
		f.productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{productA, productB}, nil)
		f.moveRepo.On("AggregateByProduct", ctx, mock.MatchedBy(func(q stock.MovementQuery) bool {
			return q.SourceKind == stock.LocationKindSupplier
		})).Return(received, nil)
		f.moveRepo.On("AggregateByProduct", ctx, mock.MatchedBy(func(q stock.MovementQuery) bool {
			return q.SourceKind == stock.LocationKindInternal
		})).Return(delivered, nil)
		f.levelRepo.On("Snapshot", ctx, mock.Anything, mock.Anything).Return(map[uuid.UUID]stock.Snapshot{
			productA.ID: {OnHand: decimal.NewFromInt(12), Forecasted: decimal.NewFromInt(8)},
		}, nil)
		f.runRepo.On("SaveRun", ctx, mock.Anything, mock.Anything).Return(nil)
	}

	t.Run("three day window with movements on both products", func(t *testing.T) {
		f := newFixture(0)
		received := []stock.MovementStat{
			{ProductID: productB.ID, MoveCount: 1, Total: decimal.NewFromInt(10)},
		}
		delivered := []stock.MovementStat{
			{ProductID: productA.ID, MoveCount: 2, Total: decimal.NewFromInt(30)},
		}
		setup(f, received, delivered)

		run, err := f.service.GeneratePlan(ctx, planning.Request{
			VendorID:  &vendorID,
			DateBegin: day(2026, 3, 1),
			DateEnd:   day(2026, 3, 3),
		})
		require.NoError(t, err)
		require.NotNil(t, run)

		assert.Equal(t, 3, run.TotalDays)
		assert.Equal(t, 2, run.LineCount)

		lines := f.runRepo.savedLines
		require.Len(t, lines, 2)

		lineA := lines[0]
		assert.Equal(t, "SKU-A", lineA.ProductCode)
		assert.Equal(t, run.ID, lineA.RunID)
		assert.Equal(t, int64(2), lineA.TimesDelivered)
		assert.True(t, lineA.UnitsDelivered.Equal(decimal.NewFromInt(30)))
		assert.True(t, lineA.UnitsAvgDelivered.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, int64(0), lineA.TimesReceived)
		assert.True(t, lineA.UnitsAvailable.Equal(decimal.NewFromInt(12)))
		assert.True(t, lineA.UnitsForecasted.Equal(decimal.NewFromInt(8)))
		require.NotNil(t, lineA.UnitPrice)
		assert.True(t, lineA.UnitPrice.Equal(decimal.NewFromInt(4)))
		assert.Equal(t, "EUR", lineA.Currency)

		lineB := lines[1]
		assert.Equal(t, "SKU-B", lineB.ProductCode)
		assert.Equal(t, int64(1), lineB.TimesReceived)
		assert.True(t, lineB.UnitsReceived.Equal(decimal.NewFromInt(10)))
		assert.True(t, lineB.UnitsDelivered.IsZero())
		assert.True(t, lineB.UnitsAvailable.IsZero())
	})

	t.Run("products without movements are skipped by default", func(t *testing.T) {
		f := newFixture(0)
		delivered := []stock.MovementStat{
			{ProductID: productA.ID, MoveCount: 1, Total: decimal.NewFromInt(5)},
		}
		setup(f, nil, delivered)

		run, err := f.service.GeneratePlan(ctx, planning.Request{
			VendorID:  &vendorID,
			DateBegin: day(2026, 3, 1),
			DateEnd:   day(2026, 3, 3),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, run.LineCount)
	})

	t.Run("show vendor products zero-fills quiet products", func(t *testing.T) {
		f := newFixture(0)
		setup(f, nil, nil)

		run, err := f.service.GeneratePlan(ctx, planning.Request{
			VendorID:           &vendorID,
			DateBegin:          day(2026, 3, 1),
			DateEnd:            day(2026, 3, 3),
			ShowVendorProducts: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, run.LineCount)

		for _, line := range f.runRepo.savedLines {
			assert.Equal(t, int64(0), line.TimesReceived)
			assert.True(t, line.UnitsDelivered.IsZero())
		}
	})
}

func TestGeneratePlanShowAllPurchasable(t *testing.T) {
	ctx := context.Background()
	vendorID := uuid.New()
	productA := mkProduct("SKU-A", "Product A")

	f := newFixture(0)
	f.productRepo.On("FindPurchasable", ctx, mock.Anything).Return([]catalog.Product{productA}, nil)
	f.supplierRepo.On("FindForProducts", ctx, mock.Anything, mock.Anything).Return([]purchasing.SupplierInfo{}, nil)
	f.moveRepo.On("AggregateByProduct", ctx, mock.Anything).Return([]stock.MovementStat{}, nil)
	f.levelRepo.On("Snapshot", ctx, mock.Anything, mock.Anything).Return(map[uuid.UUID]stock.Snapshot{}, nil)
	f.runRepo.On("SaveRun", ctx, mock.Anything, mock.Anything).Return(nil)

	run, err := f.service.GeneratePlan(ctx, planning.Request{
		VendorID:           &vendorID,
		DateBegin:          day(2026, 3, 1),
		DateEnd:            day(2026, 3, 3),
		ShowVendorProducts: true,
		ShowAllPurchasable: true,
	})
	require.NoError(t, err)

	// vendor cleared by normalization, every candidate zero-filled
	f.vendorRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	assert.Nil(t, run.VendorID)
	assert.False(t, run.ShowVendorProducts)
	assert.Equal(t, 1, run.LineCount)

	line := f.runRepo.savedLines[0]
	assert.Nil(t, line.VendorID)
	assert.Nil(t, line.UnitPrice)
	assert.Empty(t, line.Currency)
}

func TestGeneratePlanEdgeCases(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects inverted date range", func(t *testing.T) {
		f := newFixture(0)
		_, err := f.service.GeneratePlan(ctx, planning.Request{
			DateBegin: day(2026, 3, 9),
			DateEnd:   day(2026, 3, 1),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, planning.ErrInvalidDateRange)
		f.runRepo.AssertNotCalled(t, "SaveRun", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no vendor and no show-all yields empty run", func(t *testing.T) {
		f := newFixture(0)
		f.runRepo.On("SaveRun", ctx, mock.Anything, mock.Anything).Return(nil)

		run, err := f.service.GeneratePlan(ctx, planning.Request{
			DateBegin: day(2026, 3, 1),
			DateEnd:   day(2026, 3, 3),
		})
		require.NoError(t, err)
		assert.Equal(t, 0, run.LineCount)
		assert.Empty(t, f.runRepo.savedLines)
		f.moveRepo.AssertNotCalled(t, "AggregateByProduct", mock.Anything, mock.Anything)
	})

	t.Run("unknown vendor propagates not found", func(t *testing.T) {
		f := newFixture(0)
		vendorID := uuid.New()
		f.vendorRepo.On("FindByID", ctx, vendorID).Return(nil, shared.ErrNotFound)

		_, err := f.service.GeneratePlan(ctx, planning.Request{
			VendorID:  &vendorID,
			DateBegin: day(2026, 3, 1),
			DateEnd:   day(2026, 3, 3),
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown warehouse in filter is rejected", func(t *testing.T) {
		f := newFixture(0)
		knownID := uuid.New()
		unknownID := uuid.New()
		f.warehouseRepo.On("FindByIDs", ctx, []uuid.UUID{knownID, unknownID}).
			Return([]partner.Warehouse{{BaseEntity: shared.BaseEntity{ID: knownID}}}, nil)

		_, err := f.service.GeneratePlan(ctx, planning.Request{
			DateBegin:    day(2026, 3, 1),
			DateEnd:      day(2026, 3, 3),
			WarehouseIDs: []uuid.UUID{knownID, unknownID},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
		f.runRepo.AssertNotCalled(t, "SaveRun", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("known warehouse filter proceeds", func(t *testing.T) {
		f := newFixture(0)
		warehouseID := uuid.New()
		f.warehouseRepo.On("FindByIDs", ctx, []uuid.UUID{warehouseID}).
			Return([]partner.Warehouse{{BaseEntity: shared.BaseEntity{ID: warehouseID}}}, nil)
		f.runRepo.On("SaveRun", ctx, mock.Anything, mock.Anything).Return(nil)

		run, err := f.service.GeneratePlan(ctx, planning.Request{
			DateBegin:    day(2026, 3, 1),
			DateEnd:      day(2026, 3, 3),
			WarehouseIDs: []uuid.UUID{warehouseID},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, run.LineCount)
	})

	t.Run("ledger failure aborts before any write", func(t *testing.T) {
		f := newFixture(0)
		vendorID := uuid.New()
		product := mkProduct("SKU-X", "Product X")
		vendor := &partner.Vendor{BaseEntity: shared.BaseEntity{ID: vendorID}, Status: partner.VendorStatusActive}

		f.vendorRepo.On("FindByID", ctx, vendorID).Return(vendor, nil)
		f.supplierRepo.On("FindByVendor", ctx, vendorID).Return([]purchasing.SupplierInfo{
			variantInfo(vendorID, product.ID, 2),
		}, nil)
		f.productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{product}, nil)
		f.moveRepo.On("AggregateByProduct", ctx, mock.Anything).Return(nil, errors.New("ledger unavailable"))

		_, err := f.service.GeneratePlan(ctx, planning.Request{
			VendorID:  &vendorID,
			DateBegin: day(2026, 3, 1),
			DateEnd:   day(2026, 3, 3),
		})
		require.Error(t, err)
		f.runRepo.AssertNotCalled(t, "SaveRun", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("retention purge runs after save", func(t *testing.T) {
		f := newFixture(24 * time.Hour)
		f.runRepo.On("SaveRun", ctx, mock.Anything, mock.Anything).Return(nil)
		f.runRepo.On("DeleteRunsBefore", ctx, mock.Anything).Return(int64(2), nil)

		_, err := f.service.GeneratePlan(ctx, planning.Request{
			DateBegin: day(2026, 3, 1),
			DateEnd:   day(2026, 3, 3),
		})
		require.NoError(t, err)
		f.runRepo.AssertCalled(t, "DeleteRunsBefore", ctx, mock.Anything)
	})

	t.Run("purge failure does not fail the run", func(t *testing.T) {
		f := newFixture(24 * time.Hour)
		f.runRepo.On("SaveRun", ctx, mock.Anything, mock.Anything).Return(nil)
		f.runRepo.On("DeleteRunsBefore", ctx, mock.Anything).Return(int64(0), errors.New("purge failed"))

		run, err := f.service.GeneratePlan(ctx, planning.Request{
			DateBegin: day(2026, 3, 1),
			DateEnd:   day(2026, 3, 3),
		})
		require.NoError(t, err)
		assert.NotNil(t, run)
	})
}

func TestListLines(t *testing.T) {
	ctx := context.Background()
	runID := uuid.New()

	t.Run("returns page and total", func(t *testing.T) {
		f := newFixture(0)
		run := &planning.Run{BaseEntity: shared.BaseEntity{ID: runID}}
		lines := []*planning.RecommendationLine{{ProductCode: "SKU-A"}}
		filter := shared.DefaultFilter()

		f.runRepo.On("FindRun", ctx, runID).Return(run, nil)
		f.runRepo.On("ListLines", ctx, runID, filter).Return(lines, nil)
		f.runRepo.On("CountLines", ctx, runID, filter).Return(int64(1), nil)

		got, total, err := f.service.ListLines(ctx, runID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, got, 1)
	})

	t.Run("unknown run propagates not found", func(t *testing.T) {
		f := newFixture(0)
		f.runRepo.On("FindRun", ctx, runID).Return(nil, shared.ErrNotFound)

		_, _, err := f.service.ListLines(ctx, runID, shared.DefaultFilter())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
