package planning

import (
	"time"

	"github.com/erp/planner/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Run is the persisted header of one planning invocation. Lines reference
// their run, so concurrent invocations never touch each other's rows.
type Run struct {
	shared.BaseEntity
	VendorID           *uuid.UUID `gorm:"type:uuid;index" json:"vendor_id"`
	DateBegin          time.Time  `gorm:"not null" json:"date_begin"`
	DateEnd            time.Time  `gorm:"not null" json:"date_end"`
	ShowVendorProducts bool       `gorm:"not null;default:false" json:"show_vendor_products"`
	ShowAllPurchasable bool       `gorm:"not null;default:false" json:"show_all_purchasable"`
	TotalDays          int        `gorm:"not null" json:"total_days"`
	LineCount          int        `gorm:"not null" json:"line_count"`
}

func (Run) TableName() string {
	return "planning_runs"
}

// NewRun builds the header from a normalized, validated request
func NewRun(req Request, lineCount int) *Run {
	return &Run{
		BaseEntity:         shared.NewBaseEntity(),
		VendorID:           req.VendorID,
		DateBegin:          req.DateBegin,
		DateEnd:            req.DateEnd,
		ShowVendorProducts: req.ShowVendorProducts,
		ShowAllPurchasable: req.ShowAllPurchasable,
		TotalDays:          req.TotalDays(),
		LineCount:          lineCount,
	}
}

// RecommendationLine is one product row of a run. Product code and name are
// denormalized so reading a run never joins the catalog.
type RecommendationLine struct {
	shared.BaseEntity
	RunID             uuid.UUID        `gorm:"type:uuid;not null;index" json:"run_id"`
	ProductID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductCode       string           `gorm:"size:50;not null" json:"product_code"`
	ProductName       string           `gorm:"size:255;not null" json:"product_name"`
	PurchaseUnit      string           `gorm:"size:50" json:"purchase_unit"`
	VendorID          *uuid.UUID       `gorm:"type:uuid" json:"vendor_id"`
	UnitPrice         *decimal.Decimal `gorm:"type:decimal(15,4)" json:"unit_price"`
	Currency          string           `gorm:"size:3" json:"currency"`
	TimesReceived     int64            `gorm:"not null;default:0" json:"times_received"`
	UnitsReceived     decimal.Decimal  `gorm:"type:decimal(15,3);not null;default:0" json:"units_received"`
	TimesDelivered    int64            `gorm:"not null;default:0" json:"times_delivered"`
	UnitsDelivered    decimal.Decimal  `gorm:"type:decimal(15,3);not null;default:0" json:"units_delivered"`
	UnitsAvgDelivered decimal.Decimal  `gorm:"type:decimal(15,3);not null;default:0" json:"units_avg_delivered"`
	UnitsAvailable    decimal.Decimal  `gorm:"type:decimal(15,3);not null;default:0" json:"units_available"`
	UnitsForecasted   decimal.Decimal  `gorm:"type:decimal(15,3);not null;default:0" json:"units_forecasted"`
}

func (RecommendationLine) TableName() string {
	return "planning_lines"
}
