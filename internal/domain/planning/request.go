// Package planning holds the purchase-planning domain: the request
// parameters, the merged per-product movement aggregates, and the persisted
// recommendation rows grouped into runs.
package planning

import (
	"time"

	"github.com/erp/planner/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrInvalidDateRange is returned when the end date precedes the begin date
var ErrInvalidDateRange = shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before begin date")

// Request carries the parameters of one planning invocation. Dates are
// calendar days; the range is inclusive on both ends.
type Request struct {
	VendorID           *uuid.UUID
	DateBegin          time.Time
	DateEnd            time.Time
	ShowVendorProducts bool // include vendor products with zero movements
	ShowAllPurchasable bool // include every purchasable product, vendor ignored
	CategoryIDs        []uuid.UUID
	WarehouseIDs       []uuid.UUID
}

// Normalize enforces the mutual exclusion between the two show-all modes:
// showing every purchasable product makes the vendor restriction
// meaningless, so the vendor reference and the vendor-products flag are
// cleared.
func (r *Request) Normalize() {
	r.DateBegin = truncateToDay(r.DateBegin)
	r.DateEnd = truncateToDay(r.DateEnd)
	if r.ShowAllPurchasable {
		r.ShowVendorProducts = false
		r.VendorID = nil
	}
}

// Validate rejects inverted date ranges before any computation happens
func (r *Request) Validate() error {
	if r.DateEnd.Before(r.DateBegin) {
		return ErrInvalidDateRange
	}
	return nil
}

// TotalDays returns the inclusive number of calendar days in the range.
// A single-day range counts as one day, so the result is always >= 1 for a
// validated request.
func (r *Request) TotalDays() int {
	return int(truncateToDay(r.DateEnd).Sub(truncateToDay(r.DateBegin)).Hours()/24) + 1
}

// Window returns the inclusive timestamp bounds of the range: start of the
// begin day through the last nanosecond of the end day.
func (r *Request) Window() (time.Time, time.Time) {
	from := truncateToDay(r.DateBegin)
	to := truncateToDay(r.DateEnd).Add(24*time.Hour - time.Nanosecond)
	return from, to
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
