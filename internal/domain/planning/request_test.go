package planning

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRequestNormalize(t *testing.T) {
	t.Run("show all purchasable clears vendor and vendor flag", func(t *testing.T) {
		vendorID := uuid.New()
		req := Request{
			VendorID:           &vendorID,
			DateBegin:          day(2026, 3, 1),
			DateEnd:            day(2026, 3, 7),
			ShowVendorProducts: true,
			ShowAllPurchasable: true,
		}

		req.Normalize()

		assert.Nil(t, req.VendorID)
		assert.False(t, req.ShowVendorProducts)
		assert.True(t, req.ShowAllPurchasable)
	})

	t.Run("vendor kept when show all purchasable is off", func(t *testing.T) {
		vendorID := uuid.New()
		req := Request{
			VendorID:           &vendorID,
			DateBegin:          day(2026, 3, 1),
			DateEnd:            day(2026, 3, 7),
			ShowVendorProducts: true,
		}

		req.Normalize()

		require.NotNil(t, req.VendorID)
		assert.Equal(t, vendorID, *req.VendorID)
		assert.True(t, req.ShowVendorProducts)
	})

	t.Run("truncates timestamps to calendar days", func(t *testing.T) {
		req := Request{
			DateBegin: time.Date(2026, 3, 1, 14, 30, 12, 0, time.UTC),
			DateEnd:   time.Date(2026, 3, 7, 9, 5, 0, 0, time.UTC),
		}

		req.Normalize()

		assert.Equal(t, day(2026, 3, 1), req.DateBegin)
		assert.Equal(t, day(2026, 3, 7), req.DateEnd)
	})
}

func TestRequestValidate(t *testing.T) {
	t.Run("accepts ordered range", func(t *testing.T) {
		req := Request{DateBegin: day(2026, 3, 1), DateEnd: day(2026, 3, 7)}
		assert.NoError(t, req.Validate())
	})

	t.Run("accepts single day range", func(t *testing.T) {
		req := Request{DateBegin: day(2026, 3, 1), DateEnd: day(2026, 3, 1)}
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects end before begin", func(t *testing.T) {
		req := Request{DateBegin: day(2026, 3, 7), DateEnd: day(2026, 3, 1)}
		err := req.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})
}

func TestRequestTotalDays(t *testing.T) {
	tests := []struct {
		name  string
		begin time.Time
		end   time.Time
		want  int
	}{
		{"single day", day(2026, 3, 1), day(2026, 3, 1), 1},
		{"one week", day(2026, 3, 1), day(2026, 3, 7), 7},
		{"across month boundary", day(2026, 2, 27), day(2026, 3, 2), 4},
		{"full year", day(2026, 1, 1), day(2026, 12, 31), 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{DateBegin: tt.begin, DateEnd: tt.end}
			assert.Equal(t, tt.want, req.TotalDays())
		})
	}
}

func TestRequestWindow(t *testing.T) {
	req := Request{DateBegin: day(2026, 3, 1), DateEnd: day(2026, 3, 7)}

	from, to := req.Window()

	assert.Equal(t, day(2026, 3, 1), from)
	assert.Equal(t, day(2026, 3, 8).Add(-time.Nanosecond), to)
	assert.True(t, to.Before(day(2026, 3, 8)))
}
