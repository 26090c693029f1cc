package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stockscope/internal/core/apperror"
)

func TestDerivedValues(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"square meters", SquareMeters(1.2, 5000), 6000},
		{"square meters fractional", SquareMeters(0.1, 3), 0.3},
		{"total bobbin weight", TotalBobbinWeight(250.5, 4), 1002},
		{"total bobbin weight zero count", TotalBobbinWeight(250.5, 0), 0},
		{"stock total", StockTotal(2, 10, 50), 1000},
		{"stock total fractional", StockTotal(0.1, 3, 1), 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestAddSub(t *testing.T) {
	assert.Equal(t, 0.3, Add(0.1, 0.2))
	assert.Equal(t, 0.1, Sub(0.3, 0.2))
	assert.Equal(t, -5.0, Sub(5, 10))
}

func TestCheckSufficiency(t *testing.T) {
	tests := []struct {
		name      string
		available float64
		requested float64
		wantErr   bool
	}{
		{"more than enough", 100, 40, false},
		{"exactly enough", 100, 100, false},
		{"not enough", 99, 100, true},
		{"nothing available", 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSufficiency(tt.available, tt.requested)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperror.Is(err, apperror.CodeInsufficientStock))
			appErr, _ := apperror.AsAppError(err)
			assert.Equal(t, tt.requested, appErr.Details["requested"])
			assert.Equal(t, tt.available, appErr.Details["available"])
		})
	}
}

func TestStockToSalesRatio(t *testing.T) {
	assert.Equal(t, 0.0, StockToSalesRatio(100, 0))
	assert.Equal(t, 2.0, StockToSalesRatio(200, 100))
	assert.Equal(t, 0.33, StockToSalesRatio(1, 3))
	assert.Equal(t, 0.67, StockToSalesRatio(2, 3))
}
