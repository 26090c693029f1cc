// Package quantity computes the derived quantities of raw material and
// stock lots. Products go through decimal arithmetic so that float
// artefacts such as 0.30000000000000004 never reach storage.
package quantity

import (
	"github.com/shopspring/decimal"

	"stockscope/internal/core/apperror"
)

// product multiplies the factors exactly and converts back to float64.
func product(factors ...float64) float64 {
	acc := decimal.NewFromInt(1)
	for _, f := range factors {
		acc = acc.Mul(decimal.NewFromFloat(f))
	}
	v, _ := acc.Float64()
	return v
}

// SquareMeters is bobbinHeight × meterLength.
func SquareMeters(bobbinHeight, meterLength float64) float64 {
	return product(bobbinHeight, meterLength)
}

// TotalBobbinWeight is bobbinWeight × bobbinCount.
func TotalBobbinWeight(bobbinWeight, bobbinCount float64) float64 {
	return product(bobbinWeight, bobbinCount)
}

// StockTotal is the unit count of a sale or restock:
// boxCount × packageCount × packageContain.
func StockTotal(boxCount, packageCount, packageContain float64) float64 {
	return product(boxCount, packageCount, packageContain)
}

// Sub returns a − b without float drift.
func Sub(a, b float64) float64 {
	v, _ := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Float64()
	return v
}

// Add returns a + b without float drift.
func Add(a, b float64) float64 {
	v, _ := decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Float64()
	return v
}

// CheckSufficiency fails with InsufficientStock when available < requested.
// Equality is sufficient.
func CheckSufficiency(available, requested float64) error {
	if decimal.NewFromFloat(available).LessThan(decimal.NewFromFloat(requested)) {
		return apperror.NewInsufficientStock("stock", requested, available)
	}
	return nil
}

// StockToSalesRatio is active / sold rounded to two decimals, or 0 when
// nothing was sold.
func StockToSalesRatio(active, sold float64) float64 {
	s := decimal.NewFromFloat(sold)
	if s.IsZero() {
		return 0
	}
	v, _ := decimal.NewFromFloat(active).DivRound(s, 2).Float64()
	return v
}
