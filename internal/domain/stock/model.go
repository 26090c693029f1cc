// Package stock manages finished-goods lots keyed by size and weight.
package stock

import (
	"context"
	"strings"
	"time"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/entity"
	"stockscope/internal/core/id"
	"stockscope/internal/domain/quantity"
)

// Lot is the active stock of one (size, weight) pair. Total is a stored
// accumulator of units; it is adjusted by intake and sales and never
// recomputed from package factors.
type Lot struct {
	entity.BaseEntity
	CreatedBy *id.ID `db:"created_by" json:"createdBy,omitempty"`

	Size     string  `db:"size" json:"size"`
	Weight   float64 `db:"weight" json:"weight"`
	BoxCount float64 `db:"box_count" json:"boxCount"`
	Total    float64 `db:"total" json:"total"`
	Notes    string  `db:"notes" json:"notes"`
}

// Validate implements entity.Validatable.
func (l *Lot) Validate(_ context.Context) error {
	if strings.TrimSpace(l.Size) == "" {
		return apperror.NewValidation("size is required").WithDetail("field", "size")
	}
	if l.Weight < 0 || l.BoxCount < 0 || l.Total < 0 {
		return apperror.NewValidation("weight, boxCount and total must not be negative")
	}
	return nil
}

// Add increases the lot by boxes and units.
func (l *Lot) Add(boxCount, total float64, at time.Time) {
	l.BoxCount = quantity.Add(l.BoxCount, boxCount)
	l.Total = quantity.Add(l.Total, total)
	l.Touch(at)
}

// Remove decreases the lot by boxes and units. Callers check sufficiency.
func (l *Lot) Remove(boxCount, total float64, at time.Time) {
	l.BoxCount = quantity.Sub(l.BoxCount, boxCount)
	l.Total = quantity.Sub(l.Total, total)
	l.Touch(at)
}

// Depleted reports whether a sale emptied the lot.
func (l *Lot) Depleted() bool {
	return l.Total <= 0 || l.BoxCount <= 0
}

// Intake is a delivery of boxed goods.
type Intake struct {
	Size           string
	Weight         float64
	BoxCount       float64
	PackageCount   float64
	PackageContain float64
	Notes          string
}

// Total is the number of units delivered.
func (in Intake) Total() float64 {
	return quantity.StockTotal(in.BoxCount, in.PackageCount, in.PackageContain)
}

// Validate checks the intake.
func (in Intake) Validate() error {
	if strings.TrimSpace(in.Size) == "" {
		return apperror.NewValidation("size is required").WithDetail("field", "size")
	}
	if in.Weight < 0 || in.BoxCount <= 0 || in.PackageCount <= 0 || in.PackageContain <= 0 {
		return apperror.NewValidation("weight must not be negative and box, package counts must be positive")
	}
	return nil
}

// Replacement overwrites a lot on update.
type Replacement struct {
	Size     string
	Weight   float64
	BoxCount float64
	Total    float64
	Notes    string
}

// PassiveEntry is one sold purchase shown in the passive stock list.
type PassiveEntry struct {
	PurchaseID     id.ID     `db:"id" json:"id"`
	CustomerID     id.ID     `db:"customer_id" json:"customerId"`
	CustomerName   string    `db:"customer_name" json:"customerName"`
	Size           string    `db:"size" json:"size"`
	Weight         float64   `db:"weight" json:"weight"`
	BoxCount       float64   `db:"box_count" json:"boxCount"`
	PackageCount   float64   `db:"package_count" json:"packageCount"`
	PackageContain float64   `db:"package_contain" json:"packageContain"`
	Total          float64   `db:"total" json:"total"`
	Date           time.Time `db:"date" json:"date"`
	Notes          string    `db:"notes" json:"notes"`
	SoldNote       string    `db:"sold_note" json:"soldNote"`
}
