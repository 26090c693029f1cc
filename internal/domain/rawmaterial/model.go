// Package rawmaterial manages paper bobbin lots.
package rawmaterial

import (
	"context"
	"strings"
	"time"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/entity"
	"stockscope/internal/core/id"
	"stockscope/internal/domain/quantity"
)

// Status is the lifecycle state of a lot.
type Status string

const (
	StatusActive  Status = "active"
	StatusPassive Status = "passive"
	StatusDummy   Status = "dummy"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPassive, StatusDummy:
		return true
	}
	return false
}

// Properties describe a bobbin batch. They are copied verbatim into the
// customer's raw purchase history on a sale.
type Properties struct {
	Name           string  `db:"name" json:"name"`
	SupplierCode   string  `db:"supplier_code" json:"supplierCode"`
	Type           string  `db:"type" json:"type"`
	Grammage       float64 `db:"grammage" json:"grammage"`
	MeterLength    float64 `db:"meter_length" json:"meterLength"`
	BobbinWeight   float64 `db:"bobbin_weight" json:"bobbinWeight"`
	BobbinCount    float64 `db:"bobbin_count" json:"bobbinCount"`
	BobbinHeight   float64 `db:"bobbin_height" json:"bobbinHeight"`
	BobbinDiameter float64 `db:"bobbin_diameter" json:"bobbinDiameter"`

	// Derived; see Recompute.
	SquareMeters      float64 `db:"square_meters" json:"squareMeters"`
	TotalBobbinWeight float64 `db:"total_bobbin_weight" json:"totalBobbinWeight"`

	Notes string `db:"notes" json:"notes"`
}

// Recompute derives SquareMeters and TotalBobbinWeight from their factors.
// Any value set by a client is overwritten.
func (p *Properties) Recompute() {
	p.SquareMeters = quantity.SquareMeters(p.BobbinHeight, p.MeterLength)
	p.TotalBobbinWeight = quantity.TotalBobbinWeight(p.BobbinWeight, p.BobbinCount)
}

// Validate checks required fields and non-negative measures.
func (p *Properties) Validate(_ context.Context) error {
	required := map[string]string{
		"name":         p.Name,
		"supplierCode": p.SupplierCode,
		"type":         p.Type,
	}
	for _, field := range []string{"name", "supplierCode", "type"} {
		if strings.TrimSpace(required[field]) == "" {
			return apperror.NewValidation(field + " is required").WithDetail("field", field)
		}
	}

	measures := []struct {
		field string
		value float64
	}{
		{"grammage", p.Grammage},
		{"meterLength", p.MeterLength},
		{"bobbinWeight", p.BobbinWeight},
		{"bobbinCount", p.BobbinCount},
		{"bobbinHeight", p.BobbinHeight},
		{"bobbinDiameter", p.BobbinDiameter},
	}
	for _, m := range measures {
		if m.value < 0 {
			return apperror.NewValidation(m.field + " must not be negative").WithDetail("field", m.field)
		}
	}
	return nil
}

// Lot is one raw material record.
type Lot struct {
	entity.BaseEntity
	entity.Authored
	Properties

	Status      Status     `db:"status" json:"status"`
	SoldAt      *time.Time `db:"sold_at" json:"soldAt,omitempty"`
	SoldNote    *string    `db:"sold_note" json:"soldNote,omitempty"`
	CustomerRef *id.ID     `db:"customer_ref" json:"customerRef,omitempty"`
}

// NewLot creates an active lot with derived fields computed.
func NewLot(props Properties, now time.Time) *Lot {
	lot := &Lot{
		BaseEntity: entity.NewBaseEntity(now),
		Properties: props,
		Status:     StatusActive,
	}
	lot.Recompute()
	return lot
}

// Validate implements entity.Validatable.
func (l *Lot) Validate(ctx context.Context) error {
	if !l.Status.Valid() {
		return apperror.NewValidation("invalid status").WithDetail("value", string(l.Status))
	}
	return l.Properties.Validate(ctx)
}

// IsPassive reports whether the lot left stock.
func (l *Lot) IsPassive() bool {
	return l.Status == StatusPassive
}

// MarkPassive moves the lot out of stock. customer may be nil for a removal.
func (l *Lot) MarkPassive(at time.Time, soldNote string, customer *id.ID) {
	l.Status = StatusPassive
	l.SoldAt = &at
	l.SoldNote = &soldNote
	l.CustomerRef = customer
	l.Touch(at)
}

// MarkActive returns the lot to stock. clearCustomer also drops the
// customer reference, as a revert does; a soft activate keeps it.
func (l *Lot) MarkActive(at time.Time, clearCustomer bool) {
	l.Status = StatusActive
	l.SoldAt = nil
	l.SoldNote = nil
	if clearCustomer {
		l.CustomerRef = nil
	}
	l.Touch(at)
}
