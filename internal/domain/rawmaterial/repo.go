package rawmaterial

import (
	"context"

	"stockscope/internal/core/id"
	"stockscope/internal/domain/filter"
)

// View selects lots by lifecycle state.
type View string

const (
	ViewAll     View = "all"
	ViewActive  View = "active"
	ViewPassive View = "passive"
)

// ParseView accepts all, active, passive or empty (all).
func ParseView(s string) (View, bool) {
	switch v := View(s); v {
	case "", ViewAll:
		return ViewAll, true
	case ViewActive, ViewPassive:
		return v, true
	}
	return "", false
}

// ListQuery drives List. A nil Page returns every match.
type ListQuery struct {
	View     View
	Criteria filter.Criteria
	// Notes is a substring searched in notes.
	Notes string
	Page  *filter.Page
}

// Repository persists raw material lots.
type Repository interface {
	Create(ctx context.Context, lot *Lot) error
	Update(ctx context.Context, lot *Lot) error
	Delete(ctx context.Context, lotID id.ID) error
	GetByID(ctx context.Context, lotID id.ID) (*Lot, error)
	// GetForUpdate loads the lot and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, lotID id.ID) (*Lot, error)

	// List returns the page of matches and the total match count.
	List(ctx context.Context, q ListQuery) ([]*Lot, int64, error)
	ListBySupplierCode(ctx context.Context, code string) ([]*Lot, error)

	// Distinct returns the distinct values of column, optionally restricted
	// to lots with the given name.
	Distinct(ctx context.Context, column string, name *string) ([]any, error)
	// ExistsActive reports whether an active lot matches name, supplier code,
	// type, grammage, total bobbin weight, meter length, bobbin count, height
	// and diameter.
	ExistsActive(ctx context.Context, props Properties) (bool, error)
}

// SupplierChecker validates supplier codes on create and update.
type SupplierChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}
