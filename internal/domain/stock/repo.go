package stock

import (
	"context"

	"stockscope/internal/core/id"
	"stockscope/internal/domain/filter"
)

// ListQuery drives List and ListPassive. A nil Page returns every match.
type ListQuery struct {
	Criteria filter.Criteria
	Notes    string
	Page     *filter.Page
}

// Repository persists stock lots.
type Repository interface {
	Create(ctx context.Context, lot *Lot) error
	Update(ctx context.Context, lot *Lot) error
	Delete(ctx context.Context, lotID id.ID) error
	GetByID(ctx context.Context, lotID id.ID) (*Lot, error)
	GetForUpdate(ctx context.Context, lotID id.ID) (*Lot, error)
	// FindForUpdate locks the lot with this size and weight. It returns a
	// NotFound AppError when there is none.
	FindForUpdate(ctx context.Context, size string, weight float64) (*Lot, error)

	List(ctx context.Context, q ListQuery) ([]*Lot, int64, error)
	// ListPassive flattens customer purchases into sold stock entries.
	ListPassive(ctx context.Context, q ListQuery) ([]PassiveEntry, int64, error)

	Sizes(ctx context.Context) ([]string, error)
	WeightsBySize(ctx context.Context, size string) ([]float64, error)
}
