package supplier

import (
	"context"

	"stockscope/internal/core/id"
	"stockscope/internal/domain/filter"
)

// SortOrder orders filtered suppliers by creation date.
type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListQuery drives List. Without a SortOrder suppliers are listed by name.
type ListQuery struct {
	Criteria filter.Criteria
	Notes    string
	Sort     SortOrder
	Page     *filter.Page
}

// Repository persists suppliers. Create and Update return a Conflict
// AppError when the code is already taken.
type Repository interface {
	Create(ctx context.Context, s *Supplier) error
	Update(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, supplierID id.ID) error
	GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error)
	GetForUpdate(ctx context.Context, supplierID id.ID) (*Supplier, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, q ListQuery) ([]*Supplier, int64, error)
}
