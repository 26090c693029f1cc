package customer

import (
	"context"
	"time"

	"stockscope/internal/core/id"
	"stockscope/internal/domain/filter"
)

// SortOrder orders filtered customers by creation date.
type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListQuery drives List. Without a SortOrder customers are listed by name.
type ListQuery struct {
	Criteria filter.Criteria
	Notes    string
	Sort     SortOrder
	Page     *filter.Page
}

// Repository persists customers and their purchase history.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, customerID id.ID) error
	// GetByID loads the customer with both purchase histories.
	GetByID(ctx context.Context, customerID id.ID) (*Customer, error)
	// GetForUpdate locks the customer row; histories are not loaded.
	GetForUpdate(ctx context.Context, customerID id.ID) (*Customer, error)
	List(ctx context.Context, q ListQuery) ([]*Customer, int64, error)
	// ListWithHistory returns every customer with purchases loaded.
	ListWithHistory(ctx context.Context) ([]*Customer, error)

	AddPurchase(ctx context.Context, p *Purchase) error
	GetPurchase(ctx context.Context, customerID, purchaseID id.ID) (*Purchase, error)
	DeletePurchase(ctx context.Context, purchaseID id.ID) error
	Purchases(ctx context.Context, customerID id.ID) ([]Purchase, error)

	AddRawPurchase(ctx context.Context, p *RawPurchase) error
	// FindRawPurchase returns the first snapshot of customerID with this
	// name, supplier code, type and date, or a NotFound AppError.
	FindRawPurchase(ctx context.Context, customerID id.ID, name, supplierCode, typ string, date time.Time) (*RawPurchase, error)
	DeleteRawPurchase(ctx context.Context, rawPurchaseID id.ID) error
}
