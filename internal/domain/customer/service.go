package customer

import (
	"context"
	"time"

	"stockscope/internal/core/entity"
	"stockscope/internal/core/id"
	"stockscope/internal/core/tx"
	"stockscope/internal/domain"
	"stockscope/internal/domain/filter"
)

// Fields are the filterable parameters of customers.
var Fields = filter.FieldSet{
	Text: []filter.Field{
		{Param: "name", Column: "name"},
		{Param: "email", Column: "email"},
		{Param: "phone", Column: "phone"},
		{Param: "address", Column: "address"},
	},
}

// Config wires a Service.
type Config struct {
	Repo      Repository
	TxManager tx.Manager
	Now       func() time.Time
}

// Service implements customer CRUD and history queries. Purchases are only
// written by the transfer package.
type Service struct {
	repo    Repository
	txs     domain.TxSource
	filters filter.Builder
	now     func() time.Time
}

// NewService creates a Service.
func NewService(cfg Config) *Service {
	now := cfg.Now
	if now == nil {
		now = entity.Now
	}
	return &Service{
		repo:    cfg.Repo,
		txs:     domain.TxSource{TxManager: cfg.TxManager},
		filters: filter.Builder{Fields: Fields},
		now:     now,
	}
}

// Filters parses customer filter parameters.
func (s *Service) Filters() filter.Builder { return s.filters }

// Create stores a new customer.
func (s *Service) Create(ctx context.Context, d Details) (*Customer, error) {
	if err := d.Validate(ctx); err != nil {
		return nil, err
	}
	c := &Customer{BaseEntity: entity.NewBaseEntity(s.now()), Details: d}
	if err := s.txs.InTx(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, c)
	}); err != nil {
		return nil, err
	}
	c.Purchases, c.RawPurchases = []Purchase{}, []RawPurchase{}
	return c, nil
}

// Update replaces the customer's details.
func (s *Service) Update(ctx context.Context, customerID id.ID, d Details) (*Customer, error) {
	if err := d.Validate(ctx); err != nil {
		return nil, err
	}
	var c *Customer
	err := s.txs.InTx(ctx, func(ctx context.Context) error {
		var err error
		if c, err = s.repo.GetForUpdate(ctx, customerID); err != nil {
			return err
		}
		c.Details = d
		c.Touch(s.now())
		return s.repo.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a customer together with its purchase history.
func (s *Service) Delete(ctx context.Context, customerID id.ID) error {
	return s.txs.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetForUpdate(ctx, customerID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, customerID)
	})
}

// Get returns a customer with its histories.
func (s *Service) Get(ctx context.Context, customerID id.ID) (*Customer, error) {
	return s.repo.GetByID(ctx, customerID)
}

// List returns all customers sorted by name, paged when page is not nil.
func (s *Service) List(ctx context.Context, page *filter.Page) ([]*Customer, int64, error) {
	return s.repo.List(ctx, ListQuery{Page: page})
}

// Filter pages through customers matching c.
func (s *Service) Filter(ctx context.Context, c filter.Criteria, sort SortOrder, page filter.Page) (filter.PageResult[*Customer], error) {
	items, total, err := s.repo.List(ctx, ListQuery{Criteria: c, Sort: sort, Page: &page})
	if err != nil {
		return filter.PageResult[*Customer]{}, err
	}
	return filter.NewPageResult(items, total, page), nil
}

// SearchNotes pages through customers whose notes contain q.
func (s *Service) SearchNotes(ctx context.Context, q string, page filter.Page) (filter.PageResult[*Customer], error) {
	items, total, err := s.repo.List(ctx, ListQuery{Notes: q, Page: &page})
	if err != nil {
		return filter.PageResult[*Customer]{}, err
	}
	return filter.NewPageResult(items, total, page), nil
}

// Purchases returns the stock purchases of one customer.
func (s *Service) Purchases(ctx context.Context, customerID id.ID) ([]Purchase, error) {
	if _, err := s.repo.GetForUpdate(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.Purchases(ctx, customerID)
}

// AllPurchaseHistory returns every customer with purchases loaded.
func (s *Service) AllPurchaseHistory(ctx context.Context) ([]*Customer, error) {
	return s.repo.ListWithHistory(ctx)
}

// ParseSortOrder accepts asc, desc or empty.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortAsc:
		return SortAsc
	case SortDesc:
		return SortDesc
	}
	return SortNone
}
