package supplier

import (
	"context"
	"time"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/entity"
	"stockscope/internal/core/id"
	"stockscope/internal/core/tx"
	"stockscope/internal/domain"
	"stockscope/internal/domain/filter"
	"stockscope/internal/domain/rawmaterial"
)

// Fields are the filterable parameters of suppliers.
var Fields = filter.FieldSet{
	Text: []filter.Field{
		{Param: "name", Column: "name"},
		{Param: "code", Column: "code"},
		{Param: "address", Column: "address"},
		{Param: "phone", Column: "phone"},
		{Param: "contactPerson", Column: "contact_person"},
	},
}

// LotLister is the slice of the raw material service used for
// PurchasesBySupplier.
type LotLister interface {
	BySupplierCode(ctx context.Context, code string) ([]*rawmaterial.Lot, error)
}

// Config wires a Service.
type Config struct {
	Repo      Repository
	Lots      LotLister
	TxManager tx.Manager
	Now       func() time.Time
}

// Service implements supplier CRUD.
type Service struct {
	repo    Repository
	lots    LotLister
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
		lots:    cfg.Lots,
		txs:     domain.TxSource{TxManager: cfg.TxManager},
		filters: filter.Builder{Fields: Fields},
		now:     now,
	}
}

// Filters parses supplier filter parameters.
func (s *Service) Filters() filter.Builder { return s.filters }

// Create stores a new supplier.
func (s *Service) Create(ctx context.Context, d Details) (*Supplier, error) {
	d.Normalize()
	if err := d.Validate(ctx); err != nil {
		return nil, err
	}
	sup := &Supplier{BaseEntity: entity.NewBaseEntity(s.now()), Details: d}
	if err := s.txs.InTx(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, sup)
	}); err != nil {
		return nil, err
	}
	return sup, nil
}

// Update replaces the supplier's details. Raw material lots keep the code
// they were created with.
func (s *Service) Update(ctx context.Context, supplierID id.ID, d Details) (*Supplier, error) {
	d.Normalize()
	if err := d.Validate(ctx); err != nil {
		return nil, err
	}
	var sup *Supplier
	err := s.txs.InTx(ctx, func(ctx context.Context) error {
		var err error
		if sup, err = s.repo.GetForUpdate(ctx, supplierID); err != nil {
			return err
		}
		sup.Details = d
		sup.Touch(s.now())
		return s.repo.Update(ctx, sup)
	})
	if err != nil {
		return nil, err
	}
	return sup, nil
}

// Delete removes a supplier.
func (s *Service) Delete(ctx context.Context, supplierID id.ID) error {
	return s.txs.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetForUpdate(ctx, supplierID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, supplierID)
	})
}

// Get returns a supplier.
func (s *Service) Get(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	return s.repo.GetByID(ctx, supplierID)
}

// CodeExists reports whether a supplier with code exists.
func (s *Service) CodeExists(ctx context.Context, code string) (bool, error) {
	return s.repo.CodeExists(ctx, code)
}

// List returns all suppliers sorted by name.
func (s *Service) List(ctx context.Context, page *filter.Page) ([]*Supplier, int64, error) {
	return s.repo.List(ctx, ListQuery{Page: page})
}

// Filter pages through suppliers matching c.
func (s *Service) Filter(ctx context.Context, c filter.Criteria, sort SortOrder, page filter.Page) (filter.PageResult[*Supplier], error) {
	items, total, err := s.repo.List(ctx, ListQuery{Criteria: c, Sort: sort, Page: &page})
	if err != nil {
		return filter.PageResult[*Supplier]{}, err
	}
	return filter.NewPageResult(items, total, page), nil
}

// SearchNotes pages through suppliers whose notes contain q.
func (s *Service) SearchNotes(ctx context.Context, q string, page filter.Page) (filter.PageResult[*Supplier], error) {
	items, total, err := s.repo.List(ctx, ListQuery{Notes: q, Page: &page})
	if err != nil {
		return filter.PageResult[*Supplier]{}, err
	}
	return filter.NewPageResult(items, total, page), nil
}

// PurchasesBySupplier returns the raw material lots carrying code. No lots
// is reported as NotFound.
func (s *Service) PurchasesBySupplier(ctx context.Context, code string) ([]*rawmaterial.Lot, error) {
	if code == "" {
		return nil, apperror.NewValidation("supplier code is required").WithDetail("field", "code")
	}
	lots, err := s.lots.BySupplierCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(lots) == 0 {
		return nil, apperror.NewNotFound("raw materials for supplier", code)
	}
	return lots, nil
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
