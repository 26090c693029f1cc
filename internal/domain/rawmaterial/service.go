package rawmaterial

import (
	"context"
	"fmt"
	"time"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/entity"
	"stockscope/internal/core/id"
	"stockscope/internal/core/tx"
	"stockscope/internal/domain"
	"stockscope/internal/domain/filter"
)

// Fields are the filterable parameters of raw material lots.
var Fields = filter.FieldSet{
	Numeric: []filter.Field{
		{Param: "grammage", Column: "grammage"},
		{Param: "totalBobbinWeight", Column: "total_bobbin_weight"},
		{Param: "meterLength", Column: "meter_length"},
		{Param: "bobbinCount", Column: "bobbin_count"},
		{Param: "bobbinHeight", Column: "bobbin_height"},
		{Param: "bobbinDiameter", Column: "bobbin_diameter"},
		{Param: "squareMeters", Column: "square_meters"},
		{Param: "bobbinWeight", Column: "bobbin_weight"},
	},
	Text: []filter.Field{
		{Param: "name", Column: "name"},
		{Param: "supplierCode", Column: "supplier_code"},
		{Param: "type", Column: "type"},
	},
	CreatedColumn:  "created_at",
	PassiveColumn:  "sold_at",
	StatusColumn:   "status",
	CustomerColumn: "customer_ref",
}

// distinctColumns maps response keys to columns for DistinctByName.
var distinctColumns = []struct{ key, column string }{
	{"type", "type"},
	{"supplierCode", "supplier_code"},
	{"grammage", "grammage"},
	{"totalBobbinWeight", "total_bobbin_weight"},
	{"meterLength", "meter_length"},
	{"bobbinCount", "bobbin_count"},
	{"bobbinHeight", "bobbin_height"},
	{"bobbinDiameter", "bobbin_diameter"},
	{"squareMeters", "square_meters"},
}

// Config wires a Service.
type Config struct {
	Repo      Repository
	Suppliers SupplierChecker
	// TxManager may be nil; the tenant manager from context is used then.
	TxManager tx.Manager
	Between   filter.BetweenPolicy
	Location  *time.Location
	Now       func() time.Time
}

// Service implements raw material CRUD and queries. State transitions
// involving customers live in the transfer package.
type Service struct {
	repo      Repository
	suppliers SupplierChecker
	txs       domain.TxSource
	filters   filter.Builder
	now       func() time.Time
}

// NewService creates a Service.
func NewService(cfg Config) *Service {
	now := cfg.Now
	if now == nil {
		now = entity.Now
	}
	return &Service{
		repo:      cfg.Repo,
		suppliers: cfg.Suppliers,
		txs:       domain.TxSource{TxManager: cfg.TxManager},
		filters:   filter.Builder{Fields: Fields, Between: cfg.Between, Location: cfg.Location},
		now:       now,
	}
}

// Filters returns the parameter parser for filter and export requests.
func (s *Service) Filters() filter.Builder {
	return s.filters
}

func (s *Service) checkSupplier(ctx context.Context, code string) error {
	if s.suppliers == nil {
		return nil
	}
	ok, err := s.suppliers.CodeExists(ctx, code)
	if err != nil {
		return fmt.Errorf("check supplier code: %w", err)
	}
	if !ok {
		return apperror.NewValidation("unknown supplier code").WithDetail("supplierCode", code)
	}
	return nil
}

// Create stores a new active lot.
func (s *Service) Create(ctx context.Context, props Properties) (*Lot, error) {
	lot := NewLot(props, s.now())
	if err := lot.Validate(ctx); err != nil {
		return nil, err
	}
	domain.StampCreated(ctx, &lot.Authored)

	err := s.txs.InTx(ctx, func(ctx context.Context) error {
		if err := s.checkSupplier(ctx, lot.SupplierCode); err != nil {
			return err
		}
		return s.repo.Create(ctx, lot)
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// Update replaces the descriptive properties of a lot. Status and sale
// fields are left alone.
func (s *Service) Update(ctx context.Context, lotID id.ID, props Properties) (*Lot, error) {
	props.Recompute()
	if err := props.Validate(ctx); err != nil {
		return nil, err
	}

	var lot *Lot
	err := s.txs.InTx(ctx, func(ctx context.Context) error {
		var err error
		lot, err = s.repo.GetForUpdate(ctx, lotID)
		if err != nil {
			return err
		}
		if err := s.checkSupplier(ctx, props.SupplierCode); err != nil {
			return err
		}
		lot.Properties = props
		lot.Touch(s.now())
		domain.StampUpdated(ctx, &lot.Authored)
		return s.repo.Update(ctx, lot)
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// Get returns one lot.
func (s *Service) Get(ctx context.Context, lotID id.ID) (*Lot, error) {
	return s.repo.GetByID(ctx, lotID)
}

// Delete removes a lot and returns what was removed.
func (s *Service) Delete(ctx context.Context, lotID id.ID) (*Lot, error) {
	var lot *Lot
	err := s.txs.InTx(ctx, func(ctx context.Context) error {
		var err error
		if lot, err = s.repo.GetForUpdate(ctx, lotID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, lotID)
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// List returns lots of a view. A nil page returns all of them.
func (s *Service) List(ctx context.Context, view View, page *filter.Page) ([]*Lot, int64, error) {
	return s.repo.List(ctx, ListQuery{View: view, Page: page})
}

// Filter returns one page of lots matching c.
func (s *Service) Filter(ctx context.Context, view View, c filter.Criteria, page filter.Page) (filter.PageResult[*Lot], error) {
	items, total, err := s.repo.List(ctx, ListQuery{View: view, Criteria: c, Page: &page})
	if err != nil {
		return filter.PageResult[*Lot]{}, err
	}
	return filter.NewPageResult(items, total, page), nil
}

// FilterAll returns every lot matching c. Used by the export.
func (s *Service) FilterAll(ctx context.Context, c filter.Criteria) ([]*Lot, error) {
	items, _, err := s.repo.List(ctx, ListQuery{View: ViewAll, Criteria: c})
	return items, err
}

// SearchNotes pages through lots whose notes contain q.
func (s *Service) SearchNotes(ctx context.Context, view View, q string, page filter.Page) (filter.PageResult[*Lot], error) {
	items, total, err := s.repo.List(ctx, ListQuery{View: view, Notes: q, Page: &page})
	if err != nil {
		return filter.PageResult[*Lot]{}, err
	}
	return filter.NewPageResult(items, total, page), nil
}

// BySupplierCode lists the lots bought from one supplier.
func (s *Service) BySupplierCode(ctx context.Context, code string) ([]*Lot, error) {
	return s.repo.ListBySupplierCode(ctx, code)
}

// Names returns the distinct lot names.
func (s *Service) Names(ctx context.Context) ([]string, error) {
	return s.distinctStrings(ctx, "name")
}

// Types returns the distinct lot types.
func (s *Service) Types(ctx context.Context) ([]string, error) {
	return s.distinctStrings(ctx, "type")
}

func (s *Service) distinctStrings(ctx context.Context, column string) ([]string, error) {
	values, err := s.repo.Distinct(ctx, column, nil)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if str, ok := v.(string); ok {
			out = append(out, str)
		}
	}
	return out, nil
}

// DistinctByName returns, for lots named name, the distinct values of each
// descriptive property keyed by its JSON name.
func (s *Service) DistinctByName(ctx context.Context, name string) (map[string][]any, error) {
	out := make(map[string][]any, len(distinctColumns))
	for _, dc := range distinctColumns {
		values, err := s.repo.Distinct(ctx, dc.column, &name)
		if err != nil {
			return nil, err
		}
		if values == nil {
			values = []any{}
		}
		out[dc.key] = values
	}
	return out, nil
}

// Exists reports whether an active lot with the same properties exists.
// TotalBobbinWeight is compared as supplied, the other derived values and
// notes are not compared.
func (s *Service) Exists(ctx context.Context, props Properties) (bool, error) {
	return s.repo.ExistsActive(ctx, props)
}
