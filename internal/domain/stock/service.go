package stock

import (
	"context"
	"time"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/entity"
	"stockscope/internal/core/id"
	"stockscope/internal/core/tx"
	"stockscope/internal/domain"
	"stockscope/internal/domain/filter"
)

// Fields are the filterable parameters of active stock.
var Fields = filter.FieldSet{
	Numeric: []filter.Field{
		{Param: "weight", Column: "weight"},
		{Param: "boxCount", Column: "box_count"},
		{Param: "total", Column: "total"},
	},
	Text:          []filter.Field{{Param: "size", Column: "size"}},
	CreatedColumn: "created_at",
}

// PassiveFields are the filterable parameters of sold stock.
var PassiveFields = filter.FieldSet{
	Numeric: []filter.Field{
		{Param: "weight", Column: "p.weight"},
		{Param: "boxCount", Column: "p.box_count"},
		{Param: "packageCount", Column: "p.package_count"},
		{Param: "packageContain", Column: "p.package_contain"},
	},
	Text:          []filter.Field{{Param: "size", Column: "p.size"}},
	CreatedColumn: "p.date",
}

// Config wires a Service.
type Config struct {
	Repo      Repository
	TxManager tx.Manager
	Between   filter.BetweenPolicy
	Location  *time.Location
	Now       func() time.Time
}

// Service implements stock intake, edits, withdrawals and queries.
// Sales to customers live in the transfer package.
type Service struct {
	repo    Repository
	txs     domain.TxSource
	filters filter.Builder
	passive filter.Builder
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
		filters: filter.Builder{Fields: Fields, Between: cfg.Between, Location: cfg.Location},
		passive: filter.Builder{Fields: PassiveFields, Between: cfg.Between, Location: cfg.Location},
		now:     now,
	}
}

// Filters parses active stock filter parameters.
func (s *Service) Filters() filter.Builder { return s.filters }

// PassiveFilters parses sold stock filter parameters.
func (s *Service) PassiveFilters() filter.Builder { return s.passive }

// AddStock books an intake. An existing lot with the same size and weight
// is increased and its notes replaced; otherwise a lot is created.
func (s *Service) AddStock(ctx context.Context, in Intake) (*Lot, bool, error) {
	if err := in.Validate(); err != nil {
		return nil, false, err
	}

	var (
		lot    *Lot
		merged bool
	)
	err := s.txs.InTx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindForUpdate(ctx, in.Size, in.Weight)
		switch {
		case err == nil:
			existing.Add(in.BoxCount, in.Total(), s.now())
			existing.Notes = in.Notes
			lot, merged = existing, true
			return s.repo.Update(ctx, existing)
		case apperror.IsNotFound(err):
			lot = &Lot{
				BaseEntity: entity.NewBaseEntity(s.now()),
				Size:       in.Size,
				Weight:     in.Weight,
				BoxCount:   in.BoxCount,
				Total:      in.Total(),
				Notes:      in.Notes,
			}
			lot.CreatedBy = domain.CurrentUserID(ctx)
			return s.repo.Create(ctx, lot)
		default:
			return err
		}
	})
	if err != nil {
		return nil, false, err
	}
	return lot, merged, nil
}

// Update replaces size, weight, box count, total and notes.
func (s *Service) Update(ctx context.Context, lotID id.ID, r Replacement) (*Lot, error) {
	var lot *Lot
	err := s.txs.InTx(ctx, func(ctx context.Context) error {
		var err error
		if lot, err = s.repo.GetForUpdate(ctx, lotID); err != nil {
			return err
		}
		lot.Size, lot.Weight, lot.BoxCount, lot.Total, lot.Notes = r.Size, r.Weight, r.BoxCount, r.Total, r.Notes
		if err := lot.Validate(ctx); err != nil {
			return err
		}
		lot.Touch(s.now())
		return s.repo.Update(ctx, lot)
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// WithdrawResult reports a manual withdrawal.
type WithdrawResult struct {
	Lot          *Lot
	Deleted      bool
	TotalDeleted float64
}

// Withdraw removes boxCount boxes and totalCount units from a lot without a
// customer. The lot is deleted once both reach zero.
func (s *Service) Withdraw(ctx context.Context, lotID id.ID, boxCount, totalCount float64) (WithdrawResult, error) {
	if boxCount < 0 || totalCount < 0 {
		return WithdrawResult{}, apperror.NewValidation("boxCount and totalCount must not be negative")
	}

	res := WithdrawResult{TotalDeleted: totalCount}
	err := s.txs.InTx(ctx, func(ctx context.Context) error {
		lot, err := s.repo.GetForUpdate(ctx, lotID)
		if err != nil {
			return err
		}
		if lot.BoxCount < boxCount {
			return apperror.NewInsufficientStock("stock", boxCount, lot.BoxCount)
		}

		lot.Remove(boxCount, totalCount, s.now())
		res.Lot = lot
		if lot.BoxCount == 0 && lot.Total == 0 {
			res.Deleted = true
			return s.repo.Delete(ctx, lot.ID)
		}
		return s.repo.Update(ctx, lot)
	})
	if err != nil {
		return WithdrawResult{}, err
	}
	return res, nil
}

// Get returns one lot.
func (s *Service) Get(ctx context.Context, lotID id.ID) (*Lot, error) {
	return s.repo.GetByID(ctx, lotID)
}

// ListAll returns every active lot.
func (s *Service) ListAll(ctx context.Context) ([]*Lot, error) {
	items, _, err := s.repo.List(ctx, ListQuery{})
	return items, err
}

// ListActive pages through active lots.
func (s *Service) ListActive(ctx context.Context, c filter.Criteria, page filter.Page) (filter.PageResult[*Lot], error) {
	items, total, err := s.repo.List(ctx, ListQuery{Criteria: c, Page: &page})
	if err != nil {
		return filter.PageResult[*Lot]{}, err
	}
	return filter.NewPageResult(items, total, page), nil
}

// FilterAll returns every active lot matching c. Used by the export.
func (s *Service) FilterAll(ctx context.Context, c filter.Criteria) ([]*Lot, error) {
	items, _, err := s.repo.List(ctx, ListQuery{Criteria: c})
	return items, err
}

// ListPassive pages through sold stock.
func (s *Service) ListPassive(ctx context.Context, c filter.Criteria, page filter.Page) (filter.PageResult[PassiveEntry], error) {
	items, total, err := s.repo.ListPassive(ctx, ListQuery{Criteria: c, Page: &page})
	if err != nil {
		return filter.PageResult[PassiveEntry]{}, err
	}
	return filter.NewPageResult(items, total, page), nil
}

// SearchNotes pages through active lots whose notes contain q.
func (s *Service) SearchNotes(ctx context.Context, q string, page filter.Page) (filter.PageResult[*Lot], error) {
	items, total, err := s.repo.List(ctx, ListQuery{Notes: q, Page: &page})
	if err != nil {
		return filter.PageResult[*Lot]{}, err
	}
	return filter.NewPageResult(items, total, page), nil
}

// SearchPassiveNotes pages through sold stock whose notes contain q.
func (s *Service) SearchPassiveNotes(ctx context.Context, q string, page filter.Page) (filter.PageResult[PassiveEntry], error) {
	items, total, err := s.repo.ListPassive(ctx, ListQuery{Notes: q, Page: &page})
	if err != nil {
		return filter.PageResult[PassiveEntry]{}, err
	}
	return filter.NewPageResult(items, total, page), nil
}

// Sizes returns the distinct sizes in stock.
func (s *Service) Sizes(ctx context.Context) ([]string, error) {
	return s.repo.Sizes(ctx)
}

// WeightsBySize returns the distinct weights stocked for size.
func (s *Service) WeightsBySize(ctx context.Context, size string) ([]float64, error) {
	if size == "" {
		return nil, apperror.NewValidation("size is required")
	}
	return s.repo.WeightsBySize(ctx, size)
}
