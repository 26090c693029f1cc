package inventory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/id"
	"stockscope/internal/domain/stock"
)

// StockRepo implements stock.Repository.
type StockRepo struct {
	t table[stock.Lot]
}

// NewStockRepo creates a StockRepo.
func NewStockRepo() *StockRepo {
	return &StockRepo{t: newTable[stock.Lot]("stock_lots", "stock")}
}

var _ stock.Repository = (*StockRepo)(nil)

func (r *StockRepo) Create(ctx context.Context, lot *stock.Lot) error {
	return r.t.insert(ctx, lot)
}

func (r *StockRepo) Update(ctx context.Context, lot *stock.Lot) error {
	return r.t.update(ctx, lot.ID, lot)
}

func (r *StockRepo) Delete(ctx context.Context, lotID id.ID) error {
	return r.t.delete(ctx, lotID)
}

func (r *StockRepo) GetByID(ctx context.Context, lotID id.ID) (*stock.Lot, error) {
	return r.t.getByID(ctx, lotID, false)
}

func (r *StockRepo) GetForUpdate(ctx context.Context, lotID id.ID) (*stock.Lot, error) {
	return r.t.getByID(ctx, lotID, true)
}

func (r *StockRepo) FindForUpdate(ctx context.Context, size string, weight float64) (*stock.Lot, error) {
	q := r.t.baseSelect().
		Where(squirrel.Eq{"size": size, "weight": weight}).
		Suffix("FOR UPDATE")
	lot, err := r.t.getOne(ctx, q, size)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("stock", fmt.Sprintf("%s/%v", size, weight))
		}
		return nil, err
	}
	return lot, nil
}

func (r *StockRepo) List(ctx context.Context, q stock.ListQuery) ([]*stock.Lot, int64, error) {
	sel := applyCriteria(r.t.baseSelect(), q.Criteria, "notes", q.Notes)
	return page[*stock.Lot](ctx, sel, "created_at DESC, id DESC", q.Page)
}

// passiveSelect flattens customer purchases with the buyer name. The
// column aliases match stock.PassiveEntry.
func passiveSelect() squirrel.SelectBuilder {
	return builder().Select(
		"p.id", "p.customer_id", "c.name AS customer_name",
		"p.size", "p.weight", "p.box_count", "p.package_count", "p.package_contain",
		"p.box_count * p.package_count * p.package_contain AS total",
		"p.date", "p.notes", "p.sold_note",
	).
		From("customer_purchases p").
		Join("customers c ON c.id = p.customer_id")
}

func (r *StockRepo) ListPassive(ctx context.Context, q stock.ListQuery) ([]stock.PassiveEntry, int64, error) {
	sel := applyCriteria(passiveSelect(), q.Criteria, "p.notes", q.Notes)
	return page[stock.PassiveEntry](ctx, sel, "p.date DESC, p.id DESC", q.Page)
}

func (r *StockRepo) Sizes(ctx context.Context) ([]string, error) {
	return distinct[string](ctx, r.t.name, "size", nil)
}

func (r *StockRepo) WeightsBySize(ctx context.Context, size string) ([]float64, error) {
	return distinct[float64](ctx, r.t.name, "weight", squirrel.Eq{"size": size})
}
