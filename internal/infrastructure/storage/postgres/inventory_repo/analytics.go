package inventory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockscope/internal/domain/analytics"
	"stockscope/internal/domain/rawmaterial"
)

// AnalyticsRepo implements analytics.Repository with GROUP BY queries.
type AnalyticsRepo struct{}

// NewAnalyticsRepo creates an AnalyticsRepo.
func NewAnalyticsRepo() *AnalyticsRepo {
	return &AnalyticsRepo{}
}

var _ analytics.Repository = (*AnalyticsRepo)(nil)

// inWindow restricts column to w.
func inWindow(q squirrel.SelectBuilder, column string, w analytics.Window) squirrel.SelectBuilder {
	if w.From != nil {
		q = q.Where(squirrel.GtOrEq{column: *w.From})
	}
	if w.To != nil {
		q = q.Where(squirrel.Lt{column: *w.To})
	}
	return q
}

func selectRows[T any](ctx context.Context, q squirrel.SelectBuilder, what string) ([]T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", what, err)
	}
	var out []T
	if err := pgxscan.Select(ctx, querier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return out, nil
}

func selectOne[T any](ctx context.Context, q squirrel.SelectBuilder, what string) (T, error) {
	var out T
	sql, args, err := q.ToSql()
	if err != nil {
		return out, fmt.Errorf("build %s: %w", what, err)
	}
	if err := pgxscan.Get(ctx, querier(ctx), &out, sql, args...); err != nil {
		return out, fmt.Errorf("%s: %w", what, err)
	}
	return out, nil
}

func (r *AnalyticsRepo) RawByType(ctx context.Context, status rawmaterial.Status, w analytics.Window) ([]analytics.RawTypeTotal, error) {
	q := builder().Select(
		"type",
		"COALESCE(SUM(grammage), 0) AS total_grammage",
		"COALESCE(SUM(total_bobbin_weight), 0) AS total_bobbin_weight",
	).
		From("raw_materials").
		Where(squirrel.Eq{"status": status}).
		GroupBy("type").
		OrderBy("type")
	return selectRows[analytics.RawTypeTotal](ctx, inWindow(q, "created_at", w), "raw by type")
}

func rawFlowSelect() squirrel.SelectBuilder {
	return builder().Select(
		"COALESCE(SUM(grammage), 0) AS grammage",
		"COALESCE(SUM(total_bobbin_weight), 0) AS bobbin_weight",
	).From("raw_materials")
}

func (r *AnalyticsRepo) RawIn(ctx context.Context, w analytics.Window) (analytics.RawFlow, error) {
	return selectOne[analytics.RawFlow](ctx, inWindow(rawFlowSelect(), "created_at", w), "raw in")
}

func (r *AnalyticsRepo) RawOut(ctx context.Context, w analytics.Window) (analytics.RawFlow, error) {
	q := rawFlowSelect().
		Where(squirrel.Eq{"status": rawmaterial.StatusPassive}).
		Where(squirrel.NotEq{"sold_at": nil})
	return selectOne[analytics.RawFlow](ctx, inWindow(q, "sold_at", w), "raw out")
}

func (r *AnalyticsRepo) ActiveStockBySize(ctx context.Context, w analytics.Window) ([]analytics.SizeTotal, error) {
	q := builder().Select(
		"size",
		"COALESCE(SUM(box_count), 0) AS box_count",
		"COALESCE(SUM(total), 0) AS total_amount",
	).
		From("stock_lots").
		GroupBy("size").
		OrderBy("size")
	return selectRows[analytics.SizeTotal](ctx, inWindow(q, "created_at", w), "active stock by size")
}

const purchaseTotal = "box_count * package_count * package_contain"

func (r *AnalyticsRepo) SoldStockBySize(ctx context.Context, w analytics.Window) ([]analytics.SizeTotal, error) {
	q := builder().Select(
		"size",
		"COALESCE(SUM(box_count), 0) AS box_count",
		"COALESCE(SUM("+purchaseTotal+"), 0) AS total_amount",
	).
		From("customer_purchases").
		GroupBy("size").
		OrderBy("size")
	return selectRows[analytics.SizeTotal](ctx, inWindow(q, "date", w), "sold stock by size")
}

func (r *AnalyticsRepo) ActiveStockByWeight(ctx context.Context, w analytics.Window) ([]analytics.WeightTotal, error) {
	q := builder().Select(
		"size",
		"weight",
		"COALESCE(SUM(total), 0) AS amount",
		"COALESCE(SUM(box_count), 0) AS box_count",
	).
		From("stock_lots").
		GroupBy("size", "weight").
		OrderBy("size", "weight")
	return selectRows[analytics.WeightTotal](ctx, inWindow(q, "created_at", w), "stock by weight")
}

func (r *AnalyticsRepo) StockIn(ctx context.Context, w analytics.Window) (analytics.StockFlow, error) {
	q := builder().Select(
		"COALESCE(SUM(total), 0) AS amount",
		"COALESCE(SUM(box_count), 0) AS box_count",
	).From("stock_lots")
	return selectOne[analytics.StockFlow](ctx, inWindow(q, "created_at", w), "stock in")
}

func (r *AnalyticsRepo) StockOut(ctx context.Context, w analytics.Window) (analytics.StockFlow, error) {
	q := builder().Select(
		"COALESCE(SUM("+purchaseTotal+"), 0) AS amount",
		"COALESCE(SUM(box_count), 0) AS box_count",
	).From("customer_purchases")
	return selectOne[analytics.StockFlow](ctx, inWindow(q, "date", w), "stock out")
}

func (r *AnalyticsRepo) SupplierMaterials(ctx context.Context, supplierCode string, w analytics.Window) ([]analytics.MaterialTotal, error) {
	q := builder().Select(
		"supplier_code",
		"name",
		"type",
		"COALESCE(SUM(grammage), 0) AS grammage",
		"COALESCE(SUM(total_bobbin_weight), 0) AS total_bobbin_weight",
	).
		From("raw_materials").
		GroupBy("supplier_code", "name", "type").
		OrderBy("supplier_code", "name", "type")
	if supplierCode != "" {
		q = q.Where(squirrel.Eq{"supplier_code": supplierCode})
	}
	return selectRows[analytics.MaterialTotal](ctx, inWindow(q, "created_at", w), "supplier materials")
}
