// Package inventory_repo provides PostgreSQL implementations of the domain
// repositories. In Database-per-Tenant architecture the TxManager is taken
// from the request context, so repositories hold no connection state.
package inventory_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/id"
	"stockscope/internal/domain/filter"
	"stockscope/internal/infrastructure/storage/postgres"
)

// immutableCols are never written by update.
var immutableCols = []string{"id", "created_at", "created_by"}

// builder returns a squirrel builder with PostgreSQL placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// querier returns the transaction of ctx, or the tenant pool outside one.
// Panics when ctx carries no TxManager: that means the TenantDB middleware
// did not run.
func querier(ctx context.Context) postgres.Querier {
	return postgres.MustGetTxManager(ctx).GetQuerier(ctx)
}

// table holds the CRUD plumbing shared by the repositories of one table.
type table[T any] struct {
	name   string
	entity string
	cols   []string
}

func newTable[T any](name, entity string) table[T] {
	return table[T]{name: name, entity: entity, cols: postgres.ExtractDBColumns[T]()}
}

func (t table[T]) baseSelect() squirrel.SelectBuilder {
	return builder().Select(t.cols...).From(t.name)
}

func (t table[T]) insert(ctx context.Context, v *T) error {
	data := postgres.Pick(postgres.StructToMap(v), t.cols)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in %s", t.entity)
	}
	sql, args, err := builder().Insert(t.name).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, t.entity, "insert")
	}
	return nil
}

func (t table[T]) update(ctx context.Context, entityID id.ID, v *T) error {
	data := postgres.Pick(postgres.StructToMap(v), t.cols, immutableCols...)
	sql, args, err := builder().Update(t.name).
		SetMap(data).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	res, err := querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, t.entity, "update")
	}
	if res.RowsAffected() == 0 {
		return apperror.NewNotFound(t.entity, entityID.String())
	}
	return nil
}

func (t table[T]) delete(ctx context.Context, entityID id.ID) error {
	sql, args, err := builder().Delete(t.name).Where(squirrel.Eq{"id": entityID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	res, err := querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, t.entity, "delete")
	}
	if res.RowsAffected() == 0 {
		return apperror.NewNotFound(t.entity, entityID.String())
	}
	return nil
}

// getOne returns the single row matched by q, or NotFound keyed by key.
func (t table[T]) getOne(ctx context.Context, q squirrel.SelectBuilder, key any) (*T, error) {
	sql, args, err := q.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	v := new(T)
	if err := pgxscan.Get(ctx, querier(ctx), v, sql, args...); err != nil {
		if postgres.IsNoRows(err) {
			return nil, apperror.NewNotFound(t.entity, fmt.Sprint(key))
		}
		return nil, postgres.MapError(err, t.entity, "get")
	}
	return v, nil
}

func (t table[T]) getByID(ctx context.Context, entityID id.ID, forUpdate bool) (*T, error) {
	q := t.baseSelect().Where(squirrel.Eq{"id": entityID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	return t.getOne(ctx, q, entityID)
}

// selectAll scans every row of q.
func (t table[T]) selectAll(ctx context.Context, q squirrel.SelectBuilder) ([]*T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var items []*T
	if err := pgxscan.Select(ctx, querier(ctx), &items, sql, args...); err != nil {
		return nil, postgres.MapError(err, t.entity, "list")
	}
	return items, nil
}

// page counts the matches of q and returns the requested page ordered by
// orderBy. A nil page returns every match.
func page[T any](ctx context.Context, q squirrel.SelectBuilder, orderBy string, p *filter.Page) ([]T, int64, error) {
	countSQL, countArgs, err := builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int64
	if err := querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy(orderBy)
	if p != nil {
		q = q.Limit(uint64(p.Size)).Offset(uint64(p.Offset()))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var items []T
	if err := pgxscan.Select(ctx, querier(ctx), &items, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list: %w", err)
	}
	return items, total, nil
}

// distinct returns the sorted distinct non-null values of column.
func distinct[V any](ctx context.Context, tableName, column string, where squirrel.Sqlizer) ([]V, error) {
	q := builder().Select("DISTINCT " + column).
		From(tableName).
		Where(squirrel.NotEq{column: nil}).
		OrderBy(column)
	if where != nil {
		q = q.Where(where)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build distinct: %w", err)
	}
	var out []V
	if err := pgxscan.Select(ctx, querier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	return out, nil
}

func sortDirection(order string) string {
	if strings.EqualFold(order, "asc") {
		return "ASC"
	}
	return "DESC"
}
