package inventory_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"stockscope/internal/domain/accesslog"
	"stockscope/internal/infrastructure/storage/postgres"
)

const (
	accessLogsTable = "access_logs"
	markerTable     = "log_archive_marker"
)

// AccessLogStore implements accesslog.Store over the access_logs table of a
// tenant database.
type AccessLogStore struct {
	cols []string
}

// NewAccessLogStore creates an AccessLogStore.
func NewAccessLogStore() *AccessLogStore {
	return &AccessLogStore{cols: postgres.ExtractDBColumns[accesslog.Entry]()}
}

var _ accesslog.Store = (*AccessLogStore)(nil)

// LastArchived reads the single marker row. A missing row means nothing was
// archived yet.
func (s *AccessLogStore) LastArchived(ctx context.Context) (time.Time, error) {
	var ts time.Time
	err := querier(ctx).QueryRow(ctx,
		"SELECT last_saved_timestamp FROM "+markerTable+" WHERE id = 1").Scan(&ts)
	if postgres.IsNoRows(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read archive marker: %w", err)
	}
	return ts, nil
}

func (s *AccessLogStore) SetLastArchived(ctx context.Context, ts time.Time) error {
	sql, args, err := builder().Insert(markerTable).
		Columns("id", "last_saved_timestamp").
		Values(1, ts).
		Suffix("ON CONFLICT (id) DO UPDATE SET last_saved_timestamp = EXCLUDED.last_saved_timestamp").
		ToSql()
	if err != nil {
		return fmt.Errorf("build marker upsert: %w", err)
	}
	if _, err := querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("write archive marker: %w", err)
	}
	return nil
}

// Insert bulk loads entries with COPY.
func (s *AccessLogStore) Insert(ctx context.Context, entries []accesslog.Entry) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	rows := make([][]any, len(entries))
	for i, e := range entries {
		data := postgres.StructToMap(&e)
		row := make([]any, len(s.cols))
		for j, col := range s.cols {
			row[j] = data[col]
		}
		rows[i] = row
	}
	n, err := querier(ctx).CopyFrom(ctx, pgx.Identifier{accessLogsTable}, s.cols, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy access logs: %w", err)
	}
	return n, nil
}

// Search applies q in SQL and returns one page in write order.
func (s *AccessLogStore) Search(ctx context.Context, q accesslog.Query) ([]accesslog.Entry, int64, error) {
	sel := builder().Select(s.cols...).From(accessLogsTable)
	if where := searchPredicates(q); len(where) > 0 {
		sel = sel.Where(where)
	}
	items, total, err := page[accesslog.Entry](ctx, sel, "timestamp ASC", &q.Page)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func searchPredicates(q accesslog.Query) squirrel.And {
	where := squirrel.And{}
	if q.Tenant != "" {
		where = append(where, squirrel.Eq{"tenant_id": q.Tenant})
	}
	if q.ObjectID != "" {
		where = append(where, squirrel.Eq{"object_id": q.ObjectID})
	}
	if q.Username != "" {
		where = append(where, squirrel.Eq{"username": q.Username})
	}
	if q.ObjectType != "" {
		where = append(where, squirrel.Eq{"object_type": q.ObjectType})
	}
	if q.SupplierID != "" {
		where = append(where,
			squirrel.Eq{"object_type": []string{"rawMaterials", "rawMaterial"}},
			squirrel.Or{
				squirrel.Expr("request_body->>'supplier' = ?", q.SupplierID),
				squirrel.Expr("request_body->>'supplierCode' = ?", q.SupplierID),
			})
	}
	if q.CustomerID != "" {
		where = append(where, squirrel.Or{
			squirrel.Expr("request_body->>'customerId' = ?", q.CustomerID),
			squirrel.Eq{"object_type": "customers", "object_id": q.CustomerID},
		})
	}
	return where
}
