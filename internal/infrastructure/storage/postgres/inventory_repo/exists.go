package inventory_repo

import (
	"context"
	"fmt"

	"stockscope/internal/infrastructure/storage/postgres"
)

// exists runs a SELECT 1 … LIMIT 1 query.
func exists(ctx context.Context, sql string, args []any) (bool, error) {
	var one int
	err := querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if postgres.IsNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return true, nil
}
