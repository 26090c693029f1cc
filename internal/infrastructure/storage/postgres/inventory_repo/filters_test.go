package inventory_repo

import (
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockscope/internal/core/id"
	"stockscope/internal/domain/accesslog"
	"stockscope/internal/domain/analytics"
	"stockscope/internal/domain/filter"
)

func toSQL(t *testing.T, parts []squirrel.Sqlizer) (string, []any) {
	t.Helper()
	sql, args, err := squirrel.And(parts).ToSql()
	require.NoError(t, err)
	return sql, args
}

func TestWhereCriteria(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		criteria filter.Criteria
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "text uses escaped ILIKE",
			criteria: filter.Criteria{Text: []filter.TextMatch{{Column: "name", Value: "50%"}}},
			wantSQL:  "(name ILIKE ?)",
			wantArgs: []any{`%50\%%`},
		},
		{
			name: "range bounds",
			criteria: filter.Criteria{Ranges: []filter.Range{{
				Column: "grammage",
				Lower:  []filter.Bound{{Value: 10, Inclusive: true}},
				Upper:  []filter.Bound{{Value: 20}},
			}}},
			wantSQL:  "(grammage >= ? AND grammage < ?)",
			wantArgs: []any{10.0, 20.0},
		},
		{
			name:     "exact value",
			criteria: filter.Criteria{Ranges: []filter.Range{{Column: "weight", Exact: []float64{5}}}},
			wantSQL:  "(weight = ?)",
			wantArgs: []any{5.0},
		},
		{
			name: "exact date is a one-day window",
			criteria: filter.Criteria{Dates: []filter.DateWindow{{
				Column: "created_at", Mode: filter.DateExact, Day: day,
			}}},
			wantSQL:  "(created_at >= ? AND created_at < ?)",
			wantArgs: []any{day, day.AddDate(0, 0, 1)},
		},
		{
			name: "sold view",
			criteria: filter.Criteria{
				Status: filter.ViewSold, StatusColumn: "status", CustomerColumn: "customer_ref",
			},
			wantSQL:  "(status = ? AND customer_ref IS NOT NULL)",
			wantArgs: []any{"passive"},
		},
		{
			name: "removed view",
			criteria: filter.Criteria{
				Status: filter.ViewRemoved, StatusColumn: "status", CustomerColumn: "customer_ref",
			},
			wantSQL:  "(status = ? AND customer_ref IS NULL)",
			wantArgs: []any{"passive"},
		},
		{
			name: "any view adds nothing",
			criteria: filter.Criteria{
				Status: filter.ViewAny, StatusColumn: "status", CustomerColumn: "customer_ref",
			},
			wantSQL:  "(1=1)",
			wantArgs: []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := toSQL(t, whereCriteria(tt.criteria))
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestWhereCriteria_CustomerRef(t *testing.T) {
	customerID := id.New()
	c := filter.Criteria{
		Status:         filter.ViewSold,
		StatusColumn:   "status",
		CustomerColumn: "customer_ref",
		CustomerRef:    &customerID,
	}

	sql, args := toSQL(t, whereCriteria(c))

	assert.Equal(t, "(status = ? AND customer_ref IS NOT NULL AND customer_ref = ?)", sql)
	assert.Equal(t, []any{"passive", customerID.String()}, args)
}

func TestApplyCriteria_Notes(t *testing.T) {
	q := applyCriteria(builder().Select("id").From("stock_lots"), filter.Criteria{}, "notes", "rush_order")

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM stock_lots WHERE notes ILIKE $1", sql)
	assert.Equal(t, []any{`%rush\_order%`}, args)
}

func TestSearchPredicates(t *testing.T) {
	t.Run("empty query has no predicates", func(t *testing.T) {
		assert.Empty(t, searchPredicates(accesslog.Query{}))
	})

	t.Run("supplier restricts object type and body fields", func(t *testing.T) {
		sql, args, err := searchPredicates(accesslog.Query{SupplierID: "S-01"}).ToSql()
		require.NoError(t, err)

		assert.Contains(t, sql, "object_type IN (?,?)")
		assert.Contains(t, sql, "request_body->>'supplier' = ?")
		assert.Contains(t, sql, "request_body->>'supplierCode' = ?")
		assert.Equal(t, []any{"rawMaterials", "rawMaterial", "S-01", "S-01"}, args)
	})

	t.Run("customer matches body or object", func(t *testing.T) {
		sql, _, err := searchPredicates(accesslog.Query{CustomerID: "c1"}).ToSql()
		require.NoError(t, err)

		assert.Contains(t, sql, "request_body->>'customerId' = ?")
		assert.Contains(t, sql, " OR ")
	})
}

func TestInWindow(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	q := inWindow(builder().Select("size").From("stock_lots"), "created_at", analytics.Window{From: &from, To: &to})

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT size FROM stock_lots WHERE created_at >= $1 AND created_at < $2", sql)
	assert.Equal(t, []any{from, to}, args)
}
