package postgres

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"stockscope/internal/core/apperror"
)

func TestMapError(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name       string
		err        error
		wantNil    bool
		wantStatus int
		wantCode   string
	}{
		{name: "nil", err: nil, wantNil: true},
		{
			name:       "unique violation",
			err:        &pgconn.PgError{Code: "23505", ConstraintName: "suppliers_code_key"},
			wantStatus: http.StatusConflict,
			wantCode:   apperror.CodeConflict,
		},
		{
			name:       "foreign key violation",
			err:        fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23503"}),
			wantStatus: http.StatusConflict,
			wantCode:   apperror.CodeConflict,
		},
		{
			name:       "app error passes through",
			err:        apperror.NewNotFound("stock", "x"),
			wantStatus: http.StatusNotFound,
			wantCode:   apperror.CodeNotFound,
		},
		{
			name:       "other error is internal",
			err:        plain,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err, "supplier", "insert")
			if tt.wantNil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.wantStatus, apperror.GetHTTPStatus(got))
			if tt.wantCode != "" {
				assert.True(t, apperror.Is(got, tt.wantCode))
			}
		})
	}

	assert.ErrorIs(t, MapError(plain, "supplier", "insert"), plain)
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(pgx.ErrNoRows))
	assert.True(t, IsNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	assert.False(t, IsNoRows(errors.New("boom")))
}
