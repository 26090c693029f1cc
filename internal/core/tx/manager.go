// Package tx decouples domain services from the database driver.
package tx

import (
	"context"
)

// Manager runs a unit of work in a database transaction.
// The PostgreSQL implementation lives in infrastructure/storage/postgres.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back; otherwise it is committed.
	// Nested calls reuse the transaction already carried by ctx.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transactions.
type ReadOnlyManager interface {
	Manager

	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Direct is a Manager that runs fn without a transaction.
// Used by unit tests and by code paths that hold no database.
type Direct struct{}

// RunInTransaction calls fn with ctx unchanged.
func (Direct) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
