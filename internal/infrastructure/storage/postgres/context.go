package postgres

import (
	"context"
	"fmt"

	"stockscope/internal/core/tenant"
)

// TxManagerFromContext returns the *TxManager placed in ctx by the tenant
// middleware. Repositories need it for GetQuerier; domain code should only
// depend on tx.Manager.
func TxManagerFromContext(ctx context.Context) (*TxManager, error) {
	txm, err := tenant.GetTxManager(ctx)
	if err != nil {
		return nil, err
	}
	pg, ok := txm.(*TxManager)
	if !ok || pg == nil {
		return nil, fmt.Errorf("unexpected tx manager type %T", txm)
	}
	return pg, nil
}

// MustGetTxManager is TxManagerFromContext that panics on a missing manager.
func MustGetTxManager(ctx context.Context) *TxManager {
	txm, err := TxManagerFromContext(ctx)
	if err != nil {
		panic(err.Error())
	}
	return txm
}
