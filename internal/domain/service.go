// Package domain holds helpers shared by the entity services.
package domain

import (
	"context"

	appctx "stockscope/internal/core/context"
	"stockscope/internal/core/entity"
	"stockscope/internal/core/id"
	"stockscope/internal/core/tenant"
	"stockscope/internal/core/tx"
)

// TxSource resolves the transaction manager of a service. A nil manager
// means database-per-tenant mode: the manager comes from the request context.
type TxSource struct {
	TxManager tx.Manager
}

// Manager returns the configured manager or the tenant one from ctx.
func (s TxSource) Manager(ctx context.Context) (tx.Manager, error) {
	if s.TxManager != nil {
		return s.TxManager, nil
	}
	return tenant.GetTxManager(ctx)
}

// InTx runs fn inside a transaction of the resolved manager.
func (s TxSource) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	txm, err := s.Manager(ctx)
	if err != nil {
		return err
	}
	return txm.RunInTransaction(ctx, fn)
}

// StampCreated fills CreatedBy and UpdatedBy from the authenticated user.
func StampCreated(ctx context.Context, a *entity.Authored) {
	if uid := CurrentUserID(ctx); uid != nil {
		a.CreatedBy = uid
		a.UpdatedBy = uid
	}
}

// StampUpdated fills UpdatedBy from the authenticated user.
func StampUpdated(ctx context.Context, a *entity.Authored) {
	if uid := CurrentUserID(ctx); uid != nil {
		a.UpdatedBy = uid
	}
}

// CurrentUserID returns the authenticated user id, or nil.
func CurrentUserID(ctx context.Context) *id.ID {
	uid, err := id.ParseOptional(appctx.GetUserID(ctx))
	if err != nil {
		return nil
	}
	return uid
}
