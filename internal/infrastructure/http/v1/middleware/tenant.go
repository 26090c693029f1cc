package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/tenant"
	"stockscope/internal/infrastructure/storage/postgres"
	"stockscope/pkg/logger"
)

const (
	// TenantHeader is the HTTP header for tenant identification.
	TenantHeader = "X-Tenant-ID"
)

// PoolProvider resolves the pool of a tenant. Implemented by *tenant.Manager.
type PoolProvider interface {
	GetPool(ctx context.Context, tenantID string) (*tenant.ManagedPool, error)
}

// TenantDB middleware resolves tenant from header and injects database pool into context.
// This middleware MUST run before any database operations.
//
// Flow:
// 1. Extract tenant ID from X-Tenant-ID header
// 2. Get pool from the tenant manager
// 3. Create TxManager for this request
// 4. Inject pool, TxManager, and Tenant into context
func TenantDB(pools PoolProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		tenantID := strings.TrimSpace(c.GetHeader(TenantHeader))
		if tenantID == "" {
			_ = c.Error(
				apperror.NewValidation("tenant is required").
					WithDetail("header", TenantHeader),
			)
			c.Abort()
			return
		}

		managedPool, err := pools.GetPool(ctx, tenantID)
		if err != nil {
			logger.Warn(ctx, "tenant pool error", "tenant_id", tenantID, "error", err)
			_ = c.Error(poolError(tenantID, err))
			c.Abort()
			return
		}

		// Track active request for graceful shutdown
		managedPool.AcquireRef()
		defer managedPool.ReleaseRef()

		txManager := postgres.NewTxManager(managedPool.Pool())

		ctx = tenant.WithPool(ctx, managedPool.Pool())
		ctx = tenant.WithTxManager(ctx, txManager)
		ctx = tenant.WithTenant(ctx, managedPool.Tenant())
		c.Request = c.Request.WithContext(ctx)

		c.Set("tenant_id", managedPool.Tenant().ID)

		c.Next()
	}
}

func poolError(tenantID string, err error) error {
	switch {
	case errors.Is(err, tenant.ErrTenantNotFound):
		return apperror.NewNotFound("tenant", tenantID)
	case errors.Is(err, tenant.ErrTenantNotActive):
		return apperror.NewForbidden("tenant is not active").WithDetail("tenant_id", tenantID)
	default:
		// The tenant database could not be reached.
		appErr := apperror.NewInternal(err)
		appErr.HTTPStatus = http.StatusServiceUnavailable
		appErr.Message = "service temporarily unavailable"
		return appErr.WithDetail("tenant_id", tenantID)
	}
}
