package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockscope/internal/core/tenant"
)

// TenantPools is the part of tenant.Manager used by health checks.
type TenantPools interface {
	ForEachActive(ctx context.Context, fn func(ctx context.Context, t *tenant.Tenant, pool *pgxpool.Pool) error) error
	Stats() tenant.ManagerStats
}

// HealthHandler provides health check endpoints for multi-tenant architecture.
type HealthHandler struct {
	pools   TenantPools
	version string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(pools TenantPools, version string) *HealthHandler {
	return &HealthHandler{pools: pools, version: version}
}

// Live reports that the process is up.
// GET /health
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

// Ready pings the database of every active tenant.
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := map[string]string{}
	err := h.pools.ForEachActive(c.Request.Context(), func(ctx context.Context, t *tenant.Tenant, pool *pgxpool.Pool) error {
		if err := pool.Ping(ctx); err != nil {
			checks[t.Slug] = "unhealthy: " + err.Error()
			return err
		}
		checks[t.Slug] = "healthy"
		return nil
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "checks": checks, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}

// Tenants returns statistics for all open tenant pools.
// GET /health/tenants
func (h *HealthHandler) Tenants(c *gin.Context) {
	stats := h.pools.Stats()

	tenantDetails := make([]gin.H, 0, len(stats.Tenants))
	for _, t := range stats.Tenants {
		tenantDetails = append(tenantDetails, gin.H{
			"tenant_id":      t.TenantID,
			"db_name":        t.DBName,
			"total_conns":    t.TotalConns,
			"idle_conns":     t.IdleConns,
			"acquired_conns": t.AcquiredConns,
			"active_refs":    t.ActiveRefs,
			"last_used":      t.LastUsed,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"total_pools": stats.TotalPools,
		"total_conns": stats.TotalConns,
		"tenants":     tenantDetails,
	})
}
