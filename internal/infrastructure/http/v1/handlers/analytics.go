package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"stockscope/internal/domain/analytics"
	"stockscope/internal/domain/rawmaterial"
)

// AnalyticsHandler serves the raw material, stock and supplier analyses.
// Every route accepts filterPeriod, startDate and endDate.
type AnalyticsHandler struct {
	*BaseHandler
	service *analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(base *BaseHandler, service *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{BaseHandler: base, service: service}
}

// serve parses the window and renders what fn returns.
func serve[T any](h *AnalyticsHandler, fn func(ctx context.Context, w analytics.Window) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		w, err := h.service.Window(c.Request.URL.Query())
		if err != nil {
			h.Error(c, err)
			return
		}
		res, err := fn(c.Request.Context(), w)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, res)
	}
}

func (h *AnalyticsHandler) rawActive(ctx context.Context, w analytics.Window) ([]analytics.RawTypeTotal, error) {
	return h.service.RawDistribution(ctx, rawmaterial.StatusActive, w)
}

func (h *AnalyticsHandler) rawPassive(ctx context.Context, w analytics.Window) ([]analytics.RawTypeTotal, error) {
	return h.service.RawDistribution(ctx, rawmaterial.StatusPassive, w)
}

// Supplier handles GET /suppliers/analysis?supplier=
func (h *AnalyticsHandler) Supplier(c *gin.Context) {
	serve(h, func(ctx context.Context, w analytics.Window) ([]analytics.MaterialTotal, error) {
		return h.service.Supplier(ctx, h.Query(c, "supplier"), w)
	})(c)
}

// RegisterRawRoutes registers /rawMaterials/analysis routes.
func (h *AnalyticsHandler) RegisterRawRoutes(rg *gin.RouterGroup) {
	rg.GET("/active", serve(h, h.rawActive))
	rg.GET("/passive", serve(h, h.rawPassive))
	rg.GET("/comparison", serve(h, h.service.RawComparison))
	rg.GET("/in-out", serve(h, h.service.RawInOut))
}

// RegisterStockRoutes registers /stocks/analysis routes.
func (h *AnalyticsHandler) RegisterStockRoutes(rg *gin.RouterGroup) {
	rg.GET("/active", serve(h, h.service.ActiveStock))
	rg.GET("/passive", serve(h, h.service.SoldStock))
	rg.GET("/comparison", serve(h, h.service.StockComparison))
	rg.GET("/in-out", serve(h, h.service.StockInOut))
	rg.GET("/weights", serve(h, h.service.StockWeights))
}

// RegisterSupplierRoutes registers /suppliers/analysis routes.
func (h *AnalyticsHandler) RegisterSupplierRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Supplier)
	rg.GET("/distribution", serve(h, h.service.SupplierDistribution))
}
