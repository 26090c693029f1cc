package handlers

import (
	"github.com/gin-gonic/gin"

	"stockscope/internal/core/tenant"
	"stockscope/internal/domain/accesslog"
	"stockscope/internal/infrastructure/http/v1/dto"
)

// AccessLogHandler answers queries over recorded API calls.
type AccessLogHandler struct {
	*BaseHandler
	service *accesslog.Service
}

// NewAccessLogHandler creates a new access log handler.
func NewAccessLogHandler(base *BaseHandler, service *accesslog.Service) *AccessLogHandler {
	return &AccessLogHandler{BaseHandler: base, service: service}
}

func (h *AccessLogHandler) query(c *gin.Context) (accesslog.Query, bool) {
	var req dto.LogQuery
	if !h.BindQuery(c, &req) {
		return accesslog.Query{}, false
	}
	page, ok := h.Page(c, accesslog.DefaultPageSize)
	if !ok {
		return accesslog.Query{}, false
	}
	return req.ToQuery(tenant.GetTenantID(c.Request.Context()), page), true
}

// Filter handles GET /filter-logs over the live log of the tenant.
func (h *AccessLogHandler) Filter(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	res, err := h.service.Filter(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// Archived handles GET /archived-logs over the tenant database.
func (h *AccessLogHandler) Archived(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	res, err := h.service.Archived(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// RegisterRoutes registers access log routes.
func (h *AccessLogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/filter-logs", h.Filter)
	rg.GET("/archived-logs", h.Archived)
}
