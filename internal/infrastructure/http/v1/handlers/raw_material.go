package handlers

import (
	"github.com/gin-gonic/gin"

	"stockscope/internal/core/apperror"
	"stockscope/internal/domain/filter"
	"stockscope/internal/domain/rawmaterial"
	"stockscope/internal/domain/transfer"
	"stockscope/internal/infrastructure/export"
	"stockscope/internal/infrastructure/http/v1/dto"
	"stockscope/pkg/logger"
)

// RawMaterialHandler handles raw material lots and their transfers.
type RawMaterialHandler struct {
	*BaseHandler
	service   *rawmaterial.Service
	transfers *transfer.Service
}

// NewRawMaterialHandler creates a new raw material handler.
func NewRawMaterialHandler(base *BaseHandler, service *rawmaterial.Service, transfers *transfer.Service) *RawMaterialHandler {
	return &RawMaterialHandler{
		BaseHandler: base,
		service:     service,
		transfers:   transfers,
	}
}

func (h *RawMaterialHandler) view(c *gin.Context) (rawmaterial.View, bool) {
	v, ok := rawmaterial.ParseView(h.Query(c, "view"))
	if !ok {
		h.Error(c, apperror.NewValidation("view must be all, active or passive").WithDetail("view", c.Query("view")))
	}
	return v, ok
}

// List handles GET /rawMaterials. Without a page parameter every lot of
// the view is returned.
func (h *RawMaterialHandler) List(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}

	if c.Query("page") == "" {
		items, total, err := h.service.List(c.Request.Context(), view, nil)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.NewListResponse(items, total))
		return
	}

	page, ok := h.Page(c, filter.DefaultPageSize)
	if !ok {
		return
	}
	items, total, err := h.service.List(c.Request.Context(), view, &page)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, filter.NewPageResult(items, total, page))
}

// Create handles POST /rawMaterials
func (h *RawMaterialHandler) Create(c *gin.Context) {
	var req dto.RawMaterialRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lot, err := h.service.Create(c.Request.Context(), req.ToProperties())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, "Raw material created", "rawMaterial", lot)
}

// Get handles GET /rawMaterials/:id
func (h *RawMaterialHandler) Get(c *gin.Context) {
	lotID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	lot, err := h.service.Get(c.Request.Context(), lotID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, lot)
}

// Update handles PUT /rawMaterials/:id
func (h *RawMaterialHandler) Update(c *gin.Context) {
	lotID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.RawMaterialRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lot, err := h.service.Update(c.Request.Context(), lotID, req.ToProperties())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Changed(c, "Raw material updated", "rawMaterial", lot)
}

// Delete handles DELETE /rawMaterials/:id
func (h *RawMaterialHandler) Delete(c *gin.Context) {
	lotID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	lot, err := h.service.Delete(c.Request.Context(), lotID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Changed(c, "Raw material deleted", "rawMaterial", lot)
}

// Transfer handles POST /rawMaterials/:id/transfer
func (h *RawMaterialHandler) Transfer(c *gin.Context) {
	lotID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.TransferRequest
	if !h.BindJSON(c, &req) {
		return
	}
	customerID, err := req.Customer()
	if err != nil {
		h.Error(c, err)
		return
	}

	lot, err := h.transfers.SellRaw(c.Request.Context(), lotID, customerID, req.SoldNote)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Changed(c, "Raw material transferred", "rawMaterial", lot)
}

// Revert handles POST /rawMaterials/:id/revert
func (h *RawMaterialHandler) Revert(c *gin.Context) {
	lotID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.RevertRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}
	customerID, err := req.Customer()
	if err != nil {
		h.Error(c, err)
		return
	}

	lot, err := h.transfers.RevertRaw(c.Request.Context(), lotID, customerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Changed(c, "Raw material returned to stock", "rawMaterial", lot)
}

// Deactivate handles PATCH /rawMaterials/:id/deactivate
func (h *RawMaterialHandler) Deactivate(c *gin.Context) {
	lotID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.DeactivateRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	lot, err := h.transfers.SoftDeactivate(c.Request.Context(), lotID, req.SoldNote)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Changed(c, "Raw material status updated to passive", "rawMaterial", lot)
}

// Activate handles PATCH /rawMaterials/:id/activate
func (h *RawMaterialHandler) Activate(c *gin.Context) {
	lotID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	lot, err := h.transfers.SoftActivate(c.Request.Context(), lotID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Changed(c, "Raw material status updated to active", "rawMaterial", lot)
}

// Filter handles GET /rawMaterials/filter
func (h *RawMaterialHandler) Filter(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	page, ok := h.Page(c, filter.DefaultPageSize)
	if !ok {
		return
	}
	criteria, err := h.service.Filters().Parse(c.Request.URL.Query())
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.service.Filter(c.Request.Context(), view, criteria, page)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// SearchNotes handles GET /rawMaterials/search-notes?q=
func (h *RawMaterialHandler) SearchNotes(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}
	page, ok := h.Page(c, filter.DefaultPageSize)
	if !ok {
		return
	}

	res, err := h.service.SearchNotes(c.Request.Context(), view, h.Query(c, "q"), page)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// Names handles GET /rawMaterials/names
func (h *RawMaterialHandler) Names(c *gin.Context) {
	names, err := h.service.Names(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, names)
}

// Types handles GET /rawMaterials/types
func (h *RawMaterialHandler) Types(c *gin.Context) {
	types, err := h.service.Types(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, types)
}

// Distinct handles GET /rawMaterials/distinct/:name
func (h *RawMaterialHandler) Distinct(c *gin.Context) {
	values, err := h.service.DistinctByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, values)
}

// Exists handles POST /rawMaterials/exists
func (h *RawMaterialHandler) Exists(c *gin.Context) {
	var req dto.RawMaterialRequest
	if !h.BindJSON(c, &req) {
		return
	}
	ok, err := h.service.Exists(c.Request.Context(), req.ToProperties())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewExistsResponse(ok))
}

// Export handles GET /rawMaterials/export with the filter parameters.
func (h *RawMaterialHandler) Export(c *gin.Context) {
	criteria, err := h.service.Filters().Parse(c.Request.URL.Query())
	if err != nil {
		h.Error(c, err)
		return
	}
	lots, err := h.service.FilterAll(c.Request.Context(), criteria)
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := writeWorkbook(c, "rawMaterials", export.RawMaterialColumns, lots); err != nil {
		logger.Error(c.Request.Context(), "raw material export failed", "error", err)
	}
}

// RegisterRoutes registers raw material routes. Static segments are
// registered before the :id routes.
func (h *RawMaterialHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/filter", h.Filter)
	rg.GET("/search-notes", h.SearchNotes)
	rg.GET("/names", h.Names)
	rg.GET("/types", h.Types)
	rg.GET("/distinct/:name", h.Distinct)
	rg.GET("/export", h.Export)
	rg.POST("/exists", h.Exists)

	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/transfer", h.Transfer)
	rg.POST("/:id/revert", h.Revert)
	rg.PATCH("/:id/deactivate", h.Deactivate)
	rg.PATCH("/:id/activate", h.Activate)
}
