package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"stockscope/internal/core/apperror"
	"stockscope/internal/domain/customer"
	"stockscope/internal/domain/filter"
	"stockscope/internal/domain/supplier"
	"stockscope/internal/domain/transfer"
	"stockscope/internal/infrastructure/http/v1/dto"
)

// CustomerHandler handles customers and their purchase history.
type CustomerHandler struct {
	*BaseHandler
	service   *customer.Service
	transfers *transfer.Service
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(base *BaseHandler, service *customer.Service, transfers *transfer.Service) *CustomerHandler {
	return &CustomerHandler{BaseHandler: base, service: service, transfers: transfers}
}

// List handles GET /customers; paged when page is given.
func (h *CustomerHandler) List(c *gin.Context) {
	var page *filter.Page
	if c.Query("page") != "" {
		p, ok := h.Page(c, filter.DefaultPageSize)
		if !ok {
			return
		}
		page = &p
	}

	items, total, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		h.Error(c, err)
		return
	}
	if page != nil {
		h.OK(c, filter.NewPageResult(items, total, *page))
		return
	}
	h.OK(c, dto.NewListResponse(items, total))
}

// Create handles POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cust, err := h.service.Create(c.Request.Context(), req.ToDetails())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, "Customer created", "customer", cust)
}

// Get handles GET /customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	cust, err := h.service.Get(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cust)
}

// Update handles PUT /customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cust, err := h.service.Update(c.Request.Context(), customerID, req.ToDetails())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Changed(c, "Customer updated", "customer", cust)
}

// Delete handles DELETE /customers/:id. Purchase history goes with it.
func (h *CustomerHandler) Delete(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), customerID); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "Customer deleted"})
}

// Filter handles GET /customers/filter
func (h *CustomerHandler) Filter(c *gin.Context) {
	page, ok := h.Page(c, filter.DefaultPageSize)
	if !ok {
		return
	}
	criteria, err := h.service.Filters().Parse(c.Request.URL.Query())
	if err != nil {
		h.Error(c, err)
		return
	}
	res, err := h.service.Filter(c.Request.Context(), criteria, customer.ParseSortOrder(c.Query("sortOrder")), page)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// SearchNotes handles GET /customers/search-notes?q=
func (h *CustomerHandler) SearchNotes(c *gin.Context) {
	page, ok := h.Page(c, filter.DefaultPageSize)
	if !ok {
		return
	}
	res, err := h.service.SearchNotes(c.Request.Context(), h.Query(c, "q"), page)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// History handles GET /customers/purchases: every customer with its
// purchases.
func (h *CustomerHandler) History(c *gin.Context) {
	customers, err := h.service.AllPurchaseHistory(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, customers)
}

// Purchases handles GET /customers/:id/purchases
func (h *CustomerHandler) Purchases(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	purchases, err := h.service.Purchases(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, purchases)
}

// DeletePurchase handles DELETE /customers/:id/purchases/:purchaseId?restock=true
func (h *CustomerHandler) DeletePurchase(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	purchaseID, ok := h.ParseID(c, "purchaseId")
	if !ok {
		return
	}
	restock := false
	if raw := h.Query(c, "restock"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("restock must be true or false"))
			return
		}
		restock = v
	}

	res, err := h.transfers.DeleteStockFromCustomer(c.Request.Context(), customerID, purchaseID, restock)
	if err != nil {
		h.Error(c, err)
		return
	}
	body := dto.Mutation("Purchase deleted", "purchase", res.Purchase)
	if res.Stock != nil {
		body["stock"] = res.Stock
	}
	h.OK(c, body)
}

// RegisterRoutes registers customer routes.
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/filter", h.Filter)
	rg.GET("/search-notes", h.SearchNotes)
	rg.GET("/purchases", h.History)

	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/purchases", h.Purchases)
	rg.DELETE("/:id/purchases/:purchaseId", h.DeletePurchase)
}

// SupplierHandler handles suppliers.
type SupplierHandler struct {
	*BaseHandler
	service *supplier.Service
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service) *SupplierHandler {
	return &SupplierHandler{BaseHandler: base, service: service}
}

// List handles GET /suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	var page *filter.Page
	if c.Query("page") != "" {
		p, ok := h.Page(c, filter.DefaultPageSize)
		if !ok {
			return
		}
		page = &p
	}

	items, total, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		h.Error(c, err)
		return
	}
	if page != nil {
		h.OK(c, filter.NewPageResult(items, total, *page))
		return
	}
	h.OK(c, dto.NewListResponse(items, total))
}

// Create handles POST /suppliers. A duplicate code is a 409.
func (h *SupplierHandler) Create(c *gin.Context) {
	var req dto.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}
	sup, err := h.service.Create(c.Request.Context(), req.ToDetails())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, "Supplier created", "supplier", sup)
}

// Get handles GET /suppliers/:id
func (h *SupplierHandler) Get(c *gin.Context) {
	supplierID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	sup, err := h.service.Get(c.Request.Context(), supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sup)
}

// Update handles PUT /suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	supplierID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}
	sup, err := h.service.Update(c.Request.Context(), supplierID, req.ToDetails())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Changed(c, "Supplier updated", "supplier", sup)
}

// Delete handles DELETE /suppliers/:id
func (h *SupplierHandler) Delete(c *gin.Context) {
	supplierID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), supplierID); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "Supplier deleted"})
}

// Filter handles GET /suppliers/filter
func (h *SupplierHandler) Filter(c *gin.Context) {
	page, ok := h.Page(c, filter.DefaultPageSize)
	if !ok {
		return
	}
	criteria, err := h.service.Filters().Parse(c.Request.URL.Query())
	if err != nil {
		h.Error(c, err)
		return
	}
	res, err := h.service.Filter(c.Request.Context(), criteria, supplier.ParseSortOrder(c.Query("sortOrder")), page)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// SearchNotes handles GET /suppliers/search-notes?q=
func (h *SupplierHandler) SearchNotes(c *gin.Context) {
	page, ok := h.Page(c, filter.DefaultPageSize)
	if !ok {
		return
	}
	res, err := h.service.SearchNotes(c.Request.Context(), h.Query(c, "q"), page)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// Purchases handles GET /suppliers/purchases?code=
func (h *SupplierHandler) Purchases(c *gin.Context) {
	lots, err := h.service.PurchasesBySupplier(c.Request.Context(), h.Query(c, "code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, lots)
}

// RegisterRoutes registers supplier routes.
func (h *SupplierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/filter", h.Filter)
	rg.GET("/search-notes", h.SearchNotes)
	rg.GET("/purchases", h.Purchases)

	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
