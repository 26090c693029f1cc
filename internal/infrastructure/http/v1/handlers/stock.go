package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockscope/internal/domain/filter"
	"stockscope/internal/domain/stock"
	"stockscope/internal/domain/transfer"
	"stockscope/internal/infrastructure/export"
	"stockscope/internal/infrastructure/http/v1/dto"
	"stockscope/pkg/logger"
)

// StockHandler handles finished-goods lots and stock sales.
type StockHandler struct {
	*BaseHandler
	service   *stock.Service
	transfers *transfer.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service, transfers *transfer.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
		transfers:   transfers,
	}
}

// List handles GET /stocks
func (h *StockHandler) List(c *gin.Context) {
	lots, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(lots, int64(len(lots))))
}

// Create handles POST /stocks. An intake on an existing size and weight
// is merged into that lot.
func (h *StockHandler) Create(c *gin.Context) {
	var req dto.AddStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lot, merged, err := h.service.AddStock(c.Request.Context(), req.ToIntake())
	if err != nil {
		h.Error(c, err)
		return
	}
	if merged {
		h.Changed(c, "Stock updated", "stock", lot)
		return
	}
	h.Created(c, "Stock created", "stock", lot)
}

// Get handles GET /stocks/:id
func (h *StockHandler) Get(c *gin.Context) {
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

// Update handles PUT /stocks/:id
func (h *StockHandler) Update(c *gin.Context) {
	lotID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lot, err := h.service.Update(c.Request.Context(), lotID, req.ToReplacement())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Changed(c, "Stock updated", "stock", lot)
}

// Withdraw handles DELETE /stocks/:id {boxCount, totalCount}
func (h *StockHandler) Withdraw(c *gin.Context) {
	lotID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.WithdrawRequest
	if !h.BindJSON(c, &req) {
		return
	}

	res, err := h.service.Withdraw(c.Request.Context(), lotID, req.BoxCount, req.TotalCount)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromWithdraw(res))
}

// Sell handles POST /stocks/sell
func (h *StockHandler) Sell(c *gin.Context) {
	var req dto.SellStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.transfers.SellStock(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Stock sold",
		"stock":      res.Stock,
		"deleted":    res.Deleted,
		"amountSold": res.AmountSold,
		"soldNote":   res.SoldNote,
		"purchase":   res.Purchase,
		"customer":   res.Customer,
	})
}

// Active handles GET /stocks/active
func (h *StockHandler) Active(c *gin.Context) {
	page, ok := h.Page(c, filter.ActiveStockPageSize)
	if !ok {
		return
	}
	res, err := h.service.ListActive(c.Request.Context(), filter.Criteria{}, page)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// Passive handles GET /stocks/passive with the sold stock filters.
func (h *StockHandler) Passive(c *gin.Context) {
	page, ok := h.Page(c, filter.DefaultPageSize)
	if !ok {
		return
	}
	criteria, err := h.service.PassiveFilters().Parse(c.Request.URL.Query())
	if err != nil {
		h.Error(c, err)
		return
	}
	res, err := h.service.ListPassive(c.Request.Context(), criteria, page)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// Filter handles GET /stocks/filter
func (h *StockHandler) Filter(c *gin.Context) {
	page, ok := h.Page(c, filter.DefaultPageSize)
	if !ok {
		return
	}
	criteria, err := h.service.Filters().Parse(c.Request.URL.Query())
	if err != nil {
		h.Error(c, err)
		return
	}
	res, err := h.service.ListActive(c.Request.Context(), criteria, page)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// SearchNotes handles GET /stocks/search-notes?q=&view=passive
func (h *StockHandler) SearchNotes(c *gin.Context) {
	page, ok := h.Page(c, filter.DefaultPageSize)
	if !ok {
		return
	}
	q := h.Query(c, "q")

	if h.Query(c, "view") == "passive" {
		res, err := h.service.SearchPassiveNotes(c.Request.Context(), q, page)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, res)
		return
	}

	res, err := h.service.SearchNotes(c.Request.Context(), q, page)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// Sizes handles GET /stocks/sizes
func (h *StockHandler) Sizes(c *gin.Context) {
	sizes, err := h.service.Sizes(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sizes)
}

// Weights handles GET /stocks/weights?size=
func (h *StockHandler) Weights(c *gin.Context) {
	weights, err := h.service.WeightsBySize(c.Request.Context(), h.Query(c, "size"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, weights)
}

// Export handles GET /stocks/export with the filter parameters.
func (h *StockHandler) Export(c *gin.Context) {
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
	if err := writeWorkbook(c, "stocks", export.StockColumns, lots); err != nil {
		logger.Error(c.Request.Context(), "stock export failed", "error", err)
	}
}

// RegisterRoutes registers stock routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.POST("/sell", h.Sell)
	rg.GET("/active", h.Active)
	rg.GET("/passive", h.Passive)
	rg.GET("/filter", h.Filter)
	rg.GET("/search-notes", h.SearchNotes)
	rg.GET("/sizes", h.Sizes)
	rg.GET("/weights", h.Weights)
	rg.GET("/export", h.Export)

	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Withdraw)
}
