package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/id"
	"stockscope/internal/domain/filter"
	"stockscope/internal/infrastructure/http/v1/dto"
	"stockscope/internal/infrastructure/http/v1/middleware"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, bindError(err, "Invalid request body"))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, bindError(err, "Invalid query parameters"))
		return false
	}
	return true
}

func bindError(err error, fallback string) error {
	translated := middleware.Translate(err)
	if _, ok := apperror.AsAppError(translated); ok {
		return translated
	}
	return apperror.NewValidation(fallback).WithCause(err)
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseID reads an id path parameter.
func (h *BaseHandler) ParseID(c *gin.Context, param string) (id.ID, bool) {
	v, err := id.Parse(c.Param(param))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+param).WithDetail(param, c.Param(param)))
		return id.ID{}, false
	}
	return v, true
}

// Page reads page and limit query parameters.
func (h *BaseHandler) Page(c *gin.Context, defaultSize int) (filter.Page, bool) {
	p, err := filter.ParsePage(c.Request.URL.Query(), defaultSize)
	if err != nil {
		h.Error(c, err)
		return p, false
	}
	return p, true
}

// Query returns a trimmed query parameter.
func (h *BaseHandler) Query(c *gin.Context, key string) string {
	return strings.TrimSpace(c.Query(key))
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends 201 with {message, <key>: entity}.
func (h *BaseHandler) Created(c *gin.Context, message, key string, entity any) {
	c.JSON(http.StatusCreated, dto.Mutation(message, key, entity))
}

// Changed sends 200 with {message, <key>: entity}.
func (h *BaseHandler) Changed(c *gin.Context, message, key string, entity any) {
	c.JSON(http.StatusOK, dto.Mutation(message, key, entity))
}
