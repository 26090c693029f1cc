// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"github.com/gin-gonic/gin"
)

// Mutation is the body returned by create, update and state changes:
// {message, <key>: entity}. The access log reads the entity from it.
func Mutation(message, key string, entity any) gin.H {
	return gin.H{"message": message, key: entity}
}

// MessageResponse for operations without an entity.
type MessageResponse struct {
	Message string `json:"message"`
}

// ListResponse wraps an unpaginated list with its total.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalItems int64 `json:"totalItems"`
}

// NewListResponse wraps items; nil becomes an empty list.
func NewListResponse[T any](items []T, total int64) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, TotalItems: total}
}
