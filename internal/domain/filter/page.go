package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"stockscope/internal/core/apperror"
)

// Default page sizes. Endpoints pass theirs explicitly.
const (
	DefaultPageSize     = 5
	ActiveStockPageSize = 10
	MaxPageSize         = 500
)

// Page is a 1-indexed page request.
type Page struct {
	Number int
	Size   int
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// ParsePage reads page and limit (or pageSize). Missing values fall back to
// page 1 and defaultSize.
func ParsePage(params url.Values, defaultSize int) (Page, error) {
	p := Page{Number: 1, Size: defaultSize}

	if raw := strings.TrimSpace(params.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, apperror.NewValidation("page must be a positive integer")
		}
		p.Number = n
	}

	raw := strings.TrimSpace(params.Get("limit"))
	if raw == "" {
		raw = strings.TrimSpace(params.Get("pageSize"))
	}
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxPageSize {
			return p, apperror.NewValidation(fmt.Sprintf("limit must be between 1 and %d", MaxPageSize))
		}
		p.Size = n
	}
	return p, nil
}

// TotalPages is ceil(count/size).
func TotalPages(count int64, size int) int {
	if size <= 0 || count <= 0 {
		return 0
	}
	return int((count + int64(size) - 1) / int64(size))
}

// PageResult is the paginated list shape returned by the filter endpoints.
type PageResult[T any] struct {
	Items       []T   `json:"items"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	TotalItems  int64 `json:"totalItems"`
}

// NewPageResult wraps one page of items. A nil slice becomes empty.
func NewPageResult[T any](items []T, total int64, p Page) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{
		Items:       items,
		TotalPages:  TotalPages(total, p.Size),
		CurrentPage: p.Number,
		TotalItems:  total,
	}
}

// Slice returns the part of items covered by p. A page past the end is empty.
func Slice[T any](items []T, p Page) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
