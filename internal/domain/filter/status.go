package filter

import (
	"fmt"
	"strings"

	"stockscope/internal/core/apperror"
)

// StatusView is a derived slice over raw material lots.
type StatusView string

const (
	ViewAny     StatusView = ""
	ViewActive  StatusView = "active"
	ViewSold    StatusView = "sold"
	ViewRemoved StatusView = "removed"
)

// ParseStatusView accepts active, sold, removed or empty.
func ParseStatusView(s string) (StatusView, error) {
	switch v := StatusView(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewAny, ViewActive, ViewSold, ViewRemoved:
		return v, nil
	}
	return "", apperror.NewValidation(fmt.Sprintf("unknown statusType %q", s))
}
