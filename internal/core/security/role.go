// Package security provides role-based access checks.
package security

import (
	"context"

	"stockscope/internal/core/apperror"
	appctx "stockscope/internal/core/context"
)

// Role is a numeric access level. A user may perform an action when its
// role is less than or equal to the level the action requires.
type Role int

const (
	RoleAdmin    Role = 1
	RoleOperator Role = 2
	RoleViewer   Role = 3
)

// Valid reports whether r is one of the known levels.
func (r Role) Valid() bool {
	return r >= RoleAdmin && r <= RoleViewer
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleOperator:
		return "operator"
	case RoleViewer:
		return "viewer"
	default:
		return "unknown"
	}
}

// Authorize checks the caller in ctx against the required level.
func Authorize(ctx context.Context, required Role) error {
	user := appctx.GetUser(ctx)
	if user == nil {
		return apperror.NewUnauthorized("authentication required")
	}
	if Role(user.Role) > required {
		return apperror.NewForbidden("access denied").
			WithDetail("required_role", required.String())
	}
	return nil
}
