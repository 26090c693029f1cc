package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when the tenant is not registered.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantNotActive is returned when tenant exists but is not active.
	ErrTenantNotActive = errors.New("tenant is not active")
)
