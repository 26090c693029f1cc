// Package tenant provides database-per-tenant connection management.
// Each tenant (a business using StockScope) owns an isolated PostgreSQL database.
package tenant

import (
	"fmt"
	"net/url"
)

// Status represents tenant lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Tenant describes one tenant database.
type Tenant struct {
	ID          string `mapstructure:"id"`
	Slug        string `mapstructure:"slug"`
	DisplayName string `mapstructure:"display_name"`
	DBName      string `mapstructure:"db_name"`
	DBHost      string `mapstructure:"db_host"`
	DBPort      int    `mapstructure:"db_port"`
	Status      Status `mapstructure:"status"`
}

// IsActive returns true if tenant can accept requests.
func (t *Tenant) IsActive() bool {
	return t.Status == "" || t.Status == StatusActive
}

// DSN builds the PostgreSQL connection string for this tenant's database.
func (t *Tenant) DSN(user, password, sslMode string) string {
	host := t.DBHost
	if host == "" {
		host = "localhost"
	}
	port := t.DBPort
	if port == 0 {
		port = 5432
	}
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(user), url.QueryEscape(password), host, port, t.DBName, sslMode,
	)
}
