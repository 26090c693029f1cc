// Package migrations embeds the goose migrations applied to every tenant
// database.
package migrations

import "embed"

// FS holds the SQL migrations at its root.
//
//go:embed *.sql
var FS embed.FS
