// Package accesslog records mutating API calls and answers queries over
// the recorded entries.
package accesslog

import (
	"context"
	"time"
)

// Entry is one recorded API call.
type Entry struct {
	Timestamp    time.Time      `json:"timestamp" db:"timestamp"`
	Tenant       string         `json:"tenant" db:"tenant_id"`
	Method       string         `json:"method" db:"method"`
	URL          string         `json:"url" db:"url"`
	User         string         `json:"user" db:"username"`
	ObjectType   *string        `json:"objectType" db:"object_type"`
	ObjectID     *string        `json:"objectId" db:"object_id"`
	RequestBody  map[string]any `json:"requestBody" db:"request_body"`
	ResponseBody any            `json:"responseBody" db:"response_body"`
	Details      string         `json:"details,omitempty" db:"details"`
}

// Sink is the append-only store entries are written to on every
// mutating request.
type Sink interface {
	Append(ctx context.Context, e Entry) error
	// ReadAll returns the live entries of every tenant in write order.
	ReadAll(ctx context.Context) ([]Entry, error)
}

// Pruner is implemented by sinks that can drop data every tenant has
// already archived.
type Pruner interface {
	// Prune removes sink data written before the given time and returns
	// the number of files removed.
	Prune(ctx context.Context, before time.Time) (int, error)
}

// Store is the queryable archive of entries in a tenant database.
type Store interface {
	// LastArchived returns the newest archived timestamp, or the zero
	// time when nothing was archived yet.
	LastArchived(ctx context.Context) (time.Time, error)
	SetLastArchived(ctx context.Context, ts time.Time) error
	Insert(ctx context.Context, entries []Entry) (int64, error)
	Search(ctx context.Context, q Query) ([]Entry, int64, error)
}
