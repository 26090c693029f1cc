// Package entity holds the fields shared by every stored record.
package entity

import (
	"context"
	"time"

	"stockscope/internal/core/id"
)

// Validatable is implemented by entities that check their own invariants
// without touching the database.
type Validatable interface {
	Validate(ctx context.Context) error
}

// BaseEntity contains the identity and audit timestamps of a record.
type BaseEntity struct {
	ID        id.ID     `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBaseEntity creates a BaseEntity with a fresh ID stamped at now.
func NewBaseEntity(now time.Time) BaseEntity {
	return BaseEntity{
		ID:        id.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch moves UpdatedAt forward.
func (b *BaseEntity) Touch(now time.Time) {
	b.UpdatedAt = now
}

// Authored records who created and last changed a record.
type Authored struct {
	CreatedBy *id.ID `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy *id.ID `db:"updated_by" json:"updatedBy,omitempty"`
}

// Now returns the current UTC time truncated to the microsecond precision
// PostgreSQL stores, so values read back compare equal to values written.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
