// Package id provides UUIDv7 identifiers for all stored records.
package id

import (
	"strings"

	"github.com/google/uuid"
)

// ID is the identifier type of every entity and embedded purchase entry.
type ID = uuid.UUID

// New generates a new UUIDv7. v7 ids sort by creation time, which keeps
// B-tree inserts local in PostgreSQL.
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// ParseOptional parses s when it is non-blank and returns nil otherwise.
// Used for optional references such as the customer of a raw material transfer.
func ParseOptional(s string) (*ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// MustParse converts string to ID, panics on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// IsNil checks if ID is zero-value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
