// Package supplier manages raw material suppliers.
package supplier

import (
	"context"
	"strings"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/entity"
)

// Details are the editable fields of a supplier.
type Details struct {
	Name          string `db:"name" json:"name"`
	Code          string `db:"code" json:"code"`
	ContactPerson string `db:"contact_person" json:"contactPerson"`
	Address       string `db:"address" json:"address"`
	Phone         string `db:"phone" json:"phone"`
	Notes         string `db:"notes" json:"notes"`
}

// Normalize trims the code; codes are compared verbatim everywhere else.
func (d *Details) Normalize() {
	d.Code = strings.TrimSpace(d.Code)
	d.Name = strings.TrimSpace(d.Name)
}

// Validate checks required fields.
func (d *Details) Validate(_ context.Context) error {
	if d.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if d.Code == "" {
		return apperror.NewValidation("code is required").WithDetail("field", "code")
	}
	return nil
}

// Supplier is referenced from raw material lots by Code.
type Supplier struct {
	entity.BaseEntity
	Details
}
