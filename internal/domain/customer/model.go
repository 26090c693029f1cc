// Package customer manages customers and their purchase history.
package customer

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/entity"
	"stockscope/internal/core/id"
	"stockscope/internal/domain/quantity"
	"stockscope/internal/domain/rawmaterial"
)

// Details are the editable fields of a customer.
type Details struct {
	Name            string `db:"name" json:"name"`
	Email           string `db:"email" json:"email"`
	ContactPerson   string `db:"contact_person" json:"contactPerson"`
	Phone           string `db:"phone" json:"phone"`
	Address         string `db:"address" json:"address"`
	ShippingCompany string `db:"shipping_company" json:"shippingCompany"`
	Notes           string `db:"notes" json:"notes"`
}

// Validate checks required fields.
func (d *Details) Validate(_ context.Context) error {
	if strings.TrimSpace(d.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if d.Email != "" {
		if _, err := mail.ParseAddress(d.Email); err != nil {
			return apperror.NewValidation("invalid email").WithDetail("field", "email")
		}
	}
	return nil
}

// Customer owns an immutable purchase history. Purchases are stored in
// child tables and loaded separately.
type Customer struct {
	entity.BaseEntity
	Details

	Purchases    []Purchase    `db:"-" json:"purchases"`
	RawPurchases []RawPurchase `db:"-" json:"rawPurchases"`
}

// Purchase records a stock sale.
type Purchase struct {
	ID             id.ID     `db:"id" json:"id"`
	CustomerID     id.ID     `db:"customer_id" json:"customerId"`
	Size           string    `db:"size" json:"size"`
	Weight         float64   `db:"weight" json:"weight"`
	BoxCount       float64   `db:"box_count" json:"boxCount"`
	PackageCount   float64   `db:"package_count" json:"packageCount"`
	PackageContain float64   `db:"package_contain" json:"packageContain"`
	Date           time.Time `db:"date" json:"date"`
	Notes          string    `db:"notes" json:"notes"`
	SoldNote       string    `db:"sold_note" json:"soldNote"`

	// Total is derived on read; see Quantity.
	Total float64 `db:"-" json:"total"`
}

// Quantity is the number of units sold: boxCount × packageCount × packageContain.
func (p *Purchase) Quantity() float64 {
	return quantity.StockTotal(p.BoxCount, p.PackageCount, p.PackageContain)
}

// FillTotal sets Total from the package factors.
func (p *Purchase) FillTotal() {
	p.Total = p.Quantity()
}

// RawPurchase is the snapshot of a raw material lot at the time of sale.
type RawPurchase struct {
	ID         id.ID `db:"id" json:"id"`
	CustomerID id.ID `db:"customer_id" json:"customerId"`
	rawmaterial.Properties
	SoldNote string    `db:"sold_note" json:"soldNote"`
	Date     time.Time `db:"date" json:"date"`
}

// Matches reports whether the snapshot mirrors lot's sale: same name,
// supplier code and type, dated at the lot's soldAt.
func (rp *RawPurchase) Matches(lot *rawmaterial.Lot) bool {
	if lot.SoldAt == nil {
		return false
	}
	return rp.Name == lot.Name &&
		rp.SupplierCode == lot.SupplierCode &&
		rp.Type == lot.Type &&
		rp.Date.Equal(*lot.SoldAt)
}
