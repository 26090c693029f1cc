package dto

import (
	"stockscope/internal/domain/customer"
	"stockscope/internal/domain/supplier"
)

// CustomerRequest for creating and updating customers.
type CustomerRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"omitempty,email"`
	ContactPerson   string `json:"contactPerson"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	ShippingCompany string `json:"shippingCompany"`
	Notes           string `json:"notes"`
}

// ToDetails converts to domain details.
func (r *CustomerRequest) ToDetails() customer.Details {
	return customer.Details{
		Name:            r.Name,
		Email:           r.Email,
		ContactPerson:   r.ContactPerson,
		Phone:           r.Phone,
		Address:         r.Address,
		ShippingCompany: r.ShippingCompany,
		Notes:           r.Notes,
	}
}

// SupplierRequest for creating and updating suppliers.
type SupplierRequest struct {
	Name          string `json:"name" binding:"required"`
	Code          string `json:"code" binding:"required"`
	ContactPerson string `json:"contactPerson"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Notes         string `json:"notes"`
}

// ToDetails converts to domain details.
func (r *SupplierRequest) ToDetails() supplier.Details {
	return supplier.Details{
		Name:          r.Name,
		Code:          r.Code,
		ContactPerson: r.ContactPerson,
		Address:       r.Address,
		Phone:         r.Phone,
		Notes:         r.Notes,
	}
}
