package dto

import (
	"stockscope/internal/core/apperror"
	"stockscope/internal/core/id"
	"stockscope/internal/domain/stock"
	"stockscope/internal/domain/transfer"
)

// AddStockRequest books an intake of boxed goods.
type AddStockRequest struct {
	Size           string  `json:"size" binding:"required"`
	Weight         float64 `json:"weight" binding:"gte=0"`
	BoxCount       float64 `json:"boxCount" binding:"gt=0"`
	PackageCount   float64 `json:"packageCount" binding:"gt=0"`
	PackageContain float64 `json:"packageContain" binding:"gt=0"`
	Notes          string  `json:"notes"`
}

// ToIntake converts to the domain intake.
func (r *AddStockRequest) ToIntake() stock.Intake {
	return stock.Intake{
		Size:           r.Size,
		Weight:         r.Weight,
		BoxCount:       r.BoxCount,
		PackageCount:   r.PackageCount,
		PackageContain: r.PackageContain,
		Notes:          r.Notes,
	}
}

// UpdateStockRequest overwrites a lot.
type UpdateStockRequest struct {
	Size     string  `json:"size" binding:"required"`
	Weight   float64 `json:"weight" binding:"gte=0"`
	BoxCount float64 `json:"boxCount" binding:"gte=0"`
	Total    float64 `json:"total" binding:"gte=0"`
	Notes    string  `json:"notes"`
}

// ToReplacement converts to the domain replacement.
func (r *UpdateStockRequest) ToReplacement() stock.Replacement {
	return stock.Replacement{
		Size:     r.Size,
		Weight:   r.Weight,
		BoxCount: r.BoxCount,
		Total:    r.Total,
		Notes:    r.Notes,
	}
}

// WithdrawRequest removes boxes and units from a lot without a customer.
type WithdrawRequest struct {
	BoxCount   float64 `json:"boxCount" binding:"gte=0"`
	TotalCount float64 `json:"totalCount" binding:"gte=0"`
}

// SellStockRequest sells units of a (size, weight) lot to a customer.
type SellStockRequest struct {
	Size           string  `json:"size" binding:"required"`
	Weight         float64 `json:"weight" binding:"gte=0"`
	BoxCount       float64 `json:"boxCount" binding:"gt=0"`
	PackageCount   float64 `json:"packageCount" binding:"gt=0"`
	PackageContain float64 `json:"packageContain" binding:"gt=0"`
	CustomerID     string  `json:"customerId" binding:"required"`
	Notes          string  `json:"notes"`
	SoldNote       string  `json:"soldNote"`
}

// ToInput converts to the transfer input.
func (r *SellStockRequest) ToInput() (transfer.SellStockInput, error) {
	customerID, err := id.Parse(r.CustomerID)
	if err != nil {
		return transfer.SellStockInput{}, apperror.NewValidation("invalid customerId").WithDetail("field", "customerId")
	}
	return transfer.SellStockInput{
		Size:           r.Size,
		Weight:         r.Weight,
		BoxCount:       r.BoxCount,
		PackageCount:   r.PackageCount,
		PackageContain: r.PackageContain,
		CustomerID:     customerID,
		Notes:          r.Notes,
		SoldNote:       r.SoldNote,
	}, nil
}

// WithdrawResponse reports a manual withdrawal.
type WithdrawResponse struct {
	Message      string     `json:"message"`
	Stock        *stock.Lot `json:"stock"`
	Deleted      bool       `json:"deleted"`
	TotalDeleted float64    `json:"totalDeleted"`
}

// FromWithdraw creates response from a withdrawal result.
func FromWithdraw(res stock.WithdrawResult) WithdrawResponse {
	msg := "Stock updated"
	if res.Deleted {
		msg = "Stock deleted"
	}
	return WithdrawResponse{
		Message:      msg,
		Stock:        res.Lot,
		Deleted:      res.Deleted,
		TotalDeleted: res.TotalDeleted,
	}
}
