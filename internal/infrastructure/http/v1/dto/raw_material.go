package dto

import (
	"stockscope/internal/core/apperror"
	"stockscope/internal/core/id"
	"stockscope/internal/domain/rawmaterial"
)

// RawMaterialRequest for creating, updating and matching raw material lots.
// squareMeters and totalBobbinWeight are accepted but recomputed on save.
type RawMaterialRequest struct {
	Name              string  `json:"name" binding:"required"`
	SupplierCode      string  `json:"supplierCode" binding:"required"`
	Type              string  `json:"type" binding:"required"`
	Grammage          float64 `json:"grammage" binding:"gte=0"`
	MeterLength       float64 `json:"meterLength" binding:"gte=0"`
	BobbinWeight      float64 `json:"bobbinWeight" binding:"gte=0"`
	BobbinCount       float64 `json:"bobbinCount" binding:"gte=0"`
	BobbinHeight      float64 `json:"bobbinHeight" binding:"gte=0"`
	BobbinDiameter    float64 `json:"bobbinDiameter" binding:"gte=0"`
	SquareMeters      float64 `json:"squareMeters"`
	TotalBobbinWeight float64 `json:"totalBobbinWeight"`
	Notes             string  `json:"notes"`
}

// ToProperties converts to domain properties.
func (r *RawMaterialRequest) ToProperties() rawmaterial.Properties {
	return rawmaterial.Properties{
		Name:              r.Name,
		SupplierCode:      r.SupplierCode,
		Type:              r.Type,
		Grammage:          r.Grammage,
		MeterLength:       r.MeterLength,
		BobbinWeight:      r.BobbinWeight,
		BobbinCount:       r.BobbinCount,
		BobbinHeight:      r.BobbinHeight,
		BobbinDiameter:    r.BobbinDiameter,
		SquareMeters:      r.SquareMeters,
		TotalBobbinWeight: r.TotalBobbinWeight,
		Notes:             r.Notes,
	}
}

// TransferRequest moves a lot out of stock, to a customer when CustomerID
// is set.
type TransferRequest struct {
	CustomerID string `json:"customerId"`
	SoldNote   string `json:"soldNote"`
}

// Customer parses the optional customer id.
func (r *TransferRequest) Customer() (*id.ID, error) {
	return parseOptionalID(r.CustomerID, "customerId")
}

// RevertRequest returns a lot to stock.
type RevertRequest struct {
	CustomerID string `json:"customerId"`
}

// Customer parses the optional customer id.
func (r *RevertRequest) Customer() (*id.ID, error) {
	return parseOptionalID(r.CustomerID, "customerId")
}

// DeactivateRequest marks a lot passive without a customer.
type DeactivateRequest struct {
	SoldNote string `json:"soldNote"`
}

// ExistsResponse is 1 when a matching active lot exists, otherwise 0.
type ExistsResponse struct {
	Exists int `json:"exists"`
}

// NewExistsResponse converts a bool to the numeric flag.
func NewExistsResponse(ok bool) ExistsResponse {
	if ok {
		return ExistsResponse{Exists: 1}
	}
	return ExistsResponse{Exists: 0}
}

func parseOptionalID(raw, field string) (*id.ID, error) {
	v, err := id.ParseOptional(raw)
	if err != nil {
		return nil, apperror.NewValidation("invalid " + field).WithDetail("field", field)
	}
	return v, nil
}
