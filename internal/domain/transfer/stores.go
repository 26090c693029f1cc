package transfer

import (
	"context"
	"time"

	"stockscope/internal/core/id"
	"stockscope/internal/domain/customer"
	"stockscope/internal/domain/rawmaterial"
	"stockscope/internal/domain/stock"
)

// RawLots is the part of the raw material repository used by transfers.
type RawLots interface {
	GetForUpdate(ctx context.Context, lotID id.ID) (*rawmaterial.Lot, error)
	Update(ctx context.Context, lot *rawmaterial.Lot) error
}

// StockLots is the part of the stock repository used by transfers.
type StockLots interface {
	FindForUpdate(ctx context.Context, size string, weight float64) (*stock.Lot, error)
	Create(ctx context.Context, lot *stock.Lot) error
	Update(ctx context.Context, lot *stock.Lot) error
	Delete(ctx context.Context, lotID id.ID) error
}

// Customers is the part of the customer repository used by transfers.
type Customers interface {
	GetForUpdate(ctx context.Context, customerID id.ID) (*customer.Customer, error)

	AddPurchase(ctx context.Context, p *customer.Purchase) error
	GetPurchase(ctx context.Context, customerID, purchaseID id.ID) (*customer.Purchase, error)
	DeletePurchase(ctx context.Context, purchaseID id.ID) error

	AddRawPurchase(ctx context.Context, p *customer.RawPurchase) error
	FindRawPurchase(ctx context.Context, customerID id.ID, name, supplierCode, typ string, date time.Time) (*customer.RawPurchase, error)
	DeleteRawPurchase(ctx context.Context, rawPurchaseID id.ID) error
}

// Recorder observes finished transfer operations.
type Recorder interface {
	ObserveTransfer(op string, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveTransfer(string, error) {}
