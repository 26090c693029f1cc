// Package transfer moves inventory between active stock and customer
// purchase history.
//
// Every operation runs in one transaction with the lot row locked. Writes
// are ordered customer side first, lot side second; when the lot write
// fails after the customer write succeeded the divergence is logged before
// the transaction rolls back.
package transfer

import (
	"context"
	"strings"
	"time"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/entity"
	"stockscope/internal/core/id"
	"stockscope/internal/core/tx"
	"stockscope/internal/domain"
	"stockscope/internal/domain/customer"
	"stockscope/internal/domain/quantity"
	"stockscope/internal/domain/rawmaterial"
	"stockscope/internal/domain/stock"
	"stockscope/pkg/logger"
)

// Operation names used in logs and metrics.
const (
	OpSellRaw        = "sell_raw"
	OpRevertRaw      = "revert_raw"
	OpSellStock      = "sell_stock"
	OpDeletePurchase = "delete_purchase"
	OpSoftDeactivate = "soft_deactivate"
	OpSoftActivate   = "soft_activate"
)

// Config wires a Service.
type Config struct {
	RawLots   RawLots
	StockLots StockLots
	Customers Customers
	TxManager tx.Manager
	Recorder  Recorder
	Now       func() time.Time
}

// Service implements the transfer and reconciliation workflow.
type Service struct {
	raw       RawLots
	stock     StockLots
	customers Customers
	txs       domain.TxSource
	rec       Recorder
	now       func() time.Time
}

// NewService creates a Service.
func NewService(cfg Config) *Service {
	now := cfg.Now
	if now == nil {
		now = entity.Now
	}
	rec := cfg.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Service{
		raw:       cfg.RawLots,
		stock:     cfg.StockLots,
		customers: cfg.Customers,
		txs:       domain.TxSource{TxManager: cfg.TxManager},
		rec:       rec,
		now:       now,
	}
}

func (s *Service) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	err := s.txs.InTx(ctx, fn)
	s.rec.ObserveTransfer(op, err)
	return err
}

// diverged logs a failed lot-side write that followed a successful
// customer-side write and returns err unchanged.
func diverged(ctx context.Context, op string, lotID id.ID, customerID *id.ID, step string, err error) error {
	var cid string
	if customerID != nil {
		cid = customerID.String()
	}
	logger.Error(ctx, "transfer divergence",
		"operation", op,
		"lot_id", lotID.String(),
		"customer_id", cid,
		"step", step,
		"error", err)
	return err
}

// SellRaw moves a raw material lot out of stock. With a customer the lot's
// current fields are appended to the customer's raw purchases. Without one
// the lot is only marked passive.
func (s *Service) SellRaw(ctx context.Context, lotID id.ID, customerID *id.ID, soldNote string) (*rawmaterial.Lot, error) {
	var lot *rawmaterial.Lot
	err := s.run(ctx, OpSellRaw, func(ctx context.Context) error {
		var err error
		if lot, err = s.raw.GetForUpdate(ctx, lotID); err != nil {
			return err
		}
		if lot.IsPassive() {
			return apperror.NewInvalidState("raw material is already out of stock").
				WithDetail("status", string(lot.Status))
		}

		now := s.now()
		wroteCustomer := false
		if customerID != nil {
			if _, err := s.customers.GetForUpdate(ctx, *customerID); err != nil {
				return err
			}
			snapshot := &customer.RawPurchase{
				ID:         id.New(),
				CustomerID: *customerID,
				Properties: lot.Properties,
				SoldNote:   soldNote,
				Date:       now,
			}
			if err := s.customers.AddRawPurchase(ctx, snapshot); err != nil {
				return err
			}
			wroteCustomer = true
		}

		lot.MarkPassive(now, soldNote, customerID)
		domain.StampUpdated(ctx, &lot.Authored)
		if err := s.raw.Update(ctx, lot); err != nil {
			if wroteCustomer {
				return diverged(ctx, OpSellRaw, lotID, customerID, "update_lot", err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "raw material sold", "lot_id", lotID, "customer_id", customerID)
	return lot, nil
}

// RevertRaw returns a passive lot to stock. With a customer the raw
// purchase mirroring the sale is removed.
func (s *Service) RevertRaw(ctx context.Context, lotID id.ID, customerID *id.ID) (*rawmaterial.Lot, error) {
	var lot *rawmaterial.Lot
	err := s.run(ctx, OpRevertRaw, func(ctx context.Context) error {
		var err error
		if lot, err = s.raw.GetForUpdate(ctx, lotID); err != nil {
			return err
		}
		if !lot.IsPassive() {
			return apperror.NewInvalidState("raw material is not passive").
				WithDetail("status", string(lot.Status))
		}

		wroteCustomer := false
		if customerID != nil {
			if _, err := s.customers.GetForUpdate(ctx, *customerID); err != nil {
				return err
			}
			if lot.SoldAt == nil {
				return apperror.NewNotFound("raw purchase", lotID)
			}
			rp, err := s.customers.FindRawPurchase(ctx, *customerID,
				lot.Name, lot.SupplierCode, lot.Type, *lot.SoldAt)
			if err != nil {
				return err
			}
			if err := s.customers.DeleteRawPurchase(ctx, rp.ID); err != nil {
				return err
			}
			wroteCustomer = true
		}

		lot.MarkActive(s.now(), true)
		domain.StampUpdated(ctx, &lot.Authored)
		if err := s.raw.Update(ctx, lot); err != nil {
			if wroteCustomer {
				return diverged(ctx, OpRevertRaw, lotID, customerID, "update_lot", err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "raw material reverted", "lot_id", lotID, "customer_id", customerID)
	return lot, nil
}

// SoftDeactivate removes an active lot from stock without touching any
// customer mirror. The customer reference is kept so a later revert still
// finds the purchase.
func (s *Service) SoftDeactivate(ctx context.Context, lotID id.ID, soldNote string) (*rawmaterial.Lot, error) {
	return s.toggle(ctx, OpSoftDeactivate, lotID, func(lot *rawmaterial.Lot, now time.Time) error {
		if lot.IsPassive() {
			return apperror.NewInvalidState("raw material is already out of stock").
				WithDetail("status", string(lot.Status))
		}
		lot.MarkPassive(now, soldNote, lot.CustomerRef)
		return nil
	})
}

// SoftActivate returns a lot to stock. The customer reference is kept.
func (s *Service) SoftActivate(ctx context.Context, lotID id.ID) (*rawmaterial.Lot, error) {
	return s.toggle(ctx, OpSoftActivate, lotID, func(lot *rawmaterial.Lot, now time.Time) error {
		lot.MarkActive(now, false)
		return nil
	})
}

func (s *Service) toggle(ctx context.Context, op string, lotID id.ID, apply func(*rawmaterial.Lot, time.Time) error) (*rawmaterial.Lot, error) {
	var lot *rawmaterial.Lot
	err := s.run(ctx, op, func(ctx context.Context) error {
		var err error
		if lot, err = s.raw.GetForUpdate(ctx, lotID); err != nil {
			return err
		}
		if err = apply(lot, s.now()); err != nil {
			return err
		}
		domain.StampUpdated(ctx, &lot.Authored)
		return s.raw.Update(ctx, lot)
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// SellStockInput describes a stock sale.
type SellStockInput struct {
	Size           string
	Weight         float64
	BoxCount       float64
	PackageCount   float64
	PackageContain float64
	CustomerID     id.ID
	Notes          string
	SoldNote       string
}

// Quantity is the number of units requested.
func (in SellStockInput) Quantity() float64 {
	return quantity.StockTotal(in.BoxCount, in.PackageCount, in.PackageContain)
}

func (in SellStockInput) validate() error {
	if strings.TrimSpace(in.Size) == "" {
		return apperror.NewValidation("size is required").WithDetail("field", "size")
	}
	if id.IsNil(in.CustomerID) {
		return apperror.NewValidation("customerId is required").WithDetail("field", "customerId")
	}
	if in.BoxCount <= 0 || in.PackageCount <= 0 || in.PackageContain <= 0 {
		return apperror.NewValidation("boxCount, packageCount and packageContain must be positive")
	}
	return nil
}

// SellStockResult reports the state after a stock sale.
type SellStockResult struct {
	// Stock is the lot after the sale. When Deleted it holds the final
	// zero or negative values of the removed row.
	Stock      *stock.Lot         `json:"stock"`
	Deleted    bool               `json:"deleted"`
	AmountSold float64            `json:"amountSold"`
	SoldNote   string             `json:"soldNote"`
	Purchase   *customer.Purchase `json:"purchase"`
	Customer   *customer.Customer `json:"customer"`
}

// SellStock sells units from the lot matching size and weight to a
// customer. A lot emptied by the sale is deleted.
func (s *Service) SellStock(ctx context.Context, in SellStockInput) (*SellStockResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var res *SellStockResult
	err := s.run(ctx, OpSellStock, func(ctx context.Context) error {
		lot, err := s.stock.FindForUpdate(ctx, in.Size, in.Weight)
		if err != nil {
			return err
		}
		buyer, err := s.customers.GetForUpdate(ctx, in.CustomerID)
		if err != nil {
			return err
		}

		requested := in.Quantity()
		if err := quantity.CheckSufficiency(lot.Total, requested); err != nil {
			return err
		}

		now := s.now()
		purchase := &customer.Purchase{
			ID:             id.New(),
			CustomerID:     in.CustomerID,
			Size:           in.Size,
			Weight:         in.Weight,
			BoxCount:       in.BoxCount,
			PackageCount:   in.PackageCount,
			PackageContain: in.PackageContain,
			Date:           now,
			Notes:          in.Notes,
			SoldNote:       in.SoldNote,
		}
		if err := s.customers.AddPurchase(ctx, purchase); err != nil {
			return err
		}
		purchase.FillTotal()

		lot.Remove(in.BoxCount, requested, now)
		res = &SellStockResult{
			Stock:      lot,
			AmountSold: requested,
			SoldNote:   in.SoldNote,
			Purchase:   purchase,
			Customer:   buyer,
		}

		if lot.Depleted() {
			res.Deleted = true
			if err := s.stock.Delete(ctx, lot.ID); err != nil {
				return diverged(ctx, OpSellStock, lot.ID, &in.CustomerID, "delete_lot", err)
			}
			return nil
		}
		if err := s.stock.Update(ctx, lot); err != nil {
			return diverged(ctx, OpSellStock, lot.ID, &in.CustomerID, "update_lot", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock sold",
		"stock_id", res.Stock.ID,
		"customer_id", in.CustomerID,
		"amount", res.AmountSold,
		"deleted", res.Deleted)
	return res, nil
}

// DeletePurchaseResult reports the outcome of DeleteStockFromCustomer.
type DeletePurchaseResult struct {
	Purchase *customer.Purchase `json:"purchase"`
	// Stock is the lot that received the restocked units, if any.
	Stock *stock.Lot `json:"stock,omitempty"`
}

// DeleteStockFromCustomer removes a purchase from a customer's history.
// With restock its boxes and units go back to the lot of the same size
// and weight, which is created when missing.
func (s *Service) DeleteStockFromCustomer(ctx context.Context, customerID, purchaseID id.ID, restock bool) (*DeletePurchaseResult, error) {
	res := &DeletePurchaseResult{}
	err := s.run(ctx, OpDeletePurchase, func(ctx context.Context) error {
		if _, err := s.customers.GetForUpdate(ctx, customerID); err != nil {
			return err
		}
		p, err := s.customers.GetPurchase(ctx, customerID, purchaseID)
		if err != nil {
			return err
		}
		p.FillTotal()
		res.Purchase = p

		if err := s.customers.DeletePurchase(ctx, purchaseID); err != nil {
			return err
		}
		if !restock {
			return nil
		}

		lot, err := s.restock(ctx, p)
		if err != nil {
			lotID := id.ID{}
			if lot != nil {
				lotID = lot.ID
			}
			return diverged(ctx, OpDeletePurchase, lotID, &customerID, "restock", err)
		}
		res.Stock = lot
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase deleted", "customer_id", customerID, "purchase_id", purchaseID, "restock", restock)
	return res, nil
}

func (s *Service) restock(ctx context.Context, p *customer.Purchase) (*stock.Lot, error) {
	now := s.now()
	lot, err := s.stock.FindForUpdate(ctx, p.Size, p.Weight)
	switch {
	case err == nil:
		lot.Add(p.BoxCount, p.Total, now)
		return lot, s.stock.Update(ctx, lot)
	case apperror.IsNotFound(err):
		lot = &stock.Lot{
			BaseEntity: entity.NewBaseEntity(now),
			CreatedBy:  domain.CurrentUserID(ctx),
			Size:       p.Size,
			Weight:     p.Weight,
			BoxCount:   p.BoxCount,
			Total:      p.Total,
			Notes:      p.Notes,
		}
		return lot, s.stock.Create(ctx, lot)
	default:
		return nil, err
	}
}
