package transfer

import (
	"context"
	"errors"
	"time"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/id"
	"stockscope/internal/domain/customer"
	"stockscope/internal/domain/rawmaterial"
	"stockscope/internal/domain/stock"
)

// store is an in-memory database whose transactions roll back on error.
type store struct {
	raw          map[id.ID]rawmaterial.Lot
	stock        map[id.ID]stock.Lot
	customers    map[id.ID]customer.Customer
	purchases    map[id.ID]customer.Purchase
	rawPurchases map[id.ID]customer.RawPurchase

	failRawUpdate   error
	failStockUpdate error
	failStockDelete error
	failStockCreate error
}

func newStore() *store {
	return &store{
		raw:          map[id.ID]rawmaterial.Lot{},
		stock:        map[id.ID]stock.Lot{},
		customers:    map[id.ID]customer.Customer{},
		purchases:    map[id.ID]customer.Purchase{},
		rawPurchases: map[id.ID]customer.RawPurchase{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	raw, stk, cus := cloneMap(s.raw), cloneMap(s.stock), cloneMap(s.customers)
	pur, rpur := cloneMap(s.purchases), cloneMap(s.rawPurchases)
	if err := fn(ctx); err != nil {
		s.raw, s.stock, s.customers, s.purchases, s.rawPurchases = raw, stk, cus, pur, rpur
		return err
	}
	return nil
}

type rawRepo struct{ *store }

func (r rawRepo) GetForUpdate(_ context.Context, lotID id.ID) (*rawmaterial.Lot, error) {
	l, ok := r.raw[lotID]
	if !ok {
		return nil, apperror.NewNotFound("raw material", lotID)
	}
	return &l, nil
}

func (r rawRepo) Update(_ context.Context, lot *rawmaterial.Lot) error {
	if r.failRawUpdate != nil {
		return r.failRawUpdate
	}
	r.raw[lot.ID] = *lot
	return nil
}

type stockRepo struct{ *store }

func (r stockRepo) FindForUpdate(_ context.Context, size string, weight float64) (*stock.Lot, error) {
	for _, l := range r.stock {
		if l.Size == size && l.Weight == weight {
			return &l, nil
		}
	}
	return nil, apperror.NewNotFound("stock", size)
}

func (r stockRepo) Create(_ context.Context, lot *stock.Lot) error {
	if r.failStockCreate != nil {
		return r.failStockCreate
	}
	r.stock[lot.ID] = *lot
	return nil
}

func (r stockRepo) Update(_ context.Context, lot *stock.Lot) error {
	if r.failStockUpdate != nil {
		return r.failStockUpdate
	}
	r.stock[lot.ID] = *lot
	return nil
}

func (r stockRepo) Delete(_ context.Context, lotID id.ID) error {
	if r.failStockDelete != nil {
		return r.failStockDelete
	}
	delete(r.stock, lotID)
	return nil
}

type customerRepo struct{ *store }

func (r customerRepo) GetForUpdate(_ context.Context, customerID id.ID) (*customer.Customer, error) {
	c, ok := r.customers[customerID]
	if !ok {
		return nil, apperror.NewNotFound("customer", customerID)
	}
	return &c, nil
}

func (r customerRepo) AddPurchase(_ context.Context, p *customer.Purchase) error {
	r.purchases[p.ID] = *p
	return nil
}

func (r customerRepo) GetPurchase(_ context.Context, customerID, purchaseID id.ID) (*customer.Purchase, error) {
	p, ok := r.purchases[purchaseID]
	if !ok || p.CustomerID != customerID {
		return nil, apperror.NewNotFound("purchase", purchaseID)
	}
	return &p, nil
}

func (r customerRepo) DeletePurchase(_ context.Context, purchaseID id.ID) error {
	delete(r.purchases, purchaseID)
	return nil
}

func (r customerRepo) AddRawPurchase(_ context.Context, p *customer.RawPurchase) error {
	r.rawPurchases[p.ID] = *p
	return nil
}

func (r customerRepo) FindRawPurchase(_ context.Context, customerID id.ID, name, supplierCode, typ string, date time.Time) (*customer.RawPurchase, error) {
	for _, p := range r.rawPurchases {
		if p.CustomerID == customerID && p.Name == name && p.SupplierCode == supplierCode &&
			p.Type == typ && p.Date.Equal(date) {
			return &p, nil
		}
	}
	return nil, apperror.NewNotFound("raw purchase", name)
}

func (r customerRepo) DeleteRawPurchase(_ context.Context, rawPurchaseID id.ID) error {
	delete(r.rawPurchases, rawPurchaseID)
	return nil
}

func (s *store) rawPurchasesOf(customerID id.ID) []customer.RawPurchase {
	var out []customer.RawPurchase
	for _, p := range s.rawPurchases {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out
}

func (s *store) purchasesOf(customerID id.ID) []customer.Purchase {
	var out []customer.Purchase
	for _, p := range s.purchases {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out
}

type recorded struct {
	op  string
	err error
}

type fakeRecorder struct{ calls []recorded }

func (f *fakeRecorder) ObserveTransfer(op string, err error) {
	f.calls = append(f.calls, recorded{op: op, err: err})
}

var errDisk = errors.New("disk full")
