package inventory_repo

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/id"
	"stockscope/internal/domain/customer"
)

// CustomerRepo implements customer.Repository. Purchase history lives in
// customer_purchases and customer_raw_purchases, both deleted with the
// customer by ON DELETE CASCADE.
type CustomerRepo struct {
	t         table[customer.Customer]
	purchases table[customer.Purchase]
	raw       table[customer.RawPurchase]
}

// NewCustomerRepo creates a CustomerRepo.
func NewCustomerRepo() *CustomerRepo {
	return &CustomerRepo{
		t:         newTable[customer.Customer]("customers", "customer"),
		purchases: newTable[customer.Purchase]("customer_purchases", "purchase"),
		raw:       newTable[customer.RawPurchase]("customer_raw_purchases", "raw purchase"),
	}
}

var _ customer.Repository = (*CustomerRepo)(nil)

func (r *CustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	return r.t.insert(ctx, c)
}

func (r *CustomerRepo) Update(ctx context.Context, c *customer.Customer) error {
	return r.t.update(ctx, c.ID, c)
}

func (r *CustomerRepo) Delete(ctx context.Context, customerID id.ID) error {
	return r.t.delete(ctx, customerID)
}

func (r *CustomerRepo) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	c, err := r.t.getByID(ctx, customerID, false)
	if err != nil {
		return nil, err
	}
	if err := r.loadHistory(ctx, []*customer.Customer{c}); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CustomerRepo) GetForUpdate(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	return r.t.getByID(ctx, customerID, true)
}

func (r *CustomerRepo) List(ctx context.Context, q customer.ListQuery) ([]*customer.Customer, int64, error) {
	sel := applyCriteria(r.t.baseSelect(), q.Criteria, "notes", q.Notes)
	orderBy := "name ASC"
	if q.Sort != customer.SortNone {
		orderBy = "created_at " + sortDirection(string(q.Sort))
	}
	return page[*customer.Customer](ctx, sel, orderBy, q.Page)
}

func (r *CustomerRepo) ListWithHistory(ctx context.Context) ([]*customer.Customer, error) {
	customers, err := r.t.selectAll(ctx, r.t.baseSelect().OrderBy("name ASC"))
	if err != nil {
		return nil, err
	}
	if err := r.loadHistory(ctx, customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// loadHistory fills the purchase slices of customers with two queries.
func (r *CustomerRepo) loadHistory(ctx context.Context, customers []*customer.Customer) error {
	if len(customers) == 0 {
		return nil
	}
	ids := make([]id.ID, len(customers))
	byID := make(map[id.ID]*customer.Customer, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
		byID[c.ID] = c
		c.Purchases = []customer.Purchase{}
		c.RawPurchases = []customer.RawPurchase{}
	}

	purchases, err := r.purchases.selectAll(ctx, r.purchases.baseSelect().
		Where(squirrel.Eq{"customer_id": ids}).
		OrderBy("date ASC", "id ASC"))
	if err != nil {
		return err
	}
	for _, p := range purchases {
		p.FillTotal()
		c := byID[p.CustomerID]
		c.Purchases = append(c.Purchases, *p)
	}

	raws, err := r.raw.selectAll(ctx, r.raw.baseSelect().
		Where(squirrel.Eq{"customer_id": ids}).
		OrderBy("date ASC", "id ASC"))
	if err != nil {
		return err
	}
	for _, p := range raws {
		c := byID[p.CustomerID]
		c.RawPurchases = append(c.RawPurchases, *p)
	}
	return nil
}

func (r *CustomerRepo) AddPurchase(ctx context.Context, p *customer.Purchase) error {
	return r.purchases.insert(ctx, p)
}

func (r *CustomerRepo) GetPurchase(ctx context.Context, customerID, purchaseID id.ID) (*customer.Purchase, error) {
	q := r.purchases.baseSelect().Where(squirrel.Eq{"id": purchaseID, "customer_id": customerID})
	return r.purchases.getOne(ctx, q, purchaseID)
}

func (r *CustomerRepo) DeletePurchase(ctx context.Context, purchaseID id.ID) error {
	return r.purchases.delete(ctx, purchaseID)
}

func (r *CustomerRepo) Purchases(ctx context.Context, customerID id.ID) ([]customer.Purchase, error) {
	rows, err := r.purchases.selectAll(ctx, r.purchases.baseSelect().
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("date DESC", "id DESC"))
	if err != nil {
		return nil, err
	}
	out := make([]customer.Purchase, len(rows))
	for i, p := range rows {
		p.FillTotal()
		out[i] = *p
	}
	return out, nil
}

func (r *CustomerRepo) AddRawPurchase(ctx context.Context, p *customer.RawPurchase) error {
	return r.raw.insert(ctx, p)
}

func (r *CustomerRepo) FindRawPurchase(ctx context.Context, customerID id.ID, name, supplierCode, typ string, date time.Time) (*customer.RawPurchase, error) {
	q := r.raw.baseSelect().
		Where(squirrel.Eq{
			"customer_id":   customerID,
			"name":          name,
			"supplier_code": supplierCode,
			"type":          typ,
			"date":          date,
		}).
		OrderBy("id ASC").
		Suffix("FOR UPDATE")
	p, err := r.raw.getOne(ctx, q, name)
	if err != nil && apperror.IsNotFound(err) {
		return nil, apperror.NewNotFound("raw purchase", name).
			WithDetail("customerId", customerID.String())
	}
	return p, err
}

func (r *CustomerRepo) DeleteRawPurchase(ctx context.Context, rawPurchaseID id.ID) error {
	return r.raw.delete(ctx, rawPurchaseID)
}
