package customer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/id"
	"stockscope/internal/core/tx"
	"stockscope/internal/domain/rawmaterial"
)

type memRepo struct {
	customers map[id.ID]*Customer
	purchases map[id.ID]*Purchase
}

func newMemRepo() *memRepo {
	return &memRepo{customers: map[id.ID]*Customer{}, purchases: map[id.ID]*Purchase{}}
}

func (r *memRepo) Create(_ context.Context, c *Customer) error {
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *memRepo) Update(_ context.Context, c *Customer) error {
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, customerID id.ID) error {
	delete(r.customers, customerID)
	for pid, p := range r.purchases {
		if p.CustomerID == customerID {
			delete(r.purchases, pid)
		}
	}
	return nil
}

func (r *memRepo) GetByID(_ context.Context, customerID id.ID) (*Customer, error) {
	c, ok := r.customers[customerID]
	if !ok {
		return nil, apperror.NewNotFound("customer", customerID)
	}
	cp := *c
	return &cp, nil
}

func (r *memRepo) GetForUpdate(ctx context.Context, customerID id.ID) (*Customer, error) {
	return r.GetByID(ctx, customerID)
}

func (r *memRepo) List(context.Context, ListQuery) ([]*Customer, int64, error) {
	out := make([]*Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *memRepo) ListWithHistory(ctx context.Context) ([]*Customer, error) {
	out, _, err := r.List(ctx, ListQuery{})
	return out, err
}

func (r *memRepo) AddPurchase(_ context.Context, p *Purchase) error {
	cp := *p
	r.purchases[p.ID] = &cp
	return nil
}

func (r *memRepo) GetPurchase(_ context.Context, customerID, purchaseID id.ID) (*Purchase, error) {
	p, ok := r.purchases[purchaseID]
	if !ok || p.CustomerID != customerID {
		return nil, apperror.NewNotFound("purchase", purchaseID)
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) DeletePurchase(_ context.Context, purchaseID id.ID) error {
	delete(r.purchases, purchaseID)
	return nil
}

func (r *memRepo) Purchases(_ context.Context, customerID id.ID) ([]Purchase, error) {
	var out []Purchase
	for _, p := range r.purchases {
		if p.CustomerID == customerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memRepo) AddRawPurchase(context.Context, *RawPurchase) error { return nil }

func (r *memRepo) FindRawPurchase(_ context.Context, _ id.ID, name, _, _ string, _ time.Time) (*RawPurchase, error) {
	return nil, apperror.NewNotFound("raw purchase", name)
}

func (r *memRepo) DeleteRawPurchase(context.Context, id.ID) error { return nil }

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	return NewService(Config{Repo: repo, TxManager: tx.Direct{}, Now: func() time.Time { return fixedNow }})
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name    string
		details Details
		wantErr bool
	}{
		{name: "valid", details: Details{Name: "Acme", Email: "info@acme.test"}},
		{name: "no email", details: Details{Name: "Acme"}},
		{name: "missing name", details: Details{Email: "info@acme.test"}, wantErr: true},
		{name: "bad email", details: Details{Name: "Acme", Email: "not-an-email"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemRepo()
			c, err := newTestService(repo).Create(context.Background(), tt.details)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.Is(err, apperror.CodeValidation))
				assert.Empty(t, repo.customers)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, fixedNow, c.CreatedAt)
			assert.NotNil(t, c.Purchases)
			assert.Len(t, repo.customers, 1)
		})
	}
}

func TestService_Update(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	c, err := svc.Create(ctx, Details{Name: "Acme"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, Details{Name: "Acme Ltd", Phone: "555"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", updated.Name)
	assert.Equal(t, "555", repo.customers[c.ID].Phone)

	_, err = svc.Update(ctx, id.New(), Details{Name: "Ghost"})
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_DeleteRemovesHistory(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	c, err := svc.Create(ctx, Details{Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, repo.AddPurchase(ctx, &Purchase{ID: id.New(), CustomerID: c.ID, BoxCount: 1}))

	require.NoError(t, svc.Delete(ctx, c.ID))
	assert.Empty(t, repo.customers)
	assert.Empty(t, repo.purchases)

	assert.True(t, apperror.IsNotFound(svc.Delete(ctx, c.ID)))
}

func TestPurchase_FillTotal(t *testing.T) {
	p := Purchase{BoxCount: 2, PackageCount: 12, PackageContain: 25}
	p.FillTotal()
	assert.Equal(t, 600.0, p.Total)
}

func TestRawPurchase_Matches(t *testing.T) {
	soldAt := fixedNow
	lot := &rawmaterial.Lot{
		Properties: rawmaterial.Properties{Name: "Kraft", SupplierCode: "S1", Type: "roll"},
		SoldAt:     &soldAt,
	}
	snap := RawPurchase{Properties: lot.Properties, Date: soldAt}

	assert.True(t, snap.Matches(lot))

	other := snap
	other.Date = soldAt.Add(time.Second)
	assert.False(t, other.Matches(lot))

	lot.SoldAt = nil
	assert.False(t, snap.Matches(lot))
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortAsc, ParseSortOrder("asc"))
	assert.Equal(t, SortDesc, ParseSortOrder("desc"))
	assert.Equal(t, SortNone, ParseSortOrder("sideways"))
}
