package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/entity"
	"stockscope/internal/core/id"
	"stockscope/internal/domain/customer"
	"stockscope/internal/domain/rawmaterial"
	"stockscope/internal/domain/stock"
	"stockscope/pkg/logger"
)

var fixedNow = time.Date(2024, 5, 20, 14, 0, 0, 0, time.UTC)

type fixture struct {
	db  *store
	svc *Service
	rec *fakeRecorder
}

func newFixture() *fixture {
	db := newStore()
	rec := &fakeRecorder{}
	svc := NewService(Config{
		RawLots:   rawRepo{db},
		StockLots: stockRepo{db},
		Customers: customerRepo{db},
		TxManager: db,
		Recorder:  rec,
		Now:       func() time.Time { return fixedNow },
	})
	return &fixture{db: db, svc: svc, rec: rec}
}

func (f *fixture) addCustomer(name string) id.ID {
	c := customer.Customer{BaseEntity: entity.NewBaseEntity(fixedNow)}
	c.Name = name
	f.db.customers[c.ID] = c
	return c.ID
}

func (f *fixture) addRawLot() id.ID {
	lot := rawmaterial.NewLot(rawmaterial.Properties{
		Name: "Kraft", SupplierCode: "S1", Type: "roll",
		Grammage: 100, BobbinWeight: 10, BobbinCount: 5, BobbinHeight: 2, MeterLength: 50,
	}, fixedNow.Add(-24*time.Hour))
	f.db.raw[lot.ID] = *lot
	return lot.ID
}

func (f *fixture) addStockLot(size string, weight, boxes, total float64) id.ID {
	lot := stock.Lot{BaseEntity: entity.NewBaseEntity(fixedNow), Size: size, Weight: weight, BoxCount: boxes, Total: total, Notes: "shelf 3"}
	f.db.stock[lot.ID] = lot
	return lot.ID
}

func observedContext() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}
	return logger.WithLogger(context.Background(), l), logs
}

func TestSellRawThenRevert(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	lotID := f.addRawLot()
	cust := f.addCustomer("C")

	lot, err := f.svc.SellRaw(ctx, lotID, &cust, "sold batch")
	require.NoError(t, err)
	assert.Equal(t, rawmaterial.StatusPassive, lot.Status)
	require.NotNil(t, lot.SoldAt)
	assert.Equal(t, fixedNow, *lot.SoldAt)
	assert.Equal(t, "sold batch", *lot.SoldNote)
	assert.Equal(t, cust, *lot.CustomerRef)

	snaps := f.db.rawPurchasesOf(cust)
	require.Len(t, snaps, 1)
	assert.Equal(t, 50.0, snaps[0].TotalBobbinWeight)
	assert.Equal(t, 100.0, snaps[0].SquareMeters)
	assert.Equal(t, "sold batch", snaps[0].SoldNote)

	lot, err = f.svc.RevertRaw(ctx, lotID, &cust)
	require.NoError(t, err)
	assert.Equal(t, rawmaterial.StatusActive, lot.Status)
	assert.Nil(t, lot.SoldAt)
	assert.Nil(t, lot.SoldNote)
	assert.Nil(t, lot.CustomerRef)
	assert.Empty(t, f.db.rawPurchasesOf(cust))

	stored := f.db.raw[lotID]
	assert.Equal(t, rawmaterial.StatusActive, stored.Status)
}

func TestRevertRemovesExactlyOneSnapshot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cust := f.addCustomer("C")
	first := f.addRawLot()
	second := f.addRawLot()

	_, err := f.svc.SellRaw(ctx, first, &cust, "a")
	require.NoError(t, err)
	_, err = f.svc.SellRaw(ctx, second, &cust, "b")
	require.NoError(t, err)
	require.Len(t, f.db.rawPurchasesOf(cust), 2)

	_, err = f.svc.RevertRaw(ctx, first, &cust)
	require.NoError(t, err)
	assert.Len(t, f.db.rawPurchasesOf(cust), 1)
}

func TestSellRaw_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	lotID := f.addRawLot()
	ghost := id.New()

	_, err := f.svc.SellRaw(ctx, id.New(), nil, "")
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.svc.SellRaw(ctx, lotID, &ghost, "")
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, rawmaterial.StatusActive, f.db.raw[lotID].Status)

	_, err = f.svc.SellRaw(ctx, lotID, nil, "removed")
	require.NoError(t, err)
	assert.Nil(t, f.db.raw[lotID].CustomerRef)

	_, err = f.svc.SellRaw(ctx, lotID, nil, "again")
	assert.True(t, apperror.Is(err, apperror.CodeInvalidState))
}

func TestRevertRaw_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	lotID := f.addRawLot()
	cust := f.addCustomer("C")
	other := f.addCustomer("D")

	_, err := f.svc.RevertRaw(ctx, lotID, nil)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidState))

	_, err = f.svc.SellRaw(ctx, lotID, &cust, "x")
	require.NoError(t, err)

	_, err = f.svc.RevertRaw(ctx, lotID, &other)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, rawmaterial.StatusPassive, f.db.raw[lotID].Status)
	assert.Len(t, f.db.rawPurchasesOf(cust), 1)
}

func TestSellRaw_DivergenceRollsBack(t *testing.T) {
	f := newFixture()
	ctx, logs := observedContext()
	lotID := f.addRawLot()
	cust := f.addCustomer("C")
	f.db.failRawUpdate = errDisk

	_, err := f.svc.SellRaw(ctx, lotID, &cust, "x")
	require.ErrorIs(t, err, errDisk)

	assert.Empty(t, f.db.rawPurchasesOf(cust))
	assert.Equal(t, rawmaterial.StatusActive, f.db.raw[lotID].Status)

	entries := logs.FilterMessage("transfer divergence").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, OpSellRaw, fields["operation"])
	assert.Equal(t, lotID.String(), fields["lot_id"])
	assert.Equal(t, cust.String(), fields["customer_id"])
	assert.Equal(t, "update_lot", fields["step"])

	require.Len(t, f.rec.calls, 1)
	assert.Equal(t, OpSellRaw, f.rec.calls[0].op)
	assert.ErrorIs(t, f.rec.calls[0].err, errDisk)
}

func TestSellRaw_NoDivergenceWithoutCustomer(t *testing.T) {
	f := newFixture()
	ctx, logs := observedContext()
	lotID := f.addRawLot()
	f.db.failRawUpdate = errDisk

	_, err := f.svc.SellRaw(ctx, lotID, nil, "x")
	require.ErrorIs(t, err, errDisk)
	assert.Zero(t, logs.FilterMessage("transfer divergence").Len())
}

func TestSoftToggles(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	lotID := f.addRawLot()
	cust := f.addCustomer("C")

	_, err := f.svc.SellRaw(ctx, lotID, &cust, "sold")
	require.NoError(t, err)

	lot, err := f.svc.SoftActivate(ctx, lotID)
	require.NoError(t, err)
	assert.Equal(t, rawmaterial.StatusActive, lot.Status)
	assert.Nil(t, lot.SoldAt)
	assert.Nil(t, lot.SoldNote)
	require.NotNil(t, lot.CustomerRef)
	assert.Equal(t, cust, *lot.CustomerRef)

	lot, err = f.svc.SoftDeactivate(ctx, lotID, "damaged")
	require.NoError(t, err)
	assert.Equal(t, rawmaterial.StatusPassive, lot.Status)
	assert.Equal(t, "damaged", *lot.SoldNote)
	require.NotNil(t, lot.CustomerRef)
	assert.Equal(t, cust, *lot.CustomerRef)

	_, err = f.svc.SoftActivate(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestSoftDeactivateSoldLot(t *testing.T) {
	tests := []struct {
		name   string
		revert bool
	}{
		{name: "rejected and lot untouched"},
		{name: "revert still finds the purchase", revert: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			lotID := f.addRawLot()
			cust := f.addCustomer("C")

			_, err := f.svc.SellRaw(ctx, lotID, &cust, "sold batch")
			require.NoError(t, err)
			before := f.db.raw[lotID]

			_, err = f.svc.SoftDeactivate(ctx, lotID, "damaged")
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.CodeInvalidState))

			after := f.db.raw[lotID]
			assert.Equal(t, before.SoldAt, after.SoldAt)
			assert.Equal(t, "sold batch", *after.SoldNote)
			require.NotNil(t, after.CustomerRef)
			assert.Equal(t, cust, *after.CustomerRef)
			assert.Len(t, f.db.rawPurchasesOf(cust), 1)

			if !tt.revert {
				return
			}
			lot, err := f.svc.RevertRaw(ctx, lotID, &cust)
			require.NoError(t, err)
			assert.Equal(t, rawmaterial.StatusActive, lot.Status)
			assert.Empty(t, f.db.rawPurchasesOf(cust))
		})
	}
}

func TestStockScenario_MergeThenSellAll(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cust := f.addCustomer("C")
	lotID := f.addStockLot("A4", 80, 5, 5000)

	res, err := f.svc.SellStock(ctx, SellStockInput{
		Size: "A4", Weight: 80, BoxCount: 5, PackageCount: 10, PackageContain: 100,
		CustomerID: cust, SoldNote: "all",
	})
	require.NoError(t, err)

	assert.True(t, res.Deleted)
	assert.Equal(t, 5000.0, res.AmountSold)
	assert.NotContains(t, f.db.stock, lotID)

	purchases := f.db.purchasesOf(cust)
	require.Len(t, purchases, 1)
	assert.Equal(t, 5000.0, purchases[0].Quantity())
	assert.Equal(t, 5000.0, res.Purchase.Total)
	assert.Equal(t, "C", res.Customer.Name)
}

func TestSellStock(t *testing.T) {
	tests := []struct {
		name        string
		boxes       float64
		pkgCount    float64
		pkgContain  float64
		wantCode    string
		wantDeleted bool
		wantBoxes   float64
		wantTotal   float64
	}{
		{name: "partial", boxes: 2, pkgCount: 10, pkgContain: 50, wantBoxes: 3, wantTotal: 1500},
		{name: "exact", boxes: 5, pkgCount: 10, pkgContain: 50, wantDeleted: true},
		{name: "boxes run out first", boxes: 5, pkgCount: 1, pkgContain: 100, wantDeleted: true},
		{name: "insufficient", boxes: 6, pkgCount: 10, pkgContain: 50, wantCode: apperror.CodeInsufficientStock, wantBoxes: 5, wantTotal: 2500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			cust := f.addCustomer("C")
			lotID := f.addStockLot("30x40", 90, 5, 2500)

			res, err := f.svc.SellStock(context.Background(), SellStockInput{
				Size: "30x40", Weight: 90, BoxCount: tt.boxes,
				PackageCount: tt.pkgCount, PackageContain: tt.pkgContain, CustomerID: cust,
			})

			if tt.wantCode != "" {
				assert.True(t, apperror.Is(err, tt.wantCode))
				assert.Empty(t, f.db.purchasesOf(cust))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantDeleted, res.Deleted)
				assert.Len(t, f.db.purchasesOf(cust), 1)
			}

			lot, ok := f.db.stock[lotID]
			if tt.wantDeleted {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantBoxes, lot.BoxCount)
			assert.Equal(t, tt.wantTotal, lot.Total)
			assert.GreaterOrEqual(t, lot.Total, 0.0)
		})
	}
}

func TestSellStock_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cust := f.addCustomer("C")
	f.addStockLot("A4", 80, 5, 5000)

	in := SellStockInput{Size: "A5", Weight: 80, BoxCount: 1, PackageCount: 1, PackageContain: 1, CustomerID: cust}
	_, err := f.svc.SellStock(ctx, in)
	assert.True(t, apperror.IsNotFound(err))

	in.Size, in.CustomerID = "A4", id.New()
	_, err = f.svc.SellStock(ctx, in)
	assert.True(t, apperror.IsNotFound(err))

	in.CustomerID = id.ID{}
	_, err = f.svc.SellStock(ctx, in)
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}

func TestSellStock_DivergenceRollsBack(t *testing.T) {
	f := newFixture()
	ctx, logs := observedContext()
	cust := f.addCustomer("C")
	lotID := f.addStockLot("A4", 80, 5, 5000)
	f.db.failStockUpdate = errDisk

	_, err := f.svc.SellStock(ctx, SellStockInput{
		Size: "A4", Weight: 80, BoxCount: 1, PackageCount: 10, PackageContain: 100, CustomerID: cust,
	})
	require.ErrorIs(t, err, errDisk)

	assert.Empty(t, f.db.purchasesOf(cust))
	assert.Equal(t, 5000.0, f.db.stock[lotID].Total)

	entries := logs.FilterMessage("transfer divergence").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "update_lot", entries[0].ContextMap()["step"])
}

func TestDeleteStockFromCustomer(t *testing.T) {
	tests := []struct {
		name        string
		restock     bool
		existingLot bool
		wantBoxes   float64
		wantTotal   float64
	}{
		{name: "no restock", restock: false, existingLot: true, wantBoxes: 1, wantTotal: 100},
		{name: "restock into existing lot", restock: true, existingLot: true, wantBoxes: 3, wantTotal: 1100},
		{name: "restock creates lot", restock: true, existingLot: false, wantBoxes: 2, wantTotal: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			cust := f.addCustomer("C")
			if tt.existingLot {
				f.addStockLot("A4", 80, 1, 100)
			}
			purchase := customer.Purchase{
				ID: id.New(), CustomerID: cust, Size: "A4", Weight: 80,
				BoxCount: 2, PackageCount: 10, PackageContain: 50, Notes: "returned",
			}
			f.db.purchases[purchase.ID] = purchase

			res, err := f.svc.DeleteStockFromCustomer(ctx, cust, purchase.ID, tt.restock)
			require.NoError(t, err)
			assert.Equal(t, 1000.0, res.Purchase.Total)
			assert.Empty(t, f.db.purchasesOf(cust))

			lot, err := stockRepo{f.db}.FindForUpdate(ctx, "A4", 80)
			if !tt.restock && !tt.existingLot {
				assert.True(t, apperror.IsNotFound(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBoxes, lot.BoxCount)
			assert.Equal(t, tt.wantTotal, lot.Total)
			if !tt.existingLot {
				assert.Equal(t, "returned", lot.Notes)
			}
		})
	}
}

func TestDeleteStockFromCustomer_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cust := f.addCustomer("C")
	other := f.addCustomer("D")
	purchase := customer.Purchase{ID: id.New(), CustomerID: other, Size: "A4", Weight: 80, BoxCount: 1}
	f.db.purchases[purchase.ID] = purchase

	_, err := f.svc.DeleteStockFromCustomer(ctx, id.New(), purchase.ID, false)
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.svc.DeleteStockFromCustomer(ctx, cust, purchase.ID, false)
	assert.True(t, apperror.IsNotFound(err))
	assert.Contains(t, f.db.purchases, purchase.ID)
}

func TestDeleteStockFromCustomer_RestockFailureRollsBack(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cust := f.addCustomer("C")
	purchase := customer.Purchase{ID: id.New(), CustomerID: cust, Size: "A4", Weight: 80, BoxCount: 1, PackageCount: 1, PackageContain: 1}
	f.db.purchases[purchase.ID] = purchase
	f.db.failStockCreate = errDisk

	_, err := f.svc.DeleteStockFromCustomer(ctx, cust, purchase.ID, true)
	require.ErrorIs(t, err, errDisk)
	assert.Contains(t, f.db.purchases, purchase.ID)
}
