package analytics

import (
	"context"

	"stockscope/internal/domain/rawmaterial"
)

// Repository aggregates in the database. Every method restricts rows to w.
type Repository interface {
	// RawByType groups lots of status created in w by type.
	RawByType(ctx context.Context, status rawmaterial.Status, w Window) ([]RawTypeTotal, error)
	// RawIn sums lots created in w.
	RawIn(ctx context.Context, w Window) (RawFlow, error)
	// RawOut sums passive lots whose soldAt falls in w.
	RawOut(ctx context.Context, w Window) (RawFlow, error)

	// ActiveStockBySize groups stock lots created in w by size.
	ActiveStockBySize(ctx context.Context, w Window) ([]SizeTotal, error)
	// SoldStockBySize groups customer purchases dated in w by size.
	SoldStockBySize(ctx context.Context, w Window) ([]SizeTotal, error)
	// ActiveStockByWeight groups stock lots created in w by size and weight,
	// ordered by size.
	ActiveStockByWeight(ctx context.Context, w Window) ([]WeightTotal, error)
	StockIn(ctx context.Context, w Window) (StockFlow, error)
	StockOut(ctx context.Context, w Window) (StockFlow, error)

	// SupplierMaterials groups lots created in w by supplier, name and type,
	// ordered by supplier. An empty code selects every supplier.
	SupplierMaterials(ctx context.Context, supplierCode string, w Window) ([]MaterialTotal, error)
}
