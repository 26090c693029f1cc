// Package analytics aggregates raw material, stock and supplier data over
// a reporting window.
package analytics

// RawTypeTotal sums raw lots of one type.
type RawTypeTotal struct {
	Type              string  `db:"type" json:"type"`
	TotalGrammage     float64 `db:"total_grammage" json:"totalGrammage"`
	TotalBobbinWeight float64 `db:"total_bobbin_weight" json:"totalBobbinWeight"`
}

// RawRatio compares active and sold grammage of one type.
type RawRatio struct {
	Type              string  `json:"type"`
	ActiveGrammage    float64 `json:"activeGrammage"`
	SoldGrammage      float64 `json:"soldGrammage"`
	StockToSalesRatio float64 `json:"stockToSalesRatio"`
}

// RawComparison is the active and passive distribution with ratios.
type RawComparison struct {
	Active  []RawTypeTotal `json:"activeRawDistribution"`
	Passive []RawTypeTotal `json:"passiveRawDistribution"`
	Ratios  []RawRatio     `json:"rawToSalesRatio"`
}

// RawFlow sums raw lots that entered or left stock.
type RawFlow struct {
	Grammage     float64 `db:"grammage" json:"grammage"`
	BobbinWeight float64 `db:"bobbin_weight" json:"bobbinWeight"`
}

// RawInOut is the raw material movement of a window.
type RawInOut struct {
	In  RawFlow `json:"totalIn"`
	Out RawFlow `json:"totalOut"`
}

// SizeTotal sums stock of one size.
type SizeTotal struct {
	Size        string  `db:"size" json:"size"`
	BoxCount    float64 `db:"box_count" json:"boxCount"`
	TotalAmount float64 `db:"total_amount" json:"totalAmount"`
}

// SizeRatio compares active and sold units of one size.
type SizeRatio struct {
	Size              string  `json:"size"`
	ActiveAmount      float64 `json:"activeAmount"`
	SoldAmount        float64 `json:"soldAmount"`
	StockToSalesRatio float64 `json:"stockToSalesRatio"`
}

// StockComparison is the active and sold distribution with ratios.
type StockComparison struct {
	Active  []SizeTotal `json:"activeStockDistribution"`
	Passive []SizeTotal `json:"passiveStockDistribution"`
	Ratios  []SizeRatio `json:"stockToSalesRatio"`
}

// StockFlow sums units and boxes.
type StockFlow struct {
	Amount   float64 `db:"amount" json:"amount"`
	BoxCount float64 `db:"box_count" json:"boxCount"`
}

// StockInOut is the finished goods movement of a window. In counts the
// units still on hand plus the units sold, since sales shrink the lots they
// came from.
type StockInOut struct {
	In        StockFlow `json:"totalIn"`
	Out       StockFlow `json:"totalOut"`
	Remaining float64   `json:"remainingAmount"`
}

// WeightTotal is one (size, weight) row of active stock.
type WeightTotal struct {
	Size     string  `db:"size" json:"-"`
	Weight   float64 `db:"weight" json:"weight"`
	Amount   float64 `db:"amount" json:"amount"`
	BoxCount float64 `db:"box_count" json:"boxCount"`
}

// SizeWeights breaks the active stock of one size down by weight.
type SizeWeights struct {
	Size            string        `json:"size"`
	Weights         []WeightTotal `json:"weights"`
	TotalSizeAmount float64       `json:"totalSizeAmount"`
}

// MaterialTotal sums the raw lots of one (name, type) bought from a supplier.
type MaterialTotal struct {
	SupplierCode      string  `db:"supplier_code" json:"-"`
	Name              string  `db:"name" json:"name"`
	Type              string  `db:"type" json:"type"`
	Grammage          float64 `db:"grammage" json:"grammage"`
	TotalBobbinWeight float64 `db:"total_bobbin_weight" json:"totalBobbinWeight"`
}

// SupplierDistribution groups material totals by supplier.
type SupplierDistribution struct {
	Supplier          string          `json:"supplier"`
	Materials         []MaterialTotal `json:"materials"`
	TotalGrammage     float64         `json:"totalGrammage"`
	TotalBobbinWeight float64         `json:"totalBobbinWeight"`
}
