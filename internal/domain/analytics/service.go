package analytics

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"stockscope/internal/core/apperror"
	"stockscope/internal/domain/quantity"
	"stockscope/internal/domain/rawmaterial"
)

// Service computes the analysis endpoints.
type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

// NewService creates a Service. loc defaults to UTC and now to time.Now.
func NewService(repo Repository, loc *time.Location, now func() time.Time) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, loc: loc, now: now}
}

// Window parses the period parameters of a request.
func (s *Service) Window(params url.Values) (Window, error) {
	return ParseWindow(params, s.now(), s.loc)
}

// RawDistribution groups lots of status by type.
func (s *Service) RawDistribution(ctx context.Context, status rawmaterial.Status, w Window) ([]RawTypeTotal, error) {
	rows, err := s.repo.RawByType(ctx, status, w)
	if err != nil {
		return nil, fmt.Errorf("raw distribution: %w", err)
	}
	return nonNil(rows), nil
}

// RawComparison returns both distributions and the per-type
// stock-to-sales ratio of grammage.
func (s *Service) RawComparison(ctx context.Context, w Window) (*RawComparison, error) {
	active, err := s.RawDistribution(ctx, rawmaterial.StatusActive, w)
	if err != nil {
		return nil, err
	}
	passive, err := s.RawDistribution(ctx, rawmaterial.StatusPassive, w)
	if err != nil {
		return nil, err
	}

	sold := make(map[string]float64, len(passive))
	for _, p := range passive {
		sold[p.Type] = p.TotalGrammage
	}
	ratios := make([]RawRatio, 0, len(active))
	for _, a := range active {
		ratios = append(ratios, RawRatio{
			Type:              a.Type,
			ActiveGrammage:    a.TotalGrammage,
			SoldGrammage:      sold[a.Type],
			StockToSalesRatio: quantity.StockToSalesRatio(a.TotalGrammage, sold[a.Type]),
		})
	}
	return &RawComparison{Active: active, Passive: passive, Ratios: ratios}, nil
}

// RawInOut sums lots created and lots taken out of stock in w.
func (s *Service) RawInOut(ctx context.Context, w Window) (*RawInOut, error) {
	in, err := s.repo.RawIn(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("raw in: %w", err)
	}
	out, err := s.repo.RawOut(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("raw out: %w", err)
	}
	return &RawInOut{In: in, Out: out}, nil
}

// ActiveStock groups stock lots by size.
func (s *Service) ActiveStock(ctx context.Context, w Window) ([]SizeTotal, error) {
	rows, err := s.repo.ActiveStockBySize(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("active stock distribution: %w", err)
	}
	return nonNil(rows), nil
}

// SoldStock groups customer purchases by size.
func (s *Service) SoldStock(ctx context.Context, w Window) ([]SizeTotal, error) {
	rows, err := s.repo.SoldStockBySize(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("sold stock distribution: %w", err)
	}
	return nonNil(rows), nil
}

// StockComparison returns both distributions and the per-size
// stock-to-sales ratio of units.
func (s *Service) StockComparison(ctx context.Context, w Window) (*StockComparison, error) {
	active, err := s.ActiveStock(ctx, w)
	if err != nil {
		return nil, err
	}
	passive, err := s.SoldStock(ctx, w)
	if err != nil {
		return nil, err
	}

	sold := make(map[string]float64, len(passive))
	for _, p := range passive {
		sold[p.Size] = p.TotalAmount
	}
	ratios := make([]SizeRatio, 0, len(active))
	for _, a := range active {
		ratios = append(ratios, SizeRatio{
			Size:              a.Size,
			ActiveAmount:      a.TotalAmount,
			SoldAmount:        sold[a.Size],
			StockToSalesRatio: quantity.StockToSalesRatio(a.TotalAmount, sold[a.Size]),
		})
	}
	return &StockComparison{Active: active, Passive: passive, Ratios: ratios}, nil
}

// StockInOut sums stock intake and sales in w.
func (s *Service) StockInOut(ctx context.Context, w Window) (*StockInOut, error) {
	onHand, err := s.repo.StockIn(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("stock in: %w", err)
	}
	out, err := s.repo.StockOut(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("stock out: %w", err)
	}

	in := StockFlow{
		Amount:   quantity.Add(onHand.Amount, out.Amount),
		BoxCount: onHand.BoxCount,
	}
	return &StockInOut{
		In:        in,
		Out:       out,
		Remaining: quantity.Sub(in.Amount, out.Amount),
	}, nil
}

// StockWeights breaks active stock down by size and weight.
func (s *Service) StockWeights(ctx context.Context, w Window) ([]SizeWeights, error) {
	rows, err := s.repo.ActiveStockByWeight(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("stock weights: %w", err)
	}

	out := []SizeWeights{}
	for _, r := range rows {
		if len(out) == 0 || out[len(out)-1].Size != r.Size {
			out = append(out, SizeWeights{Size: r.Size, Weights: []WeightTotal{}})
		}
		last := &out[len(out)-1]
		last.Weights = append(last.Weights, r)
		last.TotalSizeAmount = quantity.Add(last.TotalSizeAmount, r.Amount)
	}
	return out, nil
}

// Supplier totals the materials bought from one supplier. No lots in w is
// NotFound.
func (s *Service) Supplier(ctx context.Context, supplierCode string, w Window) ([]MaterialTotal, error) {
	supplierCode = strings.TrimSpace(supplierCode)
	if supplierCode == "" {
		return nil, apperror.NewValidation("Supplier is required")
	}
	rows, err := s.repo.SupplierMaterials(ctx, supplierCode, w)
	if err != nil {
		return nil, fmt.Errorf("supplier analysis: %w", err)
	}
	if len(rows) == 0 {
		return nil, apperror.NewNotFound("supplier analysis", supplierCode)
	}
	return rows, nil
}

// SupplierDistribution totals materials per supplier.
func (s *Service) SupplierDistribution(ctx context.Context, w Window) ([]SupplierDistribution, error) {
	rows, err := s.repo.SupplierMaterials(ctx, "", w)
	if err != nil {
		return nil, fmt.Errorf("supplier distribution: %w", err)
	}

	out := []SupplierDistribution{}
	for _, r := range rows {
		if len(out) == 0 || out[len(out)-1].Supplier != r.SupplierCode {
			out = append(out, SupplierDistribution{Supplier: r.SupplierCode, Materials: []MaterialTotal{}})
		}
		last := &out[len(out)-1]
		last.Materials = append(last.Materials, r)
		last.TotalGrammage = quantity.Add(last.TotalGrammage, r.Grammage)
		last.TotalBobbinWeight = quantity.Add(last.TotalBobbinWeight, r.TotalBobbinWeight)
	}
	return out, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
