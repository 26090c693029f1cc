// Package export renders query results as xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"stockscope/internal/domain/rawmaterial"
	"stockscope/internal/domain/stock"
)

// ContentType is the MIME type of the produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Column is one sheet column.
type Column[T any] struct {
	Header string
	Value  func(T) any
}

// Write renders rows on a single sheet named sheet, header first, and
// writes the workbook to w.
func Write[T any](w io.Writer, sheet string, cols []Column[T], rows []T) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range rows {
		values := make([]any, len(cols))
		for j, c := range cols {
			values[j] = c.Value(r)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Filename returns "<prefix>-<date>.xlsx".
func Filename(prefix string, at time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", prefix, at.Format(time.DateOnly))
}

func date(t *time.Time) any {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// RawMaterialColumns lays out raw material lots.
var RawMaterialColumns = []Column[*rawmaterial.Lot]{
	{"Name", func(l *rawmaterial.Lot) any { return l.Name }},
	{"Supplier", func(l *rawmaterial.Lot) any { return l.SupplierCode }},
	{"Type", func(l *rawmaterial.Lot) any { return l.Type }},
	{"Grammage", func(l *rawmaterial.Lot) any { return l.Grammage }},
	{"Meter length", func(l *rawmaterial.Lot) any { return l.MeterLength }},
	{"Bobbin weight", func(l *rawmaterial.Lot) any { return l.BobbinWeight }},
	{"Bobbin count", func(l *rawmaterial.Lot) any { return l.BobbinCount }},
	{"Bobbin height", func(l *rawmaterial.Lot) any { return l.BobbinHeight }},
	{"Bobbin diameter", func(l *rawmaterial.Lot) any { return l.BobbinDiameter }},
	{"Square meters", func(l *rawmaterial.Lot) any { return l.SquareMeters }},
	{"Total bobbin weight", func(l *rawmaterial.Lot) any { return l.TotalBobbinWeight }},
	{"Status", func(l *rawmaterial.Lot) any { return string(l.Status) }},
	{"Created", func(l *rawmaterial.Lot) any { return date(&l.CreatedAt) }},
	{"Sold", func(l *rawmaterial.Lot) any { return date(l.SoldAt) }},
	{"Notes", func(l *rawmaterial.Lot) any { return l.Notes }},
}

// StockColumns lays out active stock lots.
var StockColumns = []Column[*stock.Lot]{
	{"Size", func(l *stock.Lot) any { return l.Size }},
	{"Weight", func(l *stock.Lot) any { return l.Weight }},
	{"Box count", func(l *stock.Lot) any { return l.BoxCount }},
	{"Total", func(l *stock.Lot) any { return l.Total }},
	{"Created", func(l *stock.Lot) any { return date(&l.CreatedAt) }},
	{"Notes", func(l *stock.Lot) any { return l.Notes }},
}
