package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"stockscope/internal/core/entity"
	"stockscope/internal/domain/stock"
)

func TestWrite_Stock(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	lots := []*stock.Lot{
		{BaseEntity: entity.BaseEntity{CreatedAt: created}, Size: "30x40", Weight: 5, BoxCount: 3, Total: 300, Notes: "rush"},
		{BaseEntity: entity.BaseEntity{CreatedAt: created}, Size: "50x60", Weight: 7, BoxCount: 1, Total: 40},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "Stock", StockColumns, lots))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Stock")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Size", "Weight", "Box count", "Total", "Created", "Notes"}, rows[0])
	assert.Equal(t, []string{"30x40", "5", "3", "300", "2024-05-01 09:30", "rush"}, rows[1])
	assert.Equal(t, "50x60", rows[2][0])
}

func TestWrite_EmptyRowsKeepsHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "Raw", RawMaterialColumns, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Raw")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(RawMaterialColumns))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "stocks-2024-05-01.xlsx", Filename("stocks", time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)))
}
