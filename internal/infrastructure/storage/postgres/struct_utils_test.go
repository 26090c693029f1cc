package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stockscope/internal/core/entity"
	"stockscope/internal/core/id"
)

type testLot struct {
	entity.BaseEntity
	entity.Authored
	Size      string   `db:"size"`
	Weight    string   `db:"weight"`
	BoxCount  float64  `db:"box_count"`
	Purchases []string `db:"-"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[testLot]()

	assert.Equal(t, []string{
		"id", "created_at", "updated_at",
		"created_by", "updated_by",
		"size", "weight", "box_count",
	}, cols)
}

func TestStructToMap(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	user := id.New()
	lot := testLot{
		BaseEntity: entity.BaseEntity{ID: id.New(), CreatedAt: now, UpdatedAt: now},
		Authored:   entity.Authored{CreatedBy: &user},
		Size:       "20x30",
		Weight:     "80",
		BoxCount:   4,
		Purchases:  []string{"ignored"},
	}

	m := StructToMap(&lot)

	assert.Equal(t, lot.ID, m["id"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, &user, m["created_by"])
	assert.Equal(t, "20x30", m["size"])
	assert.Equal(t, 4.0, m["box_count"])
	assert.NotContains(t, m, "purchases")
	assert.Len(t, m, 8)
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap((*testLot)(nil)))
}

func TestPick(t *testing.T) {
	data := map[string]any{"id": 1, "size": "a", "weight": "b", "extra": true}

	got := Pick(data, []string{"id", "size", "weight", "missing"}, "id")

	assert.Equal(t, map[string]any{"size": "a", "weight": "b"}, got)
}
