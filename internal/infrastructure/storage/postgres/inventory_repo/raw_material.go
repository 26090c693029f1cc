package inventory_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"stockscope/internal/core/id"
	"stockscope/internal/domain/rawmaterial"
)

// RawMaterialRepo implements rawmaterial.Repository.
type RawMaterialRepo struct {
	t table[rawmaterial.Lot]
}

// NewRawMaterialRepo creates a RawMaterialRepo.
func NewRawMaterialRepo() *RawMaterialRepo {
	return &RawMaterialRepo{t: newTable[rawmaterial.Lot]("raw_materials", "raw material")}
}

var _ rawmaterial.Repository = (*RawMaterialRepo)(nil)

func (r *RawMaterialRepo) Create(ctx context.Context, lot *rawmaterial.Lot) error {
	return r.t.insert(ctx, lot)
}

func (r *RawMaterialRepo) Update(ctx context.Context, lot *rawmaterial.Lot) error {
	return r.t.update(ctx, lot.ID, lot)
}

func (r *RawMaterialRepo) Delete(ctx context.Context, lotID id.ID) error {
	return r.t.delete(ctx, lotID)
}

func (r *RawMaterialRepo) GetByID(ctx context.Context, lotID id.ID) (*rawmaterial.Lot, error) {
	return r.t.getByID(ctx, lotID, false)
}

func (r *RawMaterialRepo) GetForUpdate(ctx context.Context, lotID id.ID) (*rawmaterial.Lot, error) {
	return r.t.getByID(ctx, lotID, true)
}

// listQuery builds the filtered select of q without paging.
func (r *RawMaterialRepo) listQuery(q rawmaterial.ListQuery) squirrel.SelectBuilder {
	sel := r.t.baseSelect()
	switch q.View {
	case rawmaterial.ViewActive:
		sel = sel.Where(squirrel.Eq{"status": rawmaterial.StatusActive})
	case rawmaterial.ViewPassive:
		sel = sel.Where(squirrel.Eq{"status": rawmaterial.StatusPassive})
	}
	return applyCriteria(sel, q.Criteria, "notes", q.Notes)
}

func (r *RawMaterialRepo) List(ctx context.Context, q rawmaterial.ListQuery) ([]*rawmaterial.Lot, int64, error) {
	return page[*rawmaterial.Lot](ctx, r.listQuery(q), "created_at DESC, id DESC", q.Page)
}

func (r *RawMaterialRepo) ListBySupplierCode(ctx context.Context, code string) ([]*rawmaterial.Lot, error) {
	return r.t.selectAll(ctx, r.t.baseSelect().
		Where(squirrel.Eq{"supplier_code": code}).
		OrderBy("created_at DESC"))
}

func (r *RawMaterialRepo) Distinct(ctx context.Context, column string, name *string) ([]any, error) {
	var where squirrel.Sqlizer
	if name != nil {
		where = squirrel.Eq{"name": *name}
	}
	return distinct[any](ctx, r.t.name, column, where)
}

func (r *RawMaterialRepo) ExistsActive(ctx context.Context, p rawmaterial.Properties) (bool, error) {
	sql, args, err := builder().Select("1").From(r.t.name).
		Where(squirrel.Eq{
			"status":              rawmaterial.StatusActive,
			"name":                p.Name,
			"supplier_code":       p.SupplierCode,
			"type":                p.Type,
			"grammage":            p.Grammage,
			"total_bobbin_weight": p.TotalBobbinWeight,
			"meter_length":        p.MeterLength,
			"bobbin_count":        p.BobbinCount,
			"bobbin_height":       p.BobbinHeight,
			"bobbin_diameter":     p.BobbinDiameter,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, err
	}
	return exists(ctx, sql, args)
}
