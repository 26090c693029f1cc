package inventory_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"stockscope/internal/core/id"
	"stockscope/internal/domain/supplier"
)

// SupplierRepo implements supplier.Repository. The unique index on code
// turns duplicates into Conflict errors through MapError.
type SupplierRepo struct {
	t table[supplier.Supplier]
}

// NewSupplierRepo creates a SupplierRepo.
func NewSupplierRepo() *SupplierRepo {
	return &SupplierRepo{t: newTable[supplier.Supplier]("suppliers", "supplier")}
}

var _ supplier.Repository = (*SupplierRepo)(nil)

func (r *SupplierRepo) Create(ctx context.Context, s *supplier.Supplier) error {
	return r.t.insert(ctx, s)
}

func (r *SupplierRepo) Update(ctx context.Context, s *supplier.Supplier) error {
	return r.t.update(ctx, s.ID, s)
}

func (r *SupplierRepo) Delete(ctx context.Context, supplierID id.ID) error {
	return r.t.delete(ctx, supplierID)
}

func (r *SupplierRepo) GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	return r.t.getByID(ctx, supplierID, false)
}

func (r *SupplierRepo) GetForUpdate(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	return r.t.getByID(ctx, supplierID, true)
}

func (r *SupplierRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	sql, args, err := builder().Select("1").From(r.t.name).
		Where(squirrel.Eq{"code": code}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, err
	}
	return exists(ctx, sql, args)
}

func (r *SupplierRepo) List(ctx context.Context, q supplier.ListQuery) ([]*supplier.Supplier, int64, error) {
	sel := applyCriteria(r.t.baseSelect(), q.Criteria, "notes", q.Notes)
	orderBy := "name ASC"
	if q.Sort != supplier.SortNone {
		orderBy = "created_at " + sortDirection(string(q.Sort))
	}
	return page[*supplier.Supplier](ctx, sel, orderBy, q.Page)
}
