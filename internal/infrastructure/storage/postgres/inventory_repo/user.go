package inventory_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"stockscope/internal/core/id"
	"stockscope/internal/domain/user"
)

// UserRepo implements user.Repository.
type UserRepo struct {
	t table[user.User]
}

// NewUserRepo creates a UserRepo.
func NewUserRepo() *UserRepo {
	return &UserRepo{t: newTable[user.User]("users", "user")}
}

var _ user.Repository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	return r.t.insert(ctx, u)
}

func (r *UserRepo) Update(ctx context.Context, u *user.User) error {
	return r.t.update(ctx, u.ID, u)
}

func (r *UserRepo) Delete(ctx context.Context, userID id.ID) error {
	return r.t.delete(ctx, userID)
}

func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*user.User, error) {
	return r.t.getByID(ctx, userID, false)
}

func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*user.User, error) {
	q := r.t.baseSelect().Where(squirrel.Or{
		squirrel.Eq{"username": login},
		squirrel.Eq{"email": login},
	})
	return r.t.getOne(ctx, q, login)
}

func (r *UserRepo) taken(ctx context.Context, column, value string, except *id.ID) (bool, error) {
	q := builder().Select("1").From(r.t.name).Where(squirrel.Eq{column: value}).Limit(1)
	if except != nil {
		q = q.Where(squirrel.NotEq{"id": *except})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return false, err
	}
	return exists(ctx, sql, args)
}

func (r *UserRepo) EmailTaken(ctx context.Context, email string, except *id.ID) (bool, error) {
	return r.taken(ctx, "email", email, except)
}

func (r *UserRepo) UsernameTaken(ctx context.Context, username string, except *id.ID) (bool, error) {
	return r.taken(ctx, "username", username, except)
}

func (r *UserRepo) List(ctx context.Context) ([]*user.User, error) {
	return r.t.selectAll(ctx, r.t.baseSelect().OrderBy("username ASC"))
}
