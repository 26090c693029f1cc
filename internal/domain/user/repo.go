package user

import (
	"context"

	"stockscope/internal/core/id"
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, userID id.ID) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	// GetByLogin finds a user whose username or email equals login.
	GetByLogin(ctx context.Context, login string) (*User, error)
	// EmailTaken reports whether another user than except owns email.
	EmailTaken(ctx context.Context, email string, except *id.ID) (bool, error)
	UsernameTaken(ctx context.Context, username string, except *id.ID) (bool, error)
	List(ctx context.Context) ([]*User, error)
}
