package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/id"
	"stockscope/internal/core/security"
	"stockscope/internal/core/tx"
)

type memRepo struct {
	users map[id.ID]*User
}

func newMemRepo() *memRepo { return &memRepo{users: map[id.ID]*User{}} }

func (r *memRepo) Create(_ context.Context, u *User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memRepo) Update(ctx context.Context, u *User) error { return r.Create(ctx, u) }

func (r *memRepo) Delete(_ context.Context, userID id.ID) error {
	delete(r.users, userID)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, userID id.ID) (*User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID)
	}
	cp := *u
	return &cp, nil
}

func (r *memRepo) GetByLogin(_ context.Context, login string) (*User, error) {
	for _, u := range r.users {
		if u.Username == login || u.Email == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("user", login)
}

func (r *memRepo) taken(match func(*User) bool, except *id.ID) bool {
	for uid, u := range r.users {
		if except != nil && uid == *except {
			continue
		}
		if match(u) {
			return true
		}
	}
	return false
}

func (r *memRepo) EmailTaken(_ context.Context, email string, except *id.ID) (bool, error) {
	return r.taken(func(u *User) bool { return u.Email == email }, except), nil
}

func (r *memRepo) UsernameTaken(_ context.Context, username string, except *id.ID) (bool, error) {
	return r.taken(func(u *User) bool { return u.Username == username }, except), nil
}

func (r *memRepo) List(context.Context) ([]*User, error) {
	out := make([]*User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"secret1", true},
		{"1234567", true},
		{"secret", false},
		{"secretpw", false},
		{"abc12", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := CheckPassword(tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperror.Is(err, apperror.CodeValidation))
			}
		})
	}
}

func TestService_CreateHashesPassword(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(Config{Repo: repo, TxManager: tx.Direct{}})

	u, err := svc.Create(context.Background(), Profile{Username: "ayse", Email: "Ayse@Example.com"}, "secret1", 0)
	require.NoError(t, err)

	assert.Equal(t, security.RoleViewer, u.Role)
	assert.Equal(t, "ayse@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.True(t, u.PasswordMatches("secret1"))
	assert.False(t, u.PasswordMatches("secret2"))
}

func TestService_CreateDuplicateEmail(t *testing.T) {
	svc := NewService(Config{Repo: newMemRepo(), TxManager: tx.Direct{}})
	ctx := context.Background()

	_, err := svc.Create(ctx, Profile{Username: "a", Email: "a@example.com"}, "secret1", security.RoleOperator)
	require.NoError(t, err)

	_, err = svc.Create(ctx, Profile{Username: "b", Email: "a@example.com"}, "secret1", security.RoleOperator)
	assert.True(t, apperror.Is(err, apperror.CodeDuplicate))
}

func TestService_UpdateKeepsPasswordWhenEmpty(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(Config{Repo: repo, TxManager: tx.Direct{}})
	ctx := context.Background()

	u, err := svc.Create(ctx, Profile{Username: "a", Email: "a@example.com"}, "secret1", security.RoleAdmin)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, u.ID, Profile{Username: "a", Email: "a@example.com", Name: "Ali"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Ali", updated.Name)
	assert.True(t, updated.PasswordMatches("secret1"))

	_, err = svc.Update(ctx, u.ID, Profile{Username: "a", Email: "a@example.com"}, "short")
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}

func TestService_SetRole(t *testing.T) {
	svc := NewService(Config{Repo: newMemRepo(), TxManager: tx.Direct{}})
	ctx := context.Background()

	u, err := svc.Create(ctx, Profile{Username: "a", Email: "a@example.com"}, "secret1", security.RoleViewer)
	require.NoError(t, err)

	updated, err := svc.SetRole(ctx, u.ID, security.RoleOperator)
	require.NoError(t, err)
	assert.Equal(t, security.RoleOperator, updated.Role)

	_, err = svc.SetRole(ctx, u.ID, security.Role(9))
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}
