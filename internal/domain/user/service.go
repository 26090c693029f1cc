package user

import (
	"context"
	"time"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/entity"
	"stockscope/internal/core/id"
	"stockscope/internal/core/security"
	"stockscope/internal/core/tx"
	"stockscope/internal/domain"
	"stockscope/pkg/logger"
)

// Config wires a Service.
type Config struct {
	Repo      Repository
	TxManager tx.Manager
	Now       func() time.Time
}

// Service implements user management.
type Service struct {
	repo Repository
	txs  domain.TxSource
	now  func() time.Time
}

// NewService creates a Service.
func NewService(cfg Config) *Service {
	now := cfg.Now
	if now == nil {
		now = entity.Now
	}
	return &Service{repo: cfg.Repo, txs: domain.TxSource{TxManager: cfg.TxManager}, now: now}
}

func (s *Service) checkUnique(ctx context.Context, u *User, except *id.ID) error {
	taken, err := s.repo.EmailTaken(ctx, u.Email, except)
	if err != nil {
		return err
	}
	if taken {
		return apperror.NewDuplicate("user", "email", u.Email)
	}
	taken, err = s.repo.UsernameTaken(ctx, u.Username, except)
	if err != nil {
		return err
	}
	if taken {
		return apperror.NewDuplicate("user", "username", u.Username)
	}
	return nil
}

// Create registers a user. Role defaults to viewer.
func (s *Service) Create(ctx context.Context, p Profile, password string, role security.Role) (*User, error) {
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}
	if role == 0 {
		role = security.RoleViewer
	}
	if !role.Valid() {
		return nil, apperror.NewValidation("invalid role").WithDetail("field", "role")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{BaseEntity: entity.NewBaseEntity(s.now()), PasswordHash: hash, Role: role}
	u.apply(p)

	err = s.txs.InTx(ctx, func(ctx context.Context) error {
		if err := s.checkUnique(ctx, u, nil); err != nil {
			return err
		}
		return s.repo.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user created", "user_id", u.ID, "username", u.Username, "role", u.Role)
	return u, nil
}

// Update replaces the profile and, when password is not empty, the
// password hash.
func (s *Service) Update(ctx context.Context, userID id.ID, p Profile, password string) (*User, error) {
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}
	var hash string
	if password != "" {
		var err error
		if hash, err = HashPassword(password); err != nil {
			return nil, err
		}
	}

	var u *User
	err := s.txs.InTx(ctx, func(ctx context.Context) error {
		var err error
		if u, err = s.repo.GetByID(ctx, userID); err != nil {
			return err
		}
		u.apply(p)
		if err := s.checkUnique(ctx, u, &userID); err != nil {
			return err
		}
		if hash != "" {
			u.PasswordHash = hash
		}
		u.Touch(s.now())
		return s.repo.Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// SetRole changes the access level of a user.
func (s *Service) SetRole(ctx context.Context, userID id.ID, role security.Role) (*User, error) {
	if !role.Valid() {
		return nil, apperror.NewValidation("invalid role").WithDetail("field", "role")
	}
	var u *User
	err := s.txs.InTx(ctx, func(ctx context.Context) error {
		var err error
		if u, err = s.repo.GetByID(ctx, userID); err != nil {
			return err
		}
		u.Role = role
		u.Touch(s.now())
		return s.repo.Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "user role changed", "user_id", userID, "role", role)
	return u, nil
}

// Delete removes a user.
func (s *Service) Delete(ctx context.Context, userID id.ID) error {
	return s.txs.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, userID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, userID)
	})
}

// Get returns a user.
func (s *Service) Get(ctx context.Context, userID id.ID) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}
