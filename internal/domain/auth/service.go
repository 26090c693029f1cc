package auth

import (
	"context"
	"strings"
	"time"

	"stockscope/internal/core/apperror"
	appctx "stockscope/internal/core/context"
	"stockscope/internal/core/tenant"
	"stockscope/internal/domain/user"
	"stockscope/pkg/logger"
)

// UserFinder looks users up by username or email.
type UserFinder interface {
	GetByLogin(ctx context.Context, login string) (*user.User, error)
}

// Credentials for login. Either Username or Email identifies the user.
type Credentials struct {
	Username string
	Email    string
	Password string
}

// Session is the result of a successful login.
type Session struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      *user.User `json:"user"`
}

// Service authenticates users of the current tenant.
type Service struct {
	users UserFinder
	jwt   *JWTService
}

// NewService creates a new auth service.
func NewService(users UserFinder, jwtService *JWTService) *Service {
	return &Service{users: users, jwt: jwtService}
}

// Login checks credentials and issues a token bound to the tenant in ctx.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	tenantID := tenant.GetTenantID(ctx)
	if tenantID == "" {
		return nil, apperror.NewValidation("tenant is required").WithDetail("header", "X-Tenant-ID")
	}

	login := strings.TrimSpace(creds.Username)
	if login == "" {
		login = strings.ToLower(strings.TrimSpace(creds.Email))
	}
	if login == "" || creds.Password == "" {
		return nil, apperror.NewValidation("username and password are required")
	}

	u, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if apperror.IsNotFound(err) {
			logger.Info(ctx, "login rejected", "login", login, "reason", "unknown user")
			return nil, apperror.NewUnauthorized("Invalid credentials")
		}
		return nil, err
	}
	if !u.PasswordMatches(creds.Password) {
		logger.Info(ctx, "login rejected", "login", login, "reason", "password mismatch")
		return nil, apperror.NewUnauthorized("Invalid credentials")
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(&appctx.UserContext{
		UserID:   u.ID.String(),
		TenantID: tenantID,
		Username: u.Username,
		Email:    u.Email,
		Role:     int(u.Role),
	})
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "user logged in", "user_id", u.ID, "username", u.Username)
	return &Session{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

// Authenticate validates a bearer token for tenantID.
func (s *Service) Authenticate(token, tenantID string) (*appctx.UserContext, error) {
	uc, err := s.jwt.ValidateToken(token, tenantID)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid or expired token").WithCause(err)
	}
	return uc, nil
}
