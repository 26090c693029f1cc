package dto

import (
	"time"

	"stockscope/internal/domain/auth"
)

// LoginRequest for user login. Either username or email identifies the user.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required"`
}

// ToCredentials converts to domain credentials.
func (r *LoginRequest) ToCredentials() auth.Credentials {
	return auth.Credentials{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
	}
}

// LoginResponse carries the access token and the logged in user.
type LoginResponse struct {
	Message   string        `json:"message"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      *UserResponse `json:"user"`
}

// FromSession creates response from a domain session.
func FromSession(s *auth.Session) LoginResponse {
	return LoginResponse{
		Message:   "Login successful",
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User:      FromUser(s.User),
	}
}
