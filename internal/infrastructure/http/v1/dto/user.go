package dto

import (
	"time"

	"stockscope/internal/core/security"
	"stockscope/internal/domain/user"
)

// CreateUserRequest for creating users.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     int    `json:"role" binding:"omitempty,min=1,max=3"`
}

// Profile converts to the domain profile.
func (r *CreateUserRequest) Profile() user.Profile {
	return user.Profile{Name: r.Name, Surname: r.Surname, Username: r.Username, Email: r.Email}
}

// RoleOrDefault returns the requested role; viewer when unset.
func (r *CreateUserRequest) RoleOrDefault() security.Role {
	if r.Role == 0 {
		return security.RoleViewer
	}
	return security.Role(r.Role)
}

// UpdateUserRequest for updating users. An empty password keeps the
// current one; a missing role keeps the current level.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
	Role     *int   `json:"role" binding:"omitempty,min=1,max=3"`
}

// Profile converts to the domain profile.
func (r *UpdateUserRequest) Profile() user.Profile {
	return user.Profile{Name: r.Name, Surname: r.Surname, Username: r.Username, Email: r.Email}
}

// RoleRequest changes the access level of a user.
type RoleRequest struct {
	Role int `json:"role" binding:"required,min=1,max=3"`
}

// UserResponse represents user in API response.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      int       `json:"role"`
	RoleName  string    `json:"roleName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromUser creates response from domain user.
func FromUser(u *user.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Surname:   u.Surname,
		Username:  u.Username,
		Email:     u.Email,
		Role:      int(u.Role),
		RoleName:  u.Role.String(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FromUsers maps a list of users.
func FromUsers(users []*user.User) []*UserResponse {
	out := make([]*UserResponse, len(users))
	for i, u := range users {
		out[i] = FromUser(u)
	}
	return out
}
