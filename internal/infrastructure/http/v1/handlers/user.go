package handlers

import (
	"github.com/gin-gonic/gin"

	"stockscope/internal/core/security"
	"stockscope/internal/domain/user"
	"stockscope/internal/infrastructure/http/v1/dto"
)

// UserHandler handles user management. All routes require the admin role.
type UserHandler struct {
	*BaseHandler
	service *user.Service
}

// NewUserHandler creates a new user handler.
func NewUserHandler(base *BaseHandler, service *user.Service) *UserHandler {
	return &UserHandler{BaseHandler: base, service: service}
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromUsers(users))
}

// Create handles POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}
	u, err := h.service.Create(c.Request.Context(), req.Profile(), req.Password, req.RoleOrDefault())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, "User created", "user", dto.FromUser(u))
}

// Get handles GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	u, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromUser(u))
}

// Update handles PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	u, err := h.service.Update(ctx, userID, req.Profile(), req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}
	if req.Role != nil && security.Role(*req.Role) != u.Role {
		if u, err = h.service.SetRole(ctx, userID, security.Role(*req.Role)); err != nil {
			h.Error(c, err)
			return
		}
	}
	h.Changed(c, "User updated", "user", dto.FromUser(u))
}

// SetRole handles PATCH /users/:id/role
func (h *UserHandler) SetRole(c *gin.Context) {
	userID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.RoleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	u, err := h.service.SetRole(c.Request.Context(), userID, security.Role(req.Role))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Changed(c, "User role updated", "user", dto.FromUser(u))
}

// Delete handles DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), userID); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "User deleted"})
}

// RegisterRoutes registers user routes.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.PATCH("/:id/role", h.SetRole)
	rg.DELETE("/:id", h.Delete)
}
