package middleware

import (
	"github.com/gin-gonic/gin"

	"stockscope/internal/core/security"
)

// RequireRole denies the request unless the caller's role is at least as
// privileged as required. Must run after Auth.
func RequireRole(required security.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := security.Authorize(c.Request.Context(), required); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}
