package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"stockscope/internal/core/apperror"
	appctx "stockscope/internal/core/context"
	"stockscope/internal/core/tenant"
)

// Authenticator validates a bearer token for the tenant of the request.
// Implemented by *auth.Service.
type Authenticator interface {
	Authenticate(token, tenantID string) (*appctx.UserContext, error)
}

// Auth middleware validates JWT tokens and populates user context.
// A token issued for another tenant is rejected with 401.
func Auth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		user, err := authn.Authenticate(strings.TrimSpace(parts[1]), tenant.GetTenantID(c.Request.Context()))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)
		c.Set("user_id", user.UserID)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
