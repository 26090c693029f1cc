// Package middleware provides HTTP middleware components.
package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	appctx "stockscope/internal/core/context"
	"stockscope/pkg/logger"
)

// Recovery turns a handler panic into a 500 with the usual {message}
// body. The panic value and stack go to the log only.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			ctx := c.Request.Context()
			logger.Error(ctx, "panic recovered",
				"panic", rec,
				"method", c.Request.Method,
				"path", c.FullPath(),
				"request_id", appctx.GetRequestID(ctx),
				"stack", string(debug.Stack()),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}()
		c.Next()
	}
}
