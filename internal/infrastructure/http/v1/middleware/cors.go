package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured origins. An empty list allows every origin
// without credentials.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	cfg.AddAllowHeaders("Authorization", TenantHeader, HeaderRequestID)
	cfg.AddExposeHeaders(HeaderRequestID, HeaderTraceID, "Content-Disposition")
	cfg.MaxAge = 12 * time.Hour
	return cors.New(cfg)
}
