package v1

import (
	"github.com/gin-gonic/gin"
)

// ResourceHandler registers the routes of one resource on its group.
type ResourceHandler interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// registerResource mounts handler under path. analysis, when set, is
// mounted under path/analysis before the handler's :id routes.
//
// Usage:
//
//	registerResource(protected, "/stocks", stockHandler, analyticsHandler.RegisterStockRoutes)
func registerResource(rg *gin.RouterGroup, path string, handler ResourceHandler, analysis func(*gin.RouterGroup)) {
	group := rg.Group(path)
	if analysis != nil {
		analysis(group.Group("/analysis"))
	}
	handler.RegisterRoutes(group)
}
