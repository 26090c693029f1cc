// Package v1 provides HTTP API version 1.
package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockscope/internal/core/security"
	"stockscope/internal/core/tenant"
	"stockscope/internal/domain/accesslog"
	"stockscope/internal/domain/analytics"
	"stockscope/internal/domain/auth"
	"stockscope/internal/domain/customer"
	"stockscope/internal/domain/filter"
	"stockscope/internal/domain/rawmaterial"
	"stockscope/internal/domain/stock"
	"stockscope/internal/domain/supplier"
	"stockscope/internal/domain/transfer"
	"stockscope/internal/domain/user"
	"stockscope/internal/infrastructure/http/v1/handlers"
	"stockscope/internal/infrastructure/http/v1/middleware"
	"stockscope/internal/infrastructure/metrics"
	"stockscope/internal/infrastructure/storage/postgres/inventory_repo"
	"stockscope/pkg/logger"
)

// RouterConfig holds router configuration for multi-tenant architecture.
type RouterConfig struct {
	// TenantManager manages database connections for all tenants
	TenantManager *tenant.Manager

	// Logger for request logging
	Logger *logger.Logger

	// JWT issues and validates access tokens
	JWT *auth.JWTService

	// AccessLog receives every mutating request; Annotator adds details
	AccessLog accesslog.Sink
	Annotator *accesslog.Annotator

	// Metrics is optional; nil disables /metrics
	Metrics *metrics.Metrics

	CORSOrigins []string
	Between     filter.BetweenPolicy
	Location    *time.Location
	Version     string
}

// services are stateless; repositories resolve the tenant database from
// the request context.
type services struct {
	auth      *auth.Service
	users     *user.Service
	raw       *rawmaterial.Service
	stock     *stock.Service
	customers *customer.Service
	suppliers *supplier.Service
	transfers *transfer.Service
	analytics *analytics.Service
	logs      *accesslog.Service
}

func newServices(cfg RouterConfig) services {
	rawRepo := inventory_repo.NewRawMaterialRepo()
	stockRepo := inventory_repo.NewStockRepo()
	customerRepo := inventory_repo.NewCustomerRepo()
	supplierRepo := inventory_repo.NewSupplierRepo()
	userRepo := inventory_repo.NewUserRepo()

	var recorder transfer.Recorder
	if cfg.Metrics != nil {
		recorder = cfg.Metrics
	}

	raw := rawmaterial.NewService(rawmaterial.Config{
		Repo:      rawRepo,
		Suppliers: supplierRepo,
		Between:   cfg.Between,
		Location:  cfg.Location,
	})

	return services{
		auth:  auth.NewService(userRepo, cfg.JWT),
		users: user.NewService(user.Config{Repo: userRepo}),
		raw:   raw,
		stock: stock.NewService(stock.Config{
			Repo:     stockRepo,
			Between:  cfg.Between,
			Location: cfg.Location,
		}),
		customers: customer.NewService(customer.Config{Repo: customerRepo}),
		suppliers: supplier.NewService(supplier.Config{Repo: supplierRepo, Lots: raw}),
		transfers: transfer.NewService(transfer.Config{
			RawLots:   rawRepo,
			StockLots: stockRepo,
			Customers: customerRepo,
			Recorder:  recorder,
		}),
		analytics: analytics.NewService(inventory_repo.NewAnalyticsRepo(), cfg.Location, nil),
		logs:      accesslog.NewService(cfg.AccessLog, inventory_repo.NewAccessLogStore()),
	}
}

// NewRouter creates and configures the Gin router for multi-tenant architecture.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
	}
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.AccessLog(cfg.AccessLog, cfg.Annotator))
	router.Use(middleware.ErrorHandler())

	// Health and metrics endpoints (no auth, no tenant required)
	healthHandler := handlers.NewHealthHandler(cfg.TenantManager, cfg.Version)
	router.GET("/health", healthHandler.Live)
	router.GET("/health/ready", healthHandler.Ready)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})

	svc := newServices(cfg)
	base := handlers.NewBaseHandler()

	api := router.Group("/api")
	tenantDB := middleware.TenantDB(cfg.TenantManager)

	// Login needs the tenant database but no token
	handlers.NewAuthHandler(base, svc.auth).RegisterRoutes(api.Group("/auth", tenantDB))

	// Protected endpoints - TenantDB runs first, then Auth
	protected := api.Group("", tenantDB, middleware.Auth(svc.auth))

	admin := protected.Group("", middleware.RequireRole(security.RoleAdmin))
	admin.GET("/health/tenants", healthHandler.Tenants)
	handlers.NewUserHandler(base, svc.users).RegisterRoutes(admin.Group("/users"))

	analyticsHandler := handlers.NewAnalyticsHandler(base, svc.analytics)

	registerResource(protected, "/rawMaterials",
		handlers.NewRawMaterialHandler(base, svc.raw, svc.transfers), analyticsHandler.RegisterRawRoutes)
	registerResource(protected, "/stocks",
		handlers.NewStockHandler(base, svc.stock, svc.transfers), analyticsHandler.RegisterStockRoutes)
	registerResource(protected, "/suppliers",
		handlers.NewSupplierHandler(base, svc.suppliers), analyticsHandler.RegisterSupplierRoutes)
	registerResource(protected, "/customers",
		handlers.NewCustomerHandler(base, svc.customers, svc.transfers), nil)

	handlers.NewAccessLogHandler(base, svc.logs).RegisterRoutes(protected)

	return router
}
