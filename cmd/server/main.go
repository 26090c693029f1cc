// Package main is the entry point for the StockScope API server.
// Multi-tenant architecture: Database-per-Tenant.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"stockscope/internal/config"
	"stockscope/internal/core/tenant"
	"stockscope/internal/domain/accesslog"
	"stockscope/internal/domain/auth"
	filesink "stockscope/internal/infrastructure/accesslog"
	v1 "stockscope/internal/infrastructure/http/v1"
	"stockscope/internal/infrastructure/metrics"
	"stockscope/internal/infrastructure/storage/postgres"
	"stockscope/pkg/logger"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()
	log.Infow("starting stockscope server", "version", version, "tenants", len(cfg.Tenants))

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalw("invalid timezone", "error", err)
	}

	// --- Tenant Manager ---
	managerCfg := cfg.ManagerConfig()
	tenantManager := tenant.NewManager(managerCfg, cfg.Tenants, log)
	defer tenantManager.Close()

	log.Infow("tenant manager initialized",
		"tenants", len(cfg.Tenants),
		"max_conns_per_tenant", managerCfg.MaxConnsPerTenant,
		"idle_timeout", managerCfg.PoolIdleTimeout,
	)

	if cfg.Database.AutoMigrate {
		err := tenantManager.ForEachActive(ctx, func(ctx context.Context, t *tenant.Tenant, pool *pgxpool.Pool) error {
			log.Infow("migrating tenant database", "tenant_id", t.ID, "db", t.DBName)
			return postgres.Migrate(ctx, pool, "up")
		})
		if err != nil {
			log.Fatalw("failed to migrate tenant databases", "error", err)
		}
	}

	if cfg.Database.PrewarmPools {
		log.Info("prewarming tenant pools...")
		if err := tenantManager.PrewarmPools(ctx); err != nil {
			log.Warnw("failed to prewarm some pools", "error", err)
		}
	}

	// --- JWT Service ---
	jwtConfig := auth.DefaultJWTConfig(cfg.Auth.JWTSecret)
	if cfg.Auth.TokenTTL > 0 {
		jwtConfig.AccessTokenTTL = cfg.Auth.TokenTTL
	}
	jwtService := auth.NewJWTService(jwtConfig)

	// --- Access log ---
	sink, err := filesink.NewFileSink(filesink.FileSinkConfig{
		Path:    cfg.AccessLog.Path,
		MaxSize: cfg.AccessLog.MaxSizeMB << 20,
	})
	if err != nil {
		log.Fatalw("failed to open access log", "error", err)
	}
	defer sink.Close()

	rules := append(append([]accesslog.Rule{}, accesslog.DefaultRules...), cfg.AccessLog.Annotations...)
	annotator, err := accesslog.NewAnnotator(rules)
	if err != nil {
		log.Fatalw("invalid access log annotations", "error", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		TenantManager: tenantManager,
		Logger:        log,
		JWT:           jwtService,
		AccessLog:     sink,
		Annotator:     annotator,
		Metrics:       m,
		CORSOrigins:   cfg.HTTP.CORSOrigins,
		Between:       cfg.Filter.BetweenPolicy,
		Location:      loc,
		Version:       version,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
