// Package main provides a CLI tool for seeding tenant databases with an
// initial administrator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"stockscope/internal/config"
	"stockscope/internal/core/apperror"
	"stockscope/internal/core/security"
	"stockscope/internal/core/tenant"
	"stockscope/internal/domain/user"
	"stockscope/internal/infrastructure/storage/postgres"
	"stockscope/internal/infrastructure/storage/postgres/inventory_repo"
	"stockscope/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	admin := user.Profile{
		Name:     "System",
		Surname:  "Admin",
		Username: getEnv("ADMIN_USERNAME", "admin"),
		Email:    getEnv("ADMIN_EMAIL", "admin@stockscope.local"),
	}
	password := getEnv("ADMIN_PASSWORD", "Admin1234")

	ctx := logger.WithLogger(context.Background(), log)
	manager := tenant.NewManager(cfg.ManagerConfig(), cfg.Tenants, log)
	defer manager.Close()

	users := user.NewService(user.Config{Repo: inventory_repo.NewUserRepo()})

	err = manager.ForEachActive(ctx, func(ctx context.Context, t *tenant.Tenant, pool *pgxpool.Pool) error {
		ctx = tenant.WithPool(ctx, pool)
		ctx = tenant.WithTxManager(ctx, postgres.NewTxManager(pool))

		u, err := users.Create(ctx, admin, password, security.RoleAdmin)
		if apperror.Is(err, apperror.CodeDuplicate) {
			log.Infow("admin user already exists", "tenant_id", t.ID, "username", admin.Username)
			return nil
		}
		if err != nil {
			return err
		}
		log.Infow("admin user created", "tenant_id", t.ID, "user_id", u.ID)
		return nil
	})
	if err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	log.Info("seeding completed successfully")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
