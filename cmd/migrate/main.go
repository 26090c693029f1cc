// Package main applies the embedded goose migrations to tenant databases.
//
// Usage:
//
//	migrate [-config path] [-tenant id] up|down|status|version|redo
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"stockscope/internal/config"
	"stockscope/internal/core/tenant"
	"stockscope/internal/infrastructure/storage/postgres"
	"stockscope/pkg/logger"
)

var commands = map[string]bool{
	"up":        true,
	"up-by-one": true,
	"down":      true,
	"redo":      true,
	"status":    true,
	"version":   true,
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	tenantID := flag.String("tenant", "", "migrate only this tenant (default: all active)")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 || !commands[flag.Arg(0)] {
		printUsage()
		os.Exit(1)
	}
	command := flag.Arg(0)

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.App.LogLevel, Development: true})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	manager := tenant.NewManager(cfg.ManagerConfig(), cfg.Tenants, log)
	defer manager.Close()

	run := func(ctx context.Context, t *tenant.Tenant, pool *pgxpool.Pool) error {
		fmt.Printf("==> %s (%s)\n", t.Slug, t.DBName)
		return postgres.Migrate(ctx, pool, command, flag.Args()[1:]...)
	}

	if *tenantID != "" {
		mp, err := manager.GetPool(ctx, *tenantID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		err = run(tenant.WithTenant(ctx, mp.Tenant()), mp.Tenant(), mp.Pool())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := manager.ForEachActive(ctx, run); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Done.")
}

func printUsage() {
	fmt.Println(`StockScope migration CLI

Usage:
  migrate [-config path] [-tenant id] <command>

Commands:
  up         Apply all pending migrations
  up-by-one  Apply the next migration
  down       Roll back the latest migration
  redo       Roll back and reapply the latest migration
  status     Print migration status
  version    Print the current version

Examples:
  migrate up
  migrate -tenant main status`)
}
