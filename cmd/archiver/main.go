// Package main is the StockScope access log archiver. Once a day it copies
// the new entries of every tenant from the live access log into the
// tenant's access_logs table.
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
	filesink "stockscope/internal/infrastructure/accesslog"
	"stockscope/internal/infrastructure/lock"
	"stockscope/internal/infrastructure/metrics"
	"stockscope/internal/infrastructure/storage/postgres"
	"stockscope/internal/infrastructure/storage/postgres/inventory_repo"
	"stockscope/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	once := flag.Bool("once", false, "archive once and exit")
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

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx = logger.WithLogger(ctx, log)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalw("invalid timezone", "error", err)
	}
	runAt, _ := cfg.DailyAt()

	managerCfg := cfg.ManagerConfig()
	managerCfg.PoolIdleTimeout = 10 * time.Minute
	manager := tenant.NewManager(managerCfg, cfg.Tenants, log)
	defer manager.Close()

	sink, err := filesink.NewFileSink(filesink.FileSinkConfig{Path: cfg.AccessLog.Path})
	if err != nil {
		log.Fatalw("failed to open access log", "error", err)
	}
	defer sink.Close()

	var locker accesslog.Locker = lock.NewLocal()
	if cfg.Redis.Addr != "" {
		rdb, err := lock.Connect(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatalw("failed to connect to redis", "error", err)
		}
		defer rdb.Close()
		locker = lock.NewRedis(rdb)
	}

	var recorder accesslog.ArchiveRecorder
	if cfg.Metrics.Enabled {
		m := metrics.New()
		recorder = m
		if cfg.Metrics.Addr != "" {
			srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("metrics server failed", "error", err)
				}
			}()
			defer srv.Close()
		}
	}

	w := &worker{
		manager:  manager,
		sink:     sink,
		locker:   locker,
		recorder: recorder,
		lockTTL:  cfg.Archiver.LockTTL,
		log:      log.WithComponent("archiver"),
	}

	if *once {
		if err := w.archiveAll(ctx); err != nil {
			log.Fatalw("archive failed", "error", err)
		}
		return
	}

	log.Infow("archiver started", "run_at", cfg.Archiver.RunAt, "timezone", loc.String())
	for {
		wait := time.Until(nextRun(time.Now(), loc, runAt))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("archiver stopped")
			return
		case <-timer.C:
			if err := w.archiveAll(ctx); err != nil {
				log.Errorw("archive run failed", "error", err)
			}
		}
	}
}

type worker struct {
	manager  *tenant.Manager
	sink     accesslog.Sink
	locker   accesslog.Locker
	recorder accesslog.ArchiveRecorder
	lockTTL  time.Duration
	log      *logger.Logger
}

// archiveAll archives every active tenant. A tenant whose lock is held by
// another archiver is skipped. When every tenant archived, the rotated
// sink files older than the run start are pruned.
func (w *worker) archiveAll(ctx context.Context) error {
	started := time.Now()
	store := inventory_repo.NewAccessLogStore()
	skipped := 0
	err := w.manager.ForEachActive(ctx, func(ctx context.Context, t *tenant.Tenant, pool *pgxpool.Pool) error {
		txm := postgres.NewTxManager(pool)
		ctx = tenant.WithPool(ctx, pool)
		ctx = tenant.WithTxManager(ctx, txm)

		a := &accesslog.Archiver{
			Sink:      w.sink,
			Store:     store,
			Locker:    w.locker,
			TxManager: txm,
			Recorder:  w.recorder,
			LockTTL:   w.lockTTL,
		}
		inserted, err := a.Run(ctx, t.ID)
		if errors.Is(err, accesslog.ErrLocked) {
			w.log.Infow("archive skipped, lock held elsewhere", "tenant_id", t.ID)
			skipped++
			return nil
		}
		if err != nil {
			return err
		}
		w.log.Debugw("tenant archived", "tenant_id", t.ID, "inserted", inserted)
		return nil
	})
	if err != nil || skipped > 0 {
		return err
	}
	return w.prune(ctx, started)
}

// prune drops rotated sink files every tenant has archived.
func (w *worker) prune(ctx context.Context, before time.Time) error {
	p, ok := w.sink.(accesslog.Pruner)
	if !ok {
		return nil
	}
	removed, err := p.Prune(ctx, before)
	if err != nil {
		return fmt.Errorf("prune access log archives: %w", err)
	}
	if removed > 0 {
		w.log.Infow("access log archives pruned", "removed", removed)
	}
	return nil
}

// nextRun returns the first moment after now that is offset past midnight
// in loc.
func nextRun(now time.Time, loc *time.Location, offset time.Duration) time.Time {
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	next := midnight.Add(offset)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc).Add(offset)
	}
	return next
}
