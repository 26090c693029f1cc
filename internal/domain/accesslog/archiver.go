package accesslog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockscope/internal/core/tx"
	"stockscope/internal/domain"
	"stockscope/pkg/logger"
)

// ErrLocked is returned when another process holds the archive lock of
// the tenant.
var ErrLocked = errors.New("access log archive already running")

// Locker serializes archive runs across processes.
type Locker interface {
	// Obtain acquires key for ttl. It returns ErrLocked when the key is
	// held elsewhere.
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

// ArchiveRecorder observes archived entry counts.
type ArchiveRecorder interface {
	ObserveArchived(tenantID string, inserted int64, err error)
}

// Archiver copies new live entries of a tenant into its archive.
type Archiver struct {
	Sink      Sink
	Store     Store
	Locker    Locker
	TxManager tx.Manager
	Recorder  ArchiveRecorder
	LockTTL   time.Duration
}

// Run archives the entries of tenantID newer than the archive marker and
// advances the marker to the newest one. Insert and marker update commit
// together.
func (a *Archiver) Run(ctx context.Context, tenantID string) (int64, error) {
	inserted, err := a.run(ctx, tenantID)
	if a.Recorder != nil {
		a.Recorder.ObserveArchived(tenantID, inserted, err)
	}
	return inserted, err
}

func (a *Archiver) run(ctx context.Context, tenantID string) (int64, error) {
	ttl := a.LockTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	release, err := a.Locker.Obtain(ctx, "stockscope:archive:"+tenantID, ttl)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logger.Warn(ctx, "release archive lock", "tenant_id", tenantID, "error", err)
		}
	}()

	all, err := a.Sink.ReadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("read access log: %w", err)
	}

	var inserted int64
	txs := domain.TxSource{TxManager: a.TxManager}
	err = txs.InTx(ctx, func(ctx context.Context) error {
		marker, err := a.Store.LastArchived(ctx)
		if err != nil {
			return fmt.Errorf("read archive marker: %w", err)
		}

		fresh, newest := newerThan(all, tenantID, marker)
		if len(fresh) == 0 {
			return nil
		}
		if inserted, err = a.Store.Insert(ctx, fresh); err != nil {
			return fmt.Errorf("insert entries: %w", err)
		}
		return a.Store.SetLastArchived(ctx, newest)
	})
	if err != nil {
		return 0, err
	}

	logger.Info(ctx, "access log archived", "tenant_id", tenantID, "inserted", inserted)
	return inserted, nil
}

// newerThan returns the entries of tenantID after marker and the newest
// timestamp among them. Timestamps are compared at microsecond precision,
// the precision the marker is stored at.
func newerThan(all []Entry, tenantID string, marker time.Time) ([]Entry, time.Time) {
	var (
		out    []Entry
		newest time.Time
	)
	marker = marker.Truncate(time.Microsecond)
	for _, e := range all {
		ts := e.Timestamp.Truncate(time.Microsecond)
		if e.Tenant != tenantID || !ts.After(marker) {
			continue
		}
		out = append(out, e)
		if ts.After(newest) {
			newest = ts
		}
	}
	return out, newest
}
