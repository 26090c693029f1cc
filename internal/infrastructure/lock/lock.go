// Package lock provides accesslog.Locker implementations: a Redis lock for
// multi-replica deployments and a process-local one otherwise.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"stockscope/internal/domain/accesslog"
)

// Redis obtains locks through bsm/redislock.
type Redis struct {
	client *redislock.Client
}

var _ accesslog.Locker = (*Redis)(nil)

// NewRedis creates a Redis locker over rdb.
func NewRedis(rdb redis.UniversalClient) *Redis {
	return &Redis{client: redislock.New(rdb)}
}

// Connect dials addr and checks it with PING.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return rdb, nil
}

// Obtain tries key once. A held key returns accesslog.ErrLocked.
func (r *Redis) Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	l, err := r.client.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, accesslog.ErrLocked
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}
	return func(ctx context.Context) error {
		if err := l.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return err
		}
		return nil
	}, nil
}

// Local serializes holders within one process. Expired keys are taken
// over by the next caller.
type Local struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

var _ accesslog.Locker = (*Local)(nil)

// NewLocal creates a Local locker.
func NewLocal() *Local {
	return &Local{held: make(map[string]time.Time), now: time.Now}
}

func (l *Local) Obtain(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if until, ok := l.held[key]; ok && now.Before(until) {
		return nil, accesslog.ErrLocked
	}
	until := now.Add(ttl)
	l.held[key] = until

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[key].Equal(until) {
			delete(l.held, key)
		}
		return nil
	}, nil
}
