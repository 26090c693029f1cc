package tenant

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"stockscope/pkg/logger"
)

// ManagerConfig configures the pools opened for tenant databases.
type ManagerConfig struct {
	// Credentials shared by all tenant databases.
	DBUser     string
	DBPassword string
	SSLMode    string

	MaxConnsPerTenant int32
	MinConnsPerTenant int32
	ConnectTimeout    time.Duration

	// PoolIdleTimeout closes a pool nobody used for that long. Zero keeps
	// pools open until Close.
	PoolIdleTimeout time.Duration
	// HealthCheckPeriod is handed to pgxpool, which pings and replaces
	// broken connections on its own.
	HealthCheckPeriod time.Duration
}

// DefaultManagerConfig returns production-safe defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		MaxConnsPerTenant: 10,
		MinConnsPerTenant: 2,
		ConnectTimeout:    10 * time.Second,
		PoolIdleTimeout:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,
	}
}

// ManagedPool is the pool of one tenant database with usage tracking.
type ManagedPool struct {
	pool     *pgxpool.Pool
	tenant   *Tenant
	lastUsed atomic.Int64 // unix seconds
	refCount atomic.Int32
}

func (mp *ManagedPool) touch() {
	mp.lastUsed.Store(time.Now().Unix())
}

// Pool returns the underlying pgx pool.
func (mp *ManagedPool) Pool() *pgxpool.Pool {
	return mp.pool
}

// Tenant returns the tenant the pool belongs to.
func (mp *ManagedPool) Tenant() *Tenant {
	return mp.tenant
}

// AcquireRef marks the pool as in use. An in-use pool is never closed for
// idleness.
func (mp *ManagedPool) AcquireRef() {
	mp.refCount.Add(1)
}

// ReleaseRef undoes AcquireRef.
func (mp *ManagedPool) ReleaseRef() {
	mp.refCount.Add(-1)
}

// slot holds the pool of one configured tenant. mu serializes opening and
// closing it so a tenant never gets two pools.
type slot struct {
	tenant *Tenant
	mu     sync.Mutex
	pool   *ManagedPool
}

type connectFunc func(ctx context.Context, cfg *pgxpool.Config) (*pgxpool.Pool, error)

// Manager opens one pgx pool per configured tenant on first use and closes
// pools that sat idle. The tenant set is fixed at construction. Safe for
// concurrent use.
type Manager struct {
	config  ManagerConfig
	tenants []*slot // ordered by slug
	byID    map[string]*slot
	connect connectFunc

	stop chan struct{}
	done chan struct{}
	log  *logger.Logger
}

// NewManager indexes tenants by ID and starts the idle reaper when
// PoolIdleTimeout is set. Later duplicates of an ID win.
func NewManager(cfg ManagerConfig, tenants []Tenant, log *logger.Logger) *Manager {
	m := &Manager{
		config:  cfg,
		byID:    make(map[string]*slot, len(tenants)),
		connect: connect,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		log:     log.WithComponent("tenant-manager"),
	}
	for i := range tenants {
		t := tenants[i]
		m.byID[t.ID] = &slot{tenant: &t}
	}
	for _, s := range m.byID {
		m.tenants = append(m.tenants, s)
	}
	sort.Slice(m.tenants, func(i, j int) bool { return m.tenants[i].tenant.Slug < m.tenants[j].tenant.Slug })

	if cfg.PoolIdleTimeout > 0 {
		go m.reapIdle()
	} else {
		close(m.done)
	}

	m.log.Info("tenant manager started",
		"tenants", len(m.tenants),
		"idle_timeout", cfg.PoolIdleTimeout,
	)
	return m
}

// connect opens a pool and verifies the database answers.
func connect(ctx context.Context, cfg *pgxpool.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Active returns the active tenants ordered by slug.
func (m *Manager) Active() []*Tenant {
	out := make([]*Tenant, 0, len(m.tenants))
	for _, s := range m.tenants {
		if s.tenant.IsActive() {
			out = append(out, s.tenant)
		}
	}
	return out
}

// GetPool returns the pool of tenantID, opening it on first use.
func (m *Manager) GetPool(ctx context.Context, tenantID string) (*ManagedPool, error) {
	s, ok := m.byID[tenantID]
	if !ok {
		return nil, ErrTenantNotFound
	}
	if !s.tenant.IsActive() {
		return nil, fmt.Errorf("%w: status=%s", ErrTenantNotActive, s.tenant.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool == nil {
		mp, err := m.open(ctx, s.tenant)
		if err != nil {
			return nil, err
		}
		s.pool = mp
	}
	s.pool.touch()
	return s.pool, nil
}

func (m *Manager) open(ctx context.Context, t *Tenant) (*ManagedPool, error) {
	poolCfg, err := pgxpool.ParseConfig(t.DSN(m.config.DBUser, m.config.DBPassword, m.config.SSLMode))
	if err != nil {
		return nil, fmt.Errorf("parse dsn for tenant %s: %w", t.ID, err)
	}
	poolCfg.MaxConns = m.config.MaxConnsPerTenant
	poolCfg.MinConns = m.config.MinConnsPerTenant
	if m.config.HealthCheckPeriod > 0 {
		poolCfg.HealthCheckPeriod = m.config.HealthCheckPeriod
	}
	poolCfg.ConnConfig.ConnectTimeout = m.config.ConnectTimeout
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "stockscope"
	poolCfg.ConnConfig.RuntimeParams["timezone"] = "UTC"

	if m.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.ConnectTimeout)
		defer cancel()
	}
	pool, err := m.connect(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect tenant %s: %w", t.ID, err)
	}

	m.log.Info("opened tenant pool", "tenant_id", t.ID, "db_name", t.DBName)
	return &ManagedPool{pool: pool, tenant: t}, nil
}

func (m *Manager) reapIdle() {
	defer close(m.done)

	ticker := time.NewTicker(m.config.PoolIdleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.closeIdle(now.Add(-m.config.PoolIdleTimeout))
		}
	}
}

// closeIdle closes the pools unused since before and not checked out.
func (m *Manager) closeIdle(before time.Time) int {
	closed := 0
	for _, s := range m.tenants {
		s.mu.Lock()
		mp := s.pool
		if mp != nil && mp.refCount.Load() == 0 && mp.lastUsed.Load() < before.Unix() {
			mp.pool.Close()
			s.pool = nil
			closed++
			m.log.Info("closed idle tenant pool", "tenant_id", s.tenant.ID)
		}
		s.mu.Unlock()
	}
	return closed
}

// Close stops the reaper and closes every open pool.
func (m *Manager) Close() {
	close(m.stop)
	<-m.done

	closed := 0
	for _, s := range m.tenants {
		s.mu.Lock()
		if s.pool != nil {
			s.pool.pool.Close()
			s.pool = nil
			closed++
		}
		s.mu.Unlock()
	}
	m.log.Info("tenant manager closed", "pools_closed", closed)
}

// ManagerStats is a snapshot of the open pools.
type ManagerStats struct {
	TotalPools    int
	TotalConns    int
	IdleConns     int
	AcquiredConns int
	Tenants       []TenantPoolStats
}

// TenantPoolStats describes the pool of one tenant.
type TenantPoolStats struct {
	TenantID      string
	DBName        string
	TotalConns    int
	IdleConns     int
	AcquiredConns int
	ActiveRefs    int
	LastUsed      time.Time
}

// Stats reports the open pools ordered by tenant slug.
func (m *Manager) Stats() ManagerStats {
	var stats ManagerStats
	for _, s := range m.tenants {
		s.mu.Lock()
		mp := s.pool
		s.mu.Unlock()
		if mp == nil {
			continue
		}

		st := mp.pool.Stat()
		ts := TenantPoolStats{
			TenantID:      s.tenant.ID,
			DBName:        s.tenant.DBName,
			TotalConns:    int(st.TotalConns()),
			IdleConns:     int(st.IdleConns()),
			AcquiredConns: int(st.AcquiredConns()),
			ActiveRefs:    int(mp.refCount.Load()),
			LastUsed:      time.Unix(mp.lastUsed.Load(), 0),
		}
		stats.TotalPools++
		stats.TotalConns += ts.TotalConns
		stats.IdleConns += ts.IdleConns
		stats.AcquiredConns += ts.AcquiredConns
		stats.Tenants = append(stats.Tenants, ts)
	}
	return stats
}

// PrewarmPools opens the pools of all active tenants concurrently so the
// first requests do not pay the connection cost.
func (m *Manager) PrewarmPools(ctx context.Context) error {
	active := m.Active()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, t := range active {
		wg.Add(1)
		go func(t *Tenant) {
			defer wg.Done()
			if _, err := m.GetPool(ctx, t.ID); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("prewarm %s: %w", t.Slug, err))
				mu.Unlock()
			}
		}(t)
	}
	wg.Wait()

	if len(errs) > 0 {
		m.log.Warn("some pools failed to prewarm", "error_count", len(errs))
		return errors.Join(errs...)
	}
	m.log.Info("pools prewarmed", "tenant_count", len(active))
	return nil
}

// ForEachActive runs fn for every active tenant with its pool checked out.
// Errors are collected so one broken tenant does not stop the others.
func (m *Manager) ForEachActive(ctx context.Context, fn func(ctx context.Context, t *Tenant, pool *pgxpool.Pool) error) error {
	var errs []error
	for _, t := range m.Active() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		mp, err := m.GetPool(ctx, t.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("tenant %s: %w", t.Slug, err))
			continue
		}
		mp.AcquireRef()
		err = fn(WithTenant(ctx, t), t, mp.Pool())
		mp.ReleaseRef()
		if err != nil {
			errs = append(errs, fmt.Errorf("tenant %s: %w", t.Slug, err))
		}
	}
	return errors.Join(errs...)
}
