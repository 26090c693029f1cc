// Package config loads service configuration from a YAML file with
// STOCKSCOPE_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"stockscope/internal/core/tenant"
	"stockscope/internal/domain/accesslog"
	"stockscope/internal/domain/filter"
)

// EnvPrefix prefixes every environment override, e.g.
// STOCKSCOPE_AUTH_JWT_SECRET for auth.jwt_secret.
const EnvPrefix = "STOCKSCOPE"

// DefaultPath is used when neither -config nor STOCKSCOPE_CONFIG is set.
const DefaultPath = "config/config.yaml"

type Config struct {
	App struct {
		Env      string `mapstructure:"env"`
		Timezone string `mapstructure:"timezone"`
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"app"`

	HTTP struct {
		Addr         string        `mapstructure:"addr"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
		IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
		CORSOrigins  []string      `mapstructure:"cors_origins"`
	} `mapstructure:"http"`

	Database struct {
		User              string        `mapstructure:"user"`
		Password          string        `mapstructure:"password"`
		SSLMode           string        `mapstructure:"ssl_mode"`
		MaxConns          int32         `mapstructure:"max_conns"`
		MinConns          int32         `mapstructure:"min_conns"`
		PoolIdleTimeout   time.Duration `mapstructure:"pool_idle_timeout"`
		HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
		AutoMigrate       bool          `mapstructure:"auto_migrate"`
		PrewarmPools      bool          `mapstructure:"prewarm_pools"`
	} `mapstructure:"database"`

	Tenants []tenant.Tenant `mapstructure:"tenants"`

	Auth struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`

	AccessLog struct {
		Path        string           `mapstructure:"path"`
		MaxSizeMB   int64            `mapstructure:"max_size_mb"`
		Annotations []accesslog.Rule `mapstructure:"annotations"`
	} `mapstructure:"access_log"`

	Archiver struct {
		RunAt   string        `mapstructure:"run_at"`
		LockTTL time.Duration `mapstructure:"lock_ttl"`
	} `mapstructure:"archiver"`

	Redis struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"redis"`

	Filter struct {
		BetweenPolicy filter.BetweenPolicy `mapstructure:"between_policy"`
	} `mapstructure:"filter"`

	// Metrics.Addr is the listen address of the archiver's /metrics
	// endpoint; the API server serves /metrics on its own router.
	Metrics struct {
		Enabled bool   `mapstructure:"enabled"`
		Addr    string `mapstructure:"addr"`
	} `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.timezone", "Europe/Istanbul")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)

	// Keys without a usable default are still registered so that
	// AutomaticEnv can supply them.
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("redis.addr", "")

	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.pool_idle_timeout", 30*time.Minute)
	v.SetDefault("database.health_check_period", time.Minute)

	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("access_log.path", "logs/access.log")
	v.SetDefault("access_log.max_size_mb", 100)

	v.SetDefault("archiver.run_at", "00:00")
	v.SetDefault("archiver.lock_ttl", 10*time.Minute)

	v.SetDefault("filter.between_policy", string(filter.BetweenDegrade))
	v.SetDefault("metrics.enabled", true)
}

// Load reads path, applies environment overrides and defaults, and
// validates the result.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate checks values that have no usable default.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if len(c.Tenants) == 0 {
		return fmt.Errorf("at least one tenant is required")
	}
	for i, t := range c.Tenants {
		if t.ID == "" || t.DBName == "" {
			return fmt.Errorf("tenants[%d]: id and db_name are required", i)
		}
	}
	switch c.Filter.BetweenPolicy {
	case filter.BetweenDegrade, filter.BetweenReject:
	default:
		return fmt.Errorf("filter.between_policy must be %q or %q", filter.BetweenDegrade, filter.BetweenReject)
	}
	if _, err := c.DailyAt(); err != nil {
		return err
	}
	return nil
}

// Location returns the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("app.timezone: %w", err)
	}
	return loc, nil
}

// DailyAt parses archiver.run_at as hours and minutes after midnight.
func (c *Config) DailyAt() (time.Duration, error) {
	t, err := time.Parse("15:04", c.Archiver.RunAt)
	if err != nil {
		return 0, fmt.Errorf("archiver.run_at must be HH:MM: %w", err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// ManagerConfig maps the database section onto tenant.ManagerConfig.
func (c *Config) ManagerConfig() tenant.ManagerConfig {
	m := tenant.DefaultManagerConfig()
	m.DBUser = c.Database.User
	m.DBPassword = c.Database.Password
	m.SSLMode = c.Database.SSLMode
	m.MaxConnsPerTenant = c.Database.MaxConns
	m.MinConnsPerTenant = c.Database.MinConns
	m.PoolIdleTimeout = c.Database.PoolIdleTimeout
	m.HealthCheckPeriod = c.Database.HealthCheckPeriod
	return m
}

// Development reports whether app.env is development.
func (c *Config) Development() bool {
	return c.App.Env == "development"
}

// ResolvePath picks the config file: an explicit flag value, then
// STOCKSCOPE_CONFIG, then DefaultPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvPrefix + "_CONFIG"); env != "" {
		return env
	}
	return DefaultPath
}
