package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Identity     IdentityConfig
	Connectivity ConnectivityConfig
	Sync         SyncConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"INVENX_APP_ENV" default:"dev"`
	Port         string `envconfig:"INVENX_APP_PORT" default:"8972"`
	LogLevel     string `envconfig:"INVENX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"INVENX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"INVENX_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"INVENX_DB_DSN"`
	Path   string `envconfig:"INVENX_DB_PATH" default:"invenx.db"`

	MaxOpenConns    int           `envconfig:"INVENX_DB_MAX_OPEN_CONNS" default:"1"`
	MaxIdleConns    int           `envconfig:"INVENX_DB_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime time.Duration `envconfig:"INVENX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"INVENX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the local on-device driver is configured.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		if db.Path == "" {
			return fmt.Errorf("either %s or %s is required", EnvDBDSN, EnvDBPath)
		}
		db.DSN = db.Path
		return nil
	}
	return fmt.Errorf("%s is required for driver %q", EnvDBDSN, db.Driver)
}

type RedisConfig struct {
	URL                 string        `envconfig:"INVENX_REDIS_URL"`
	Address             string        `envconfig:"INVENX_REDIS_ADDR"`
	Password            string        `envconfig:"INVENX_REDIS_PASSWORD"`
	DB                  int           `envconfig:"INVENX_REDIS_DB" default:"0"`
	PoolSize            int           `envconfig:"INVENX_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns        int           `envconfig:"INVENX_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout         time.Duration `envconfig:"INVENX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout         time.Duration `envconfig:"INVENX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout        time.Duration `envconfig:"INVENX_REDIS_WRITE_TIMEOUT" default:"5s"`
	NotificationChannel string        `envconfig:"INVENX_REDIS_NOTIFICATION_CHANNEL" default:"invenx:notifications"`
}

// Enabled reports whether a Redis endpoint is configured at all. The shell
// falls back to log-only notifications when it is not.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type IdentityConfig struct {
	UserID   string `envconfig:"INVENX_IDENTITY_USER_ID" default:"user-1"`
	UserName string `envconfig:"INVENX_IDENTITY_USER_NAME" default:"Admin"`
}

type ConnectivityConfig struct {
	PollInterval time.Duration `envconfig:"INVENX_CONNECTIVITY_POLL_INTERVAL" default:"5s"`
	StartOnline  bool          `envconfig:"INVENX_CONNECTIVITY_START_ONLINE" default:"true"`
}

type SyncConfig struct {
	DrainDelay time.Duration `envconfig:"INVENX_SYNC_DRAIN_DELAY" default:"2s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"INVENX_AUTO_MIGRATE" default:"false"`
}
