package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Catalog      CatalogConfig
	Storage      StorageConfig
	DB           DBConfig
	Redis        RedisConfig
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
	if err := cfg.Storage.validate(cfg.Redis); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SQUAREEYES_APP_ENV" required:"true"`
	Port         string `envconfig:"SQUAREEYES_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SQUAREEYES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SQUAREEYES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig points at the remote product catalog and its local fallback.
type CatalogConfig struct {
	BaseURL        string        `envconfig:"SQUAREEYES_CATALOG_BASE_URL" required:"true"`
	FallbackPath   string        `envconfig:"SQUAREEYES_CATALOG_FALLBACK_PATH" default:"data/catalog.json"`
	RequestTimeout time.Duration `envconfig:"SQUAREEYES_CATALOG_REQUEST_TIMEOUT" default:"10s"`
}

// StorageConfig selects the durable key-value backend for cart/order state.
type StorageConfig struct {
	Backend string `envconfig:"SQUAREEYES_STORAGE_BACKEND" default:"sqlite"`
}

func (s StorageConfig) UseRedis() bool {
	return strings.EqualFold(strings.TrimSpace(s.Backend), StorageBackendRedis)
}

func (s StorageConfig) validate(redis RedisConfig) error {
	backend := strings.ToLower(strings.TrimSpace(s.Backend))
	switch backend {
	case StorageBackendSQLite:
		return nil
	case StorageBackendRedis:
		if redis.URL == "" && redis.Address == "" {
			return fmt.Errorf("%s or %s is required when %s=%s",
				EnvRedisURL, EnvRedisAddr, EnvStorageBackend, StorageBackendRedis)
		}
		return nil
	default:
		return fmt.Errorf("%s must be %q or %q, got %q",
			EnvStorageBackend, StorageBackendSQLite, StorageBackendRedis, s.Backend)
	}
}

type DBConfig struct {
	DSN    string `envconfig:"SQUAREEYES_DB_DSN"`
	Driver string `envconfig:"SQUAREEYES_DB_DRIVER" default:"sqlite"`

	PGHost     string `envconfig:"SQUAREEYES_DB_HOST"`
	PGPort     int    `envconfig:"SQUAREEYES_DB_PORT" default:"5432"`
	PGUser     string `envconfig:"SQUAREEYES_DB_USER"`
	PGPassword string `envconfig:"SQUAREEYES_DB_PASSWORD"`
	PGName     string `envconfig:"SQUAREEYES_DB_NAME"`
	PGSSLMode  string `envconfig:"SQUAREEYES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SQUAREEYES_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SQUAREEYES_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SQUAREEYES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SQUAREEYES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"SQUAREEYES_REDIS_URL"`
	Address      string        `envconfig:"SQUAREEYES_REDIS_ADDR"`
	Password     string        `envconfig:"SQUAREEYES_REDIS_PASSWORD"`
	DB           int           `envconfig:"SQUAREEYES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SQUAREEYES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SQUAREEYES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SQUAREEYES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SQUAREEYES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SQUAREEYES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SQUAREEYES_AUTO_MIGRATE" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	if db.IsSQLite() {
		db.DSN = DefaultSQLitePath
		return nil
	}

	missing := []string{}
	pgValues := map[string]string{
		EnvDBHost: db.PGHost,
		EnvDBUser: db.PGUser,
		EnvDBName: db.PGName,
	}
	for _, env := range postgresDBEnvVars {
		if pgValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.PGUser)
	if db.PGPassword != "" {
		userInfo = url.UserPassword(db.PGUser, db.PGPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.PGHost, db.PGPort),
		Path:   db.PGName,
	}

	if db.PGSSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.PGSSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
