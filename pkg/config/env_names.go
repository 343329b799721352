package config

// EnvPrefix is accepted by envconfig; every variable also carries an explicit
// SQUAREEYES_ tag so the prefix is cosmetic.
const EnvPrefix = "SQUAREEYES"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	StorageBackendSQLite = "sqlite"
	StorageBackendRedis  = "redis"

	// DefaultSQLitePath is the on-disk database used when no DSN is set,
	// the local analog of the browser's storage area.
	DefaultSQLitePath = "squareeyes.db"
)

const (
	EnvAppEnv         = "SQUAREEYES_APP_ENV"
	EnvPort           = "SQUAREEYES_APP_PORT"
	EnvCatalogBaseURL = "SQUAREEYES_CATALOG_BASE_URL"
	EnvFallbackPath   = "SQUAREEYES_CATALOG_FALLBACK_PATH"
	EnvStorageBackend = "SQUAREEYES_STORAGE_BACKEND"
	EnvDBDSN          = "SQUAREEYES_DB_DSN"
	EnvDBDriver       = "SQUAREEYES_DB_DRIVER"
	EnvDBHost         = "SQUAREEYES_DB_HOST"
	EnvDBUser         = "SQUAREEYES_DB_USER"
	EnvDBName         = "SQUAREEYES_DB_NAME"
	EnvRedisURL       = "SQUAREEYES_REDIS_URL"
	EnvRedisAddr      = "SQUAREEYES_REDIS_ADDR"
)

var postgresDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
