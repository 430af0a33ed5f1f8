package config

// EnvPrefix is passed to envconfig; every tag spells out its full variable name.
const EnvPrefix = "MAMSTAR"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv      = "MAMSTAR_APP_ENV"
	EnvPort        = "MAMSTAR_APP_PORT"
	EnvDBDSN       = "MAMSTAR_DB_DSN"
	EnvDBHost      = "MAMSTAR_DB_HOST"
	EnvDBUser      = "MAMSTAR_DB_USER"
	EnvDBName      = "MAMSTAR_DB_NAME"
	EnvDBPassword  = "MAMSTAR_DB_PASSWORD"
	EnvUseSQLite   = "MAMSTAR_USE_SQLITE"
	EnvRedisURL    = "MAMSTAR_REDIS_URL"
	EnvRedisAddr   = "MAMSTAR_REDIS_ADDR"
	EnvRedisEnable = "MAMSTAR_REDIS_ENABLED"
	EnvJWTSecret   = "MAMSTAR_JWT_SECRET"
	EnvCORSOrigins = "MAMSTAR_CORS_ALLOWED_ORIGINS"
	EnvStatsTTL    = "MAMSTAR_CATALOG_STATS_CACHE_TTL"

	EnvSeedAdminPassword = "MAMSTAR_SEED_ADMIN_PASSWORD"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
