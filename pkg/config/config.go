package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Catalog       CatalogConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if cfg.FeatureFlags.RedisEnabled && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("either %s or %s is required when redis is enabled", EnvRedisURL, EnvRedisAddr)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MAMSTAR_APP_ENV" required:"true"`
	Port         string `envconfig:"MAMSTAR_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"MAMSTAR_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"MAMSTAR_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"MAMSTAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MAMSTAR_DB_DSN"`
	Driver string `envconfig:"MAMSTAR_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"MAMSTAR_DB_HOST"`
	Port     int    `envconfig:"MAMSTAR_DB_PORT" default:"5432"`
	User     string `envconfig:"MAMSTAR_DB_USER"`
	Password string `envconfig:"MAMSTAR_DB_PASSWORD"`
	Name     string `envconfig:"MAMSTAR_DB_NAME"`
	SSLMode  string `envconfig:"MAMSTAR_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"MAMSTAR_DB_SQLITE_PATH" default:"mamstar.db"`

	MaxOpenConns    int           `envconfig:"MAMSTAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MAMSTAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MAMSTAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MAMSTAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	QueryTimeout    time.Duration `envconfig:"MAMSTAR_DB_QUERY_TIMEOUT" default:"5s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MAMSTAR_REDIS_URL"`
	Address      string        `envconfig:"MAMSTAR_REDIS_ADDR"`
	Password     string        `envconfig:"MAMSTAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"MAMSTAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MAMSTAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MAMSTAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MAMSTAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MAMSTAR_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"MAMSTAR_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MAMSTAR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MAMSTAR_JWT_ISSUER" default:"mamstar"`
	ExpirationMinutes int    `envconfig:"MAMSTAR_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MAMSTAR_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MAMSTAR_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MAMSTAR_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MAMSTAR_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MAMSTAR_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"MAMSTAR_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"MAMSTAR_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"MAMSTAR_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// CatalogConfig tunes product and order listing behavior.
type CatalogConfig struct {
	DefaultPageSize   int           `envconfig:"MAMSTAR_CATALOG_DEFAULT_PAGE_SIZE" default:"10"`
	StatsCacheTTL     time.Duration `envconfig:"MAMSTAR_CATALOG_STATS_CACHE_TTL" default:"30s"`
	IdentifierRetries int           `envconfig:"MAMSTAR_CATALOG_IDENTIFIER_RETRIES" default:"3"`
	IdempotencyTTL    time.Duration `envconfig:"MAMSTAR_CATALOG_IDEMPOTENCY_TTL" default:"24h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MAMSTAR_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

type FeatureFlagsConfig struct {
	UseSQLite    bool `envconfig:"MAMSTAR_USE_SQLITE" default:"false"`
	AutoMigrate  bool `envconfig:"MAMSTAR_AUTO_MIGRATE" default:"false"`
	RedisEnabled bool `envconfig:"MAMSTAR_REDIS_ENABLED" default:"true"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DriverSQLite
		if db.DSN == "" {
			db.DSN = db.SQLitePath
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	discrete := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if discrete[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
