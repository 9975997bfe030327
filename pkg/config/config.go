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
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	Cache        CacheConfig
	FeatureFlags FeatureFlagsConfig
	Metrics      MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MECHANICSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"MECHANICSHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MECHANICSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MECHANICSHOP_LOG_WARN_STACK" default:"false"`

	CORSOrigins     []string      `envconfig:"MECHANICSHOP_CORS_ORIGINS"`
	ShutdownTimeout time.Duration `envconfig:"MECHANICSHOP_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"MECHANICSHOP_DB_DSN"`
	Driver     string `envconfig:"MECHANICSHOP_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"MECHANICSHOP_SQLITE_PATH" default:"mechanicshop.db"`

	LegacyHost     string `envconfig:"MECHANICSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"MECHANICSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MECHANICSHOP_DB_USER"`
	LegacyPassword string `envconfig:"MECHANICSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"MECHANICSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"MECHANICSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MECHANICSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MECHANICSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MECHANICSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MECHANICSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional; without a URL or address the API runs with rate limiting
// and response caching disabled.
type RedisConfig struct {
	URL          string        `envconfig:"MECHANICSHOP_REDIS_URL"`
	Address      string        `envconfig:"MECHANICSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"MECHANICSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"MECHANICSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MECHANICSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MECHANICSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MECHANICSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MECHANICSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MECHANICSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether enough connection info is present to dial Redis.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret string `envconfig:"MECHANICSHOP_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"MECHANICSHOP_JWT_ISSUER" default:"mechanicshop"`
}

type RateLimitConfig struct {
	DefaultWindow        time.Duration `envconfig:"MECHANICSHOP_RATE_LIMIT_DEFAULT_WINDOW" default:"1h"`
	DefaultLimit         int           `envconfig:"MECHANICSHOP_RATE_LIMIT_DEFAULT_LIMIT" default:"500"`
	CustomerCreateWindow time.Duration `envconfig:"MECHANICSHOP_RATE_LIMIT_CUSTOMER_CREATE_WINDOW" default:"1m"`
	CustomerCreateLimit  int           `envconfig:"MECHANICSHOP_RATE_LIMIT_CUSTOMER_CREATE_LIMIT" default:"40"`
	TicketDeleteWindow   time.Duration `envconfig:"MECHANICSHOP_RATE_LIMIT_TICKET_DELETE_WINDOW" default:"1h"`
	TicketDeleteLimit    int           `envconfig:"MECHANICSHOP_RATE_LIMIT_TICKET_DELETE_LIMIT" default:"5"`
}

type CacheConfig struct {
	ListTTL time.Duration `envconfig:"MECHANICSHOP_CACHE_LIST_TTL" default:"30s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MECHANICSHOP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MECHANICSHOP_AUTO_MIGRATE" default:"false"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"MECHANICSHOP_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"MECHANICSHOP_METRICS_PATH" default:"/metrics"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
