package config

// EnvPrefix is handed to envconfig; every field carries its full variable name.
const EnvPrefix = "MECHANICSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "MECHANICSHOP_APP_ENV"
	EnvPort       = "MECHANICSHOP_APP_PORT"
	EnvDBDSN      = "MECHANICSHOP_DB_DSN"
	EnvDBHost     = "MECHANICSHOP_DB_HOST"
	EnvDBUser     = "MECHANICSHOP_DB_USER"
	EnvDBName     = "MECHANICSHOP_DB_NAME"
	EnvDBPassword = "MECHANICSHOP_DB_PASSWORD"
	EnvRedisURL   = "MECHANICSHOP_REDIS_URL"
	EnvJWTSecret  = "MECHANICSHOP_JWT_SECRET"
	EnvJWTIssuer  = "MECHANICSHOP_JWT_ISSUER"
	EnvUseSQLite  = "MECHANICSHOP_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
