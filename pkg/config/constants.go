package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix only matters for variables without a tag.
const EnvPrefix = "KASOA"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv           = "KASOA_APP_ENV"
	EnvPort             = "KASOA_APP_PORT"
	EnvDBDSN            = "KASOA_DB_DSN"
	EnvDBHost           = "KASOA_DB_HOST"
	EnvDBUser           = "KASOA_DB_USER"
	EnvDBName           = "KASOA_DB_NAME"
	EnvRedisURL         = "KASOA_REDIS_URL"
	EnvJWTSecret        = "KASOA_JWT_SECRET"
	EnvJWTIssuer        = "KASOA_JWT_ISSUER"
	EnvPaystackSecret   = "KASOA_PAYSTACK_SECRET_KEY"
	EnvOrdersAPIBaseURL = "KASOA_ORDERS_API_BASE_URL"
)

var fallbackDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
