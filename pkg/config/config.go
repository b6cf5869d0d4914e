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
	Checkout     CheckoutConfig
	Shipping     ShippingConfig
	Paystack     PaystackConfig
	OrdersAPI    OrdersAPIConfig
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
	Env          string `envconfig:"KASOA_APP_ENV" required:"true"`
	Port         string `envconfig:"KASOA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KASOA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KASOA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KASOA_DB_DSN"`
	Driver string `envconfig:"KASOA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"KASOA_DB_HOST"`
	Port     int    `envconfig:"KASOA_DB_PORT" default:"5432"`
	User     string `envconfig:"KASOA_DB_USER"`
	Password string `envconfig:"KASOA_DB_PASSWORD"`
	Name     string `envconfig:"KASOA_DB_NAME"`
	SSLMode  string `envconfig:"KASOA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KASOA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KASOA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KASOA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KASOA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KASOA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KASOA_REDIS_ADDR"`
	Password     string        `envconfig:"KASOA_REDIS_PASSWORD"`
	DB           int           `envconfig:"KASOA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KASOA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KASOA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KASOA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KASOA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KASOA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"KASOA_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"KASOA_JWT_ISSUER" required:"true"`
}

type CheckoutConfig struct {
	SessionTTL     time.Duration `envconfig:"KASOA_CHECKOUT_SESSION_TTL" default:"2h"`
	SubmitLockTTL  time.Duration `envconfig:"KASOA_CHECKOUT_SUBMIT_LOCK_TTL" default:"30s"`
	CouponLockTTL  time.Duration `envconfig:"KASOA_CHECKOUT_COUPON_LOCK_TTL" default:"15s"`
	MaxCouponChars int           `envconfig:"KASOA_CHECKOUT_MAX_COUPON_CHARS" default:"50"`
}

type ShippingConfig struct {
	ServiceableCities []string `envconfig:"KASOA_SHIPPING_CITIES" default:"ACCRA,TEMA"`
}

type PaystackConfig struct {
	SecretKey   string        `envconfig:"KASOA_PAYSTACK_SECRET_KEY" required:"true"`
	BaseURL     string        `envconfig:"KASOA_PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
	TrustedHost string        `envconfig:"KASOA_PAYSTACK_TRUSTED_HOST" default:"paystack.com"`
	Timeout     time.Duration `envconfig:"KASOA_PAYSTACK_TIMEOUT" default:"15s"`
	MaxRetries  int           `envconfig:"KASOA_PAYSTACK_MAX_RETRIES" default:"3"`
}

type OrdersAPIConfig struct {
	BaseURL    string        `envconfig:"KASOA_ORDERS_API_BASE_URL" required:"true"`
	APIKey     string        `envconfig:"KASOA_ORDERS_API_KEY"`
	Timeout    time.Duration `envconfig:"KASOA_ORDERS_API_TIMEOUT" default:"20s"`
	MaxRetries int           `envconfig:"KASOA_ORDERS_API_MAX_RETRIES" default:"2"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"KASOA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"KASOA_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range fallbackDBEnvVars {
		if values[env] == "" {
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
