package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App         AppConfig
	DB          DBConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Paystack    PaystackConfig
	Flutterwave FlutterwaveConfig
	Marketplace MarketplaceConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Marketplace.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WASOKO_APP_ENV" required:"true"`
	Port         string `envconfig:"WASOKO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"WASOKO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WASOKO_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"WASOKO_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"WASOKO_DB_DSN"`
	Driver string `envconfig:"WASOKO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"WASOKO_DB_HOST"`
	LegacyPort     int    `envconfig:"WASOKO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WASOKO_DB_USER"`
	LegacyPassword string `envconfig:"WASOKO_DB_PASSWORD"`
	LegacyName     string `envconfig:"WASOKO_DB_NAME"`
	LegacySSLMode  string `envconfig:"WASOKO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WASOKO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WASOKO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WASOKO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WASOKO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WASOKO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"WASOKO_REDIS_ADDR"`
	Password     string        `envconfig:"WASOKO_REDIS_PASSWORD"`
	DB           int           `envconfig:"WASOKO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WASOKO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WASOKO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WASOKO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WASOKO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WASOKO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"WASOKO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"WASOKO_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"WASOKO_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PaystackConfig struct {
	SecretKey string        `envconfig:"WASOKO_PAYSTACK_SECRET_KEY"`
	BaseURL   string        `envconfig:"WASOKO_PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
	Timeout   time.Duration `envconfig:"WASOKO_PAYSTACK_TIMEOUT" default:"15s"`
}

type FlutterwaveConfig struct {
	SecretKey string `envconfig:"WASOKO_FLUTTERWAVE_SECRET_KEY"`
	// WebhookHash is the verif-hash value configured on the Flutterwave
	// dashboard; incoming webhooks echo it back verbatim.
	WebhookHash string        `envconfig:"WASOKO_FLUTTERWAVE_WEBHOOK_HASH"`
	BaseURL     string        `envconfig:"WASOKO_FLUTTERWAVE_BASE_URL" default:"https://api.flutterwave.com/v3"`
	Timeout     time.Duration `envconfig:"WASOKO_FLUTTERWAVE_TIMEOUT" default:"15s"`
}

type MarketplaceConfig struct {
	CommissionRate     float64 `envconfig:"WASOKO_COMMISSION_RATE" default:"0.05"`
	PaymentCallbackURL string  `envconfig:"WASOKO_PAYMENT_CALLBACK_URL" required:"true"`
	SuccessRedirectURL string  `envconfig:"WASOKO_PAYMENT_SUCCESS_URL" required:"true"`
	ErrorRedirectURL   string  `envconfig:"WASOKO_PAYMENT_ERROR_URL" required:"true"`
}

func (m MarketplaceConfig) validate() error {
	if m.CommissionRate < 0 || m.CommissionRate > 1 {
		return fmt.Errorf("commission rate must be within [0,1], got %v", m.CommissionRate)
	}
	return nil
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
