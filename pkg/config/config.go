package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "BOOKBEAN"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv         = "BOOKBEAN_APP_ENV"
	EnvPort           = "BOOKBEAN_APP_PORT"
	EnvLogLevel       = "BOOKBEAN_LOG_LEVEL"
	EnvAPIURL         = "BOOKBEAN_API_URL"
	EnvAPITimeout     = "BOOKBEAN_API_TIMEOUT"
	EnvRedisURL       = "BOOKBEAN_REDIS_URL"
	EnvRedisAddr      = "BOOKBEAN_REDIS_ADDR"
	EnvJWTSecret      = "BOOKBEAN_JWT_SECRET"
	EnvJWTIssuer      = "BOOKBEAN_JWT_ISSUER"
	EnvSessionIdleTTL = "BOOKBEAN_SESSION_IDLE_TTL"
	EnvAllowedOrigins = "BOOKBEAN_CORS_ALLOWED_ORIGINS"

	DefaultAPIURL = "http://localhost:8080/api/v1"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Session SessionConfig
	CORS    CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BOOKBEAN_APP_ENV" default:"dev"`
	Port         string `envconfig:"BOOKBEAN_APP_PORT" default:"3001"`
	LogLevel     string `envconfig:"BOOKBEAN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BOOKBEAN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points at the book-bean REST API the storefront consumes.
type BackendConfig struct {
	BaseURL string        `envconfig:"BOOKBEAN_API_URL" default:"http://localhost:8080/api/v1"`
	Timeout time.Duration `envconfig:"BOOKBEAN_API_TIMEOUT" default:"10s"`
}

func (b *BackendConfig) normalize() error {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.BaseURL == "" {
		b.BaseURL = DefaultAPIURL
	}
	parsed, err := url.Parse(b.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute url, got %q", EnvAPIURL, b.BaseURL)
	}
	if b.Timeout <= 0 {
		b.Timeout = 10 * time.Second
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"BOOKBEAN_REDIS_URL"`
	Address      string        `envconfig:"BOOKBEAN_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"BOOKBEAN_REDIS_PASSWORD"`
	DB           int           `envconfig:"BOOKBEAN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BOOKBEAN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BOOKBEAN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BOOKBEAN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BOOKBEAN_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"BOOKBEAN_REDIS_WRITE_TIMEOUT" default:"3s"`
	GuestTTL     time.Duration `envconfig:"BOOKBEAN_GUEST_WISHLIST_TTL" default:"720h"`
}

// JWTConfig is optional: without a secret, tokens are inspected but not verified
// and the backend stays the authority on their validity.
type JWTConfig struct {
	Secret string `envconfig:"BOOKBEAN_JWT_SECRET"`
	Issuer string `envconfig:"BOOKBEAN_JWT_ISSUER"`
}

func (j JWTConfig) Verifies() bool {
	return strings.TrimSpace(j.Secret) != ""
}

type SessionConfig struct {
	CookieName    string        `envconfig:"BOOKBEAN_SESSION_COOKIE" default:"bb_session"`
	IdleTTL       time.Duration `envconfig:"BOOKBEAN_SESSION_IDLE_TTL" default:"2h"`
	SweepInterval time.Duration `envconfig:"BOOKBEAN_SESSION_SWEEP_INTERVAL" default:"5m"`
	CookieMaxAge  time.Duration `envconfig:"BOOKBEAN_SESSION_COOKIE_MAX_AGE" default:"720h"`
	SecureCookie  bool          `envconfig:"BOOKBEAN_SESSION_SECURE_COOKIE" default:"false"`
	MaxSessions   int           `envconfig:"BOOKBEAN_SESSION_MAX" default:"50000"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BOOKBEAN_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}
