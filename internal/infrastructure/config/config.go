package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const EnvProduction = "production"

type Config struct {
	Port          string   `env:"PORT,            default=8080"`
	Env           string   `env:"ENV,             default=development"`
	LogLevel      string   `env:"LOG_LEVEL,       default=info"`
	CORSOrigins   []string `env:"CORS_ORIGINS,    default=http://localhost:5173"`
	// TrustProxy reads the client IP from X-Forwarded-For. Enable it only
	// behind a reverse proxy that overwrites the header.
	TrustProxy    bool     `env:"TRUST_PROXY,     default=false"`

	Auth      AuthConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Upload    UploadConfig
	Mail      MailConfig
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET, required"`
	Issuer          string        `env:"JWT_ISSUER,            default=agency-api"`
	Audience        string        `env:"JWT_AUDIENCE,          default=agency-admin"`
	TokenTTL        time.Duration `env:"JWT_TTL,               default=4h"`
	CookieName      string        `env:"AUTH_COOKIE_NAME,      default=admin_token"`
	CookieSameSite  string        `env:"AUTH_COOKIE_SAMESITE,  default=strict"`
	DenylistEnabled bool          `env:"AUTH_DENYLIST_ENABLED, default=false"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=agency"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

// RedisConfig is optional: an empty address disables every Redis backed
// feature.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

type RateLimitConfig struct {
	Backend       string        `env:"RATE_LIMIT_BACKEND,      default=memory"`
	Window        time.Duration `env:"LOGIN_RATE_WINDOW,       default=15m"`
	MaxAttempts   int           `env:"LOGIN_RATE_MAX_ATTEMPTS, default=5"`
	ContactLimit  int           `env:"CONTACT_RATE_LIMIT,      default=5"`
	ContactWindow time.Duration `env:"CONTACT_RATE_WINDOW,     default=10m"`
}

type UploadConfig struct {
	Backend     string `env:"UPLOAD_BACKEND,   default=db"`
	Dir         string `env:"UPLOAD_DIR,       default=./uploads"`
	MaxFileSize int64  `env:"UPLOAD_MAX_SIZE,  default=10485760"`
	MaxFiles    int    `env:"UPLOAD_MAX_FILES, default=5"`
}

// MailConfig configures SMTP delivery. An empty host disables sending.
type MailConfig struct {
	Host     string        `env:"SMTP_HOST"`
	Port     int           `env:"SMTP_PORT,    default=587"`
	Username string        `env:"SMTP_USER"`
	Password string        `env:"SMTP_PASSWORD"`
	From     string        `env:"MAIL_FROM,    default=no-reply@localhost"`
	NotifyTo string        `env:"MAIL_TO"`
	SiteName string        `env:"SITE_NAME,    default=L'agence"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT, default=10s"`
	Workers  int           `env:"MAIL_WORKERS, default=2"`
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if len(c.Auth.JWTSecret) < 32 && c.IsProduction() {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters in production"))
	}
	switch c.RateLimit.Backend {
	case "memory":
	case "redis":
		if !c.Redis.Enabled() {
			errs = append(errs, errors.New("RATE_LIMIT_BACKEND=redis requires REDIS_ADDR"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimit.Backend))
	}
	if c.Auth.DenylistEnabled && !c.Redis.Enabled() {
		errs = append(errs, errors.New("AUTH_DENYLIST_ENABLED requires REDIS_ADDR"))
	}
	switch c.Upload.Backend {
	case "db", "disk":
	default:
		errs = append(errs, fmt.Errorf("unknown UPLOAD_BACKEND %q", c.Upload.Backend))
	}
	switch strings.ToLower(c.Auth.CookieSameSite) {
	case "strict", "lax", "none":
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_COOKIE_SAMESITE %q", c.Auth.CookieSameSite))
	}
	if c.RateLimit.MaxAttempts <= 0 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("login rate limit must be positive"))
	}
	return errors.Join(errs...)
}
