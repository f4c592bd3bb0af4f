package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=5000"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`
	LogFile   string `env:"LOG_FILE"`

	Auth   AuthConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Mail   MailConfig
	Notify NotifyConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=1h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	DBURL    string `env:"DB_URL"`
	Database string `env:"MONGO_DB, default=custommatt"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,       default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,         default=0"`
	CacheTTL time.Duration `env:"SEARCH_CACHE_TTL, default=5m"`
}

type MailConfig struct {
	Host     string `env:"SMTP_HOST,       default=smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT,       default=587"`
	User     string `env:"EMAIL_USER"`
	Password string `env:"EMAIL_PASS"`
	FromName string `env:"EMAIL_FROM_NAME, default=Our Store"`
}

type NotifyConfig struct {
	Timeout time.Duration `env:"NOTIFY_TIMEOUT, default=2s"`
	Workers int           `env:"NOTIFY_WORKERS, default=4"`
}

const defaultMongoURI = "mongodb://localhost:27017"

// MongoURI returns MONGO_URI, falling back to DB_URL and then localhost.
func (c MongoConfig) MongoURI() string {
	switch {
	case c.URI != "":
		return c.URI
	case c.DBURL != "":
		return c.DBURL
	default:
		return defaultMongoURI
	}
}

// MailEnabled reports whether SMTP credentials were supplied.
func (c MailConfig) MailEnabled() bool {
	return c.User != "" && c.Password != ""
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Notify.Timeout <= 0 {
		return errors.New("NOTIFY_TIMEOUT must be positive")
	}
	return nil
}
