package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	minSecretKeyLength = 32
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Port      string `env:"PORT,default=8080"`
	SecretKey string `env:"SECRET_KEY"`
	Timezone  string `env:"TZ,default=UTC"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`

	DBDriver    string `env:"DB_DRIVER,default=sqlite"`
	DBPath      string `env:"DB_PATH,default=data/flowy.db"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	AppURL         string `env:"APP_URL,default=https://flowy.pages.dev"`
	CookieSecure   bool   `env:"COOKIE_SECURE,default=false"`
	CORSOrigins    string `env:"CORS_ORIGINS,default=*"`
	CatalogPath    string `env:"CATALOG_PATH"`
	ReferralReward int64  `env:"REFERRAL_REWARD,default=100"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS,default=20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST,default=40"`

	SweepInterval      time.Duration `env:"SWEEP_INTERVAL,default=15m"`
	UsageRetentionDays int           `env:"USAGE_RETENTION_DAYS,default=90"`
}

// Load reads an optional .env file and then decodes the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) normalize() {
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if cfg.DBDriver == "" {
		cfg.DBDriver = DriverSQLite
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "data/flowy.db"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
	cfg.AppURL = strings.TrimRight(strings.TrimSpace(cfg.AppURL), "/")
	if cfg.AppURL == "" {
		cfg.AppURL = "https://flowy.pages.dev"
	}
}

func (cfg Config) Validate() error {
	if err := validateSecretKey(cfg.SecretKey); err != nil {
		return err
	}
	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.ReferralReward < 0 {
		return errors.New("REFERRAL_REWARD must not be negative")
	}
	if cfg.RateLimitRPS < 0 || cfg.RateLimitBurst < 0 {
		return errors.New("rate limit settings must not be negative")
	}
	if cfg.UsageRetentionDays < 1 {
		return errors.New("USAGE_RETENTION_DAYS must be at least 1")
	}
	return nil
}

func validateSecretKey(secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return nil
}

func (cfg Config) Location() *time.Location {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}
