package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	DatabaseURL   string `env:"DATABASE_URL"`
	MigrateOnBoot bool   `env:"MIGRATE_ON_BOOT" envDefault:"true"`

	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	DBConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`

	RedisURL     string        `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	RedisTimeout time.Duration `env:"REDIS_TIMEOUT" envDefault:"3s"`

	JWTSecret        string        `env:"JWT_SECRET"`
	JWTAccessExpiry  time.Duration `env:"JWT_ACCESS_EXPIRY" envDefault:"15m"`
	JWTRefreshExpiry time.Duration `env:"JWT_REFRESH_EXPIRY" envDefault:"168h"`

	MinIOEndpoint       string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinIOPublicEndpoint string `env:"MINIO_PUBLIC_ENDPOINT"`
	MinIOAccessKey      string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	MinIOSecretKey      string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	MinIOBucket         string `env:"MINIO_BUCKET" envDefault:"lostfound-images"`
	MinIOUseSSL         bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	MinIOPublicUseSSL   bool   `env:"MINIO_PUBLIC_USE_SSL" envDefault:"true"`

	UploadMaxBytes int64 `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`

	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	FromEmail    string `env:"FROM_EMAIL" envDefault:"noreply@example.com"`
	Domain       string `env:"DOMAIN" envDefault:"localhost:5173"`

	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"en"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.MinIOPublicEndpoint == "" {
		cfg.MinIOPublicEndpoint = cfg.MinIOEndpoint
	}
	if cfg.IsProduction() && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-key"
	}
	if cfg.DBMaxIdleConns > cfg.DBMaxOpenConns {
		cfg.DBMaxIdleConns = cfg.DBMaxOpenConns
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
