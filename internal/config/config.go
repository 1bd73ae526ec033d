// Package config loads environment configuration for the admin and the stub
// upstream.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Port string
	}
	Backend struct {
		BaseURL string
		Timeout time.Duration
	}
}

// Load reads the admin configuration. A non-empty path loads a .env file
// first; missing files are tolerated so production can run on real env vars.
func Load(path string) (*Config, error) {
	loadDotenv(path)

	cfg := &Config{}

	cfg.App.Port = envOr("APP_PORT", "8080")

	cfg.Backend.BaseURL = os.Getenv("BACKEND_BASE_URL")
	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL is required")
	}

	cfg.Backend.Timeout = 10 * time.Second
	if raw := os.Getenv("HTTP_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
		}
		cfg.Backend.Timeout = d
	}

	return cfg, nil
}

type PostgresConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

type StubConfig struct {
	Port     string
	Postgres PostgresConfig
}

// LoadStub reads the stub upstream's configuration.
func LoadStub(path string) (*StubConfig, error) {
	loadDotenv(path)

	cfg := &StubConfig{}
	cfg.Port = envOr("STUB_PORT", "8081")

	cfg.Postgres.Host = envOr("DB_HOST", "localhost")
	cfg.Postgres.Port = envOr("DB_PORT", "5432")
	cfg.Postgres.SSLMode = envOr("DB_SSLMODE", "disable")
	cfg.Postgres.MigrationsPath = envOr("MIGRATIONS_PATH", "migrations")

	cfg.Postgres.User = os.Getenv("DB_USER")
	if cfg.Postgres.User == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Postgres.Password = os.Getenv("DB_PASSWORD")
	if cfg.Postgres.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Postgres.DBName = os.Getenv("DB_NAME")
	if cfg.Postgres.DBName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}

	return cfg, nil
}

func loadDotenv(path string) {
	if path == "" {
		return
	}
	// Absent .env files are fine.
	_ = godotenv.Load(path)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
