package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN                string        `mapstructure:"DB_DSN"`
	Environment          string        `mapstructure:"ENV"`
	HTTPAddr             string        `mapstructure:"HTTP_ADDR"`
	JWTSecret            string        `mapstructure:"JWT_SECRET"`
	MigrationsPath       string        `mapstructure:"MIGRATIONS_PATH"`
	LicenseSweepInterval time.Duration `mapstructure:"LICENSE_SWEEP_INTERVAL"`
	RequestTimeout       time.Duration `mapstructure:"REQUEST_TIMEOUT"`
}

const (
	defaultEnvironment          = "development"
	defaultHTTPAddr             = ":8080"
	defaultMigrationsPath       = "migrations"
	defaultLicenseSweepInterval = time.Hour
	defaultRequestTimeout       = 15 * time.Second
)

func Load() (*Config, error) {
	// a missing .env is fine, the process environment is used as is
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    os.Getenv("ENV"),
		HTTPAddr:       os.Getenv("HTTP_ADDR"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
	}

	if cfg.Environment == "" {
		cfg.Environment = defaultEnvironment
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = defaultHTTPAddr
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = defaultMigrationsPath
	}

	var err error
	if cfg.LicenseSweepInterval, err = durationEnv("LICENSE_SWEEP_INTERVAL", defaultLicenseSweepInterval); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", defaultRequestTimeout); err != nil {
		return nil, err
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	return cfg, nil
}

// durationEnv parses a Go duration; unset means the default, zero or negative is rejected
func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}

	return d, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
