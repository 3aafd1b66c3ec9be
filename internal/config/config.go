package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port              string   `env:"PORT" envDefault:"8080"`
	StorageDriver     string   `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL       string   `env:"DATABASE_URL"`
	JWTSecret         string   `env:"JWT_SECRET"`
	JWTIssuer         string   `env:"JWT_ISSUER" envDefault:"void-bio"`
	JWTTTLMinutes     int      `env:"JWT_TTL_MINUTES" envDefault:"60"`
	CORSOrigins       []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MinPasswordLength int      `env:"MIN_PASSWORD_LENGTH" envDefault:"6"`
	BcryptCost        int      `env:"BCRYPT_COST" envDefault:"10"`
	PaymentLogLimit   int      `env:"PAYMENT_LOG_LIMIT" envDefault:"20"`
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first missing or inconsistent setting.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, c.StorageDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.MinPasswordLength < 1 {
		return errors.New("MIN_PASSWORD_LENGTH must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return errors.New("BCRYPT_COST must be between 4 and 31")
	}
	return nil
}

// JWTTTL is the lifetime of issued session tokens.
func (c Config) JWTTTL() time.Duration {
	if c.JWTTTLMinutes <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c *Config) normalize() {
	c.Port = fallback(c.Port, "8080")
	c.StorageDriver = strings.ToLower(fallback(c.StorageDriver, DriverPostgres))
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	c.JWTIssuer = fallback(c.JWTIssuer, "void-bio")

	origins := make([]string, 0, len(c.CORSOrigins))
	for _, origin := range c.CORSOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.CORSOrigins = origins
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
