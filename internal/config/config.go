// Package config loads process-wide configuration once at startup. The
// resulting struct is immutable and passed by reference to the components
// that need it; nothing else in the service reads the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DevSecret is the signing secret used when TASKHUB_AUTH_SECRET is unset.
// It is only acceptable for local development; Load refuses it in production.
const DevSecret = "taskhub-dev-secret-do-not-deploy"

// Config holds all runtime settings for the API service.
type Config struct {
	Addr     string `env:"TASKHUB_ADDR"      envDefault:":8080"`
	GRPCAddr string `env:"TASKHUB_GRPC_ADDR" envDefault:":9090"`
	PGDSN    string `env:"TASKHUB_PG_DSN"`

	Environment string `env:"TASKHUB_ENV" envDefault:"development"`

	// AuthSecret signs session tokens. Rotating it invalidates every
	// outstanding token; there is no server-side session store.
	AuthSecret string        `env:"TASKHUB_AUTH_SECRET"`
	TokenTTL   time.Duration `env:"TASKHUB_TOKEN_TTL" envDefault:"24h"`
	BcryptCost int           `env:"TASKHUB_BCRYPT_COST" envDefault:"10"`

	RateBurst  int `env:"TASKHUB_RATE_BURST"   envDefault:"60"`
	RatePerSec int `env:"TASKHUB_RATE_PER_SEC" envDefault:"30"`
}

// Production reports whether the service runs with production hardening.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

// UsingDevSecret reports whether the insecure development secret is in effect.
func (c *Config) UsingDevSecret() bool {
	return c.AuthSecret == DevSecret
}

// Load parses the environment and applies defaults. The auth secret is
// required in production; in development a flagged insecure default is used.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.AuthSecret = strings.TrimSpace(cfg.AuthSecret)
	if cfg.AuthSecret == "" {
		if cfg.Production() {
			return nil, fmt.Errorf("TASKHUB_AUTH_SECRET is required in production")
		}
		cfg.AuthSecret = DevSecret
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TASKHUB_TOKEN_TTL must be greater than zero")
	}
	return &cfg, nil
}
