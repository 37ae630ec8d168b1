package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultSessionKey = "KycPayWebSessionKey2025Change123"

type Config struct {
	Port           string        `env:"PORT" envDefault:"3000"`
	Environment    string        `env:"ENVIRONMENT" envDefault:"development"`
	BackendURL     string        `env:"BACKEND_URL" envDefault:"http://localhost:8000/api/"`
	DatabaseURL    string        `env:"DATABASE_URL" envDefault:"kycpay-web.db"`
	SessionKey     string        `env:"SESSION_KEY"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecure   bool          `env:"COOKIE_SECURE" envDefault:"false"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" envDefault:"50"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.SessionKey == "" {
		cfg.SessionKey = defaultSessionKey
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate rejects settings the server cannot start with. Warnings are
// returned separately so the caller can log them.
func Validate(cfg *Config) (warnings []string, err error) {
	if len(cfg.SessionKey) != 32 {
		return nil, fmt.Errorf("SESSION_KEY must be exactly 32 characters, got %d", len(cfg.SessionKey))
	}

	u, err := url.Parse(cfg.BackendURL)
	if err != nil {
		return nil, fmt.Errorf("BACKEND_URL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("BACKEND_URL must be an absolute http(s) url, got %q", cfg.BackendURL)
	}

	if cfg.SessionTTL <= 0 {
		return nil, errors.New("SESSION_TTL must be positive")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, errors.New("REQUEST_TIMEOUT must be positive")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return nil, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	if cfg.IsProduction() {
		if cfg.SessionKey == defaultSessionKey {
			warnings = append(warnings, "change SESSION_KEY in production environment")
		}
		if !cfg.CookieSecure {
			warnings = append(warnings, "COOKIE_SECURE should be enabled in production environment")
		}
	}
	return warnings, nil
}
