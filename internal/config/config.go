package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultBaseURL is the CRM platform's v2 REST endpoint.
const DefaultBaseURL = "https://services.leadconnectorhq.com"

// DefaultAPIVersion is sent on every request via the Version header.
const DefaultAPIVersion = "2021-07-28"

// Config holds all environment backed configuration for the gateway.
type Config struct {
	// CRM platform credentials
	CRMAPIKey     string `env:"CRM_API_KEY,notEmpty"`
	CRMLocationID string `env:"CRM_LOCATION_ID,notEmpty"`
	CRMBaseURL    string `env:"CRM_BASE_URL" envDefault:"https://services.leadconnectorhq.com"`
	CRMAPIVersion string `env:"CRM_API_VERSION" envDefault:"2021-07-28"`

	// HTTP
	HTTPTimeout time.Duration `env:"CRM_HTTP_TIMEOUT" envDefault:"30s"`

	// Rate limiting (shared quota against the platform, per process)
	RateLimitWindow time.Duration `env:"CRM_RATE_LIMIT_WINDOW" envDefault:"10s"`
	RateLimitMax    int           `env:"CRM_RATE_LIMIT_MAX" envDefault:"100"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load parses environment variables into Config and performs minimal validation.
// Missing credentials fail here, at startup, not on first call.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.CRMBaseURL); err != nil {
		return nil, fmt.Errorf("invalid CRM_BASE_URL: %w", err)
	}

	if cfg.RateLimitMax <= 0 {
		return nil, fmt.Errorf("CRM_RATE_LIMIT_MAX must be positive, got %d", cfg.RateLimitMax)
	}
	if cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("CRM_RATE_LIMIT_WINDOW must be positive, got %s", cfg.RateLimitWindow)
	}

	cfg.CRMBaseURL = strings.TrimRight(cfg.CRMBaseURL, "/")
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	return cfg, nil
}
