package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/Asim1921/Jodi-frontend/pkg/config"
)

// Config holds all configuration for the frontend service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"3000"`

	// Remote Jodi's List API.
	APIBaseURL     string        `env:"API_BASE_URL" envDefault:"http://localhost:8080/api/v1"`
	APITimeout     time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
	APIMaxRetries  int           `env:"API_MAX_RETRIES" envDefault:"2"`
	ReviewsPerPage int           `env:"REVIEWS_PER_PAGE" envDefault:"10"`

	// Browser sessions.
	SessionSecret string        `env:"SESSION_SECRET" envDefault:"dev-session-secret-change-me"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"720h"`

	// Redis session storage. Empty address selects in-memory sessions,
	// which only works for a single instance.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// CORS.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Rate limiting.
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"100"`

	// Tracing.
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load frontend config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.Environment != "development" && c.SessionSecret == "dev-session-secret-change-me" {
		return fmt.Errorf("SESSION_SECRET must be changed from default value in %s environment", c.Environment)
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL must not be empty")
	}
	return nil
}
