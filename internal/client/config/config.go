package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/logging"
)

// Config holds runtime settings for the job-search CLI.
type Config struct {
	// BaseURL is the API root, e.g. "https://jobs.example.hk/api".
	BaseURL string
	// OnlineCheckInterval is how often the CLI probes GET /health.
	OnlineCheckInterval time.Duration
	// RequestTimeout bounds a single HTTP exchange.
	RequestTimeout time.Duration
	// RefreshTimeout bounds one token refresh call.
	RefreshTimeout time.Duration

	RetryAttempts  int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	// CacheTTL is the lifetime of cached read-only lookups; 0 disables caching.
	CacheTTL time.Duration
	// DatabasePath is the local SQLite file holding the session.
	// ":memory:" keeps the session for the lifetime of the process only.
	DatabasePath string
	LogLevel     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080/api"
	c.OnlineCheckInterval = 30 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.RefreshTimeout = 10 * time.Second
	c.RetryAttempts = 3
	c.RetryBaseDelay = time.Second
	c.RetryMaxDelay = 30 * time.Second
	c.CacheTTL = time.Minute
	c.DatabasePath = "hkjobs.db"
	c.LogLevel = "info"
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base url %q", c.BaseURL)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval)
	}
	if c.RequestTimeout <= 0 || c.RefreshTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.RetryAttempts)
	}
	if c.RetryBaseDelay <= 0 || c.RetryMaxDelay < c.RetryBaseDelay {
		return fmt.Errorf("invalid retry delays %s..%s", c.RetryBaseDelay, c.RetryMaxDelay)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), HKJOBS_* environment variables and command-line flags.
// Later sources take precedence over earlier ones. It panics on malformed
// input and on an invalid result.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
