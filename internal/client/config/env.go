package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const envCacheTTL = "HKJOBS_CACHE_TTL"

// envConfig lists the environment variables understood by parseEnv.
type envConfig struct {
	BaseURL             string        `env:"HKJOBS_BASE_URL"`
	OnlineCheckInterval time.Duration `env:"HKJOBS_ONLINE_CHECK_INTERVAL"`
	RequestTimeout      time.Duration `env:"HKJOBS_REQUEST_TIMEOUT"`
	RefreshTimeout      time.Duration `env:"HKJOBS_REFRESH_TIMEOUT"`
	RetryAttempts       int           `env:"HKJOBS_RETRY_ATTEMPTS"`
	RetryBaseDelay      time.Duration `env:"HKJOBS_RETRY_BASE_DELAY"`
	RetryMaxDelay       time.Duration `env:"HKJOBS_RETRY_MAX_DELAY"`
	CacheTTL            time.Duration `env:"HKJOBS_CACHE_TTL"`
	DatabasePath        string        `env:"HKJOBS_DB"`
	LogLevel            string        `env:"HKJOBS_LOG_LEVEL"`
}

// parseEnv overlays cfg with HKJOBS_* variables. Unset variables leave the
// current value alone. Panics on malformed values.
func parseEnv(cfg *Config) {
	var ec envConfig
	if err := cleanenv.ReadEnv(&ec); err != nil {
		panic(err)
	}

	setString(&cfg.BaseURL, ec.BaseURL)
	setDuration(&cfg.OnlineCheckInterval, ec.OnlineCheckInterval)
	setDuration(&cfg.RequestTimeout, ec.RequestTimeout)
	setDuration(&cfg.RefreshTimeout, ec.RefreshTimeout)
	setInt(&cfg.RetryAttempts, ec.RetryAttempts)
	setDuration(&cfg.RetryBaseDelay, ec.RetryBaseDelay)
	setDuration(&cfg.RetryMaxDelay, ec.RetryMaxDelay)
	// Zero is meaningful here (caching off), so presence decides.
	if _, ok := os.LookupEnv(envCacheTTL); ok {
		cfg.CacheTTL = ec.CacheTTL
	}
	setString(&cfg.DatabasePath, ec.DatabasePath)
	setString(&cfg.LogLevel, ec.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
