package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/hkjobs/internal/flagx"
	"github.com/dmitrijs2005/hkjobs/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	BaseURL             string          `json:"base_url"`
	OnlineCheckInterval timex.Duration  `json:"online_check_interval"`
	RequestTimeout      timex.Duration  `json:"request_timeout"`
	RefreshTimeout      timex.Duration  `json:"refresh_timeout"`
	RetryAttempts       int             `json:"retry_attempts"`
	RetryBaseDelay      timex.Duration  `json:"retry_base_delay"`
	RetryMaxDelay       timex.Duration  `json:"retry_max_delay"`
	CacheTTL            *timex.Duration `json:"cache_ttl"`
	DatabasePath        string          `json:"database_path"`
	LogLevel            string          `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c or -config. Keys
// missing from the file leave the current value alone. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.BaseURL, jc.BaseURL)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval.Duration)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout.Duration)
	setDuration(&cfg.RefreshTimeout, jc.RefreshTimeout.Duration)
	setInt(&cfg.RetryAttempts, jc.RetryAttempts)
	setDuration(&cfg.RetryBaseDelay, jc.RetryBaseDelay.Duration)
	setDuration(&cfg.RetryMaxDelay, jc.RetryMaxDelay.Duration)
	// Zero is meaningful here (caching off), hence the pointer.
	if jc.CacheTTL != nil {
		cfg.CacheTTL = jc.CacheTTL.Duration
	}
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
}
