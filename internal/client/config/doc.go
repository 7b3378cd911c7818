// Package config loads runtime configuration for the job-search CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. HKJOBS_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string          API base URL
//	-i int             online status check interval (seconds)
//	-t duration        HTTP request timeout
//	-db string         local SQLite database path
//	-log-level string  debug, info, warn or error
//
// # JSON schema
//
// Durations can be strings like "3s" or integer nanoseconds:
//
//	{
//	  "base_url": "https://jobs.example.hk/api",
//	  "online_check_interval": "30s",
//	  "request_timeout": "15s",
//	  "refresh_timeout": "10s",
//	  "retry_attempts": 3,
//	  "retry_base_delay": "1s",
//	  "retry_max_delay": "30s",
//	  "cache_ttl": "1m",
//	  "database_path": "hkjobs.db",
//	  "log_level": "info"
//	}
//
// # Environment
//
// HKJOBS_BASE_URL, HKJOBS_ONLINE_CHECK_INTERVAL, HKJOBS_REQUEST_TIMEOUT,
// HKJOBS_REFRESH_TIMEOUT, HKJOBS_RETRY_ATTEMPTS, HKJOBS_RETRY_BASE_DELAY,
// HKJOBS_RETRY_MAX_DELAY, HKJOBS_CACHE_TTL, HKJOBS_DB, HKJOBS_LOG_LEVEL.
package config
