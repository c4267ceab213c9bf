// Package config loads runtime configuration for the Calistrack CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. Environment variables CALISTRACK_API_URL, CALISTRACK_CACHE_PATH and
//     CALISTRACK_LOG_LEVEL.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string     base URL of the REST backend
//	-t int        request timeout (seconds)
//	-d string     path of the local SQLite cache
//	-l string     log level (debug, info, warn, error)
//	-ephemeral    keep the session in memory only
//
// # File schema
//
// Durations use timex.Duration, so they may be strings like "10s" or integer
// nanoseconds:
//
//	api_base_url: "https://api.calistrack.app"
//	request_timeout: "10s"
//	cache_path: "/home/me/.calistrack.db"
//	log_level: "debug"
package config
