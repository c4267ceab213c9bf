package config

import "os"

// applyEnv overlays values from CALISTRACK_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CALISTRACK_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("CALISTRACK_CACHE_PATH"); v != "" {
		cfg.CachePath = v
	}
	if v := os.Getenv("CALISTRACK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
