package config

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds runtime settings for the Calistrack CLI.
type Config struct {
	// APIBaseURL is the single backend base URL; every request path is
	// appended to it.
	APIBaseURL string
	// RequestTimeout bounds every HTTP round trip.
	RequestTimeout time.Duration
	// CachePath is the SQLite file holding the session keys.
	CachePath string
	// Ephemeral swaps the SQLite cache for an in-memory one.
	Ephemeral bool
	LogLevel  string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080"
	c.RequestTimeout = 10 * time.Second
	c.CachePath = "calistrack.db"
	c.Ephemeral = false
	c.LogLevel = "info"
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid api base url %q: %w", c.APIBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api base url %q: want http(s)://host[:port]", c.APIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if !c.Ephemeral && c.CachePath == "" {
		return fmt.Errorf("cache path is required unless -ephemeral is set")
	}
	return nil
}

// LoadConfig constructs a Config from defaults, then the config file, the
// environment and finally command-line flags. Later sources win.
func LoadConfig() *Config {
	args := os.Args[1:]
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, args)
	applyEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
