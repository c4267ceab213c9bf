package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8080", c.APIBaseURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, "calistrack.db", c.CachePath)
	assert.False(t, c.Ephemeral)
	assert.Equal(t, "info", c.LogLevel)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsWithoutArgs(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"calistrack"}
	t.Setenv("CALISTRACK_API_URL", "")
	t.Setenv("CALISTRACK_CACHE_PATH", "")
	t.Setenv("CALISTRACK_LOG_LEVEL", "")

	cfg := LoadConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTemp(t, "cfg.yaml", "api_base_url: http://file:1\ncache_path: file.db\nlog_level: warn\n")
	t.Setenv("CALISTRACK_API_URL", "http://env:2")
	t.Setenv("CALISTRACK_CACHE_PATH", "")
	t.Setenv("CALISTRACK_LOG_LEVEL", "")
	os.Args = []string{"calistrack", "-c", path, "-l", "debug"}

	cfg := LoadConfig()

	assert.Equal(t, "http://env:2", cfg.APIBaseURL, "env beats file")
	assert.Equal(t, "file.db", cfg.CachePath, "file beats defaults")
	assert.Equal(t, "debug", cfg.LogLevel, "flags beat file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"https", func(c *Config) { c.APIBaseURL = "https://api.calistrack.app/" }, false},
		{"no scheme", func(c *Config) { c.APIBaseURL = "localhost:8080" }, true},
		{"ftp", func(c *Config) { c.APIBaseURL = "ftp://host" }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"no cache path", func(c *Config) { c.CachePath = "" }, true},
		{"no cache path but ephemeral", func(c *Config) { c.CachePath = ""; c.Ephemeral = true }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CALISTRACK_API_URL", "https://env.example")
	t.Setenv("CALISTRACK_CACHE_PATH", "/tmp/env.db")
	t.Setenv("CALISTRACK_LOG_LEVEL", "error")

	var c Config
	c.LoadDefaults()
	applyEnv(&c)

	assert.Equal(t, "https://env.example", c.APIBaseURL)
	assert.Equal(t, "/tmp/env.db", c.CachePath)
	assert.Equal(t, "error", c.LogLevel)
}
