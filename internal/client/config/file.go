package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/calistrack/calistrack/internal/flagx"
	"github.com/calistrack/calistrack/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the config file. Zero values leave the
// corresponding Config field untouched.
type FileConfig struct {
	APIBaseURL     string         `json:"api_base_url" yaml:"api_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	CachePath      string         `json:"cache_path" yaml:"cache_path"`
	Ephemeral      *bool          `json:"ephemeral" yaml:"ephemeral"`
	LogLevel       string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays Config with the file named by -c/-config. It does
// nothing when no file is given and panics when the file cannot be read or
// decoded.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc FileConfig) apply(cfg *Config) {
	if fc.APIBaseURL != "" {
		cfg.APIBaseURL = fc.APIBaseURL
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.CachePath != "" {
		cfg.CachePath = fc.CachePath
	}
	if fc.Ephemeral != nil {
		cfg.Ephemeral = *fc.Ephemeral
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
}
