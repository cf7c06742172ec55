// Package config loads the console's file-based configuration. Values
// given on the command line or via environment variables win over the
// file; the file wins over the built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config holds the console settings.
type Config struct {
	// ServerURL is the base URL of the admin API.
	ServerURL string `yaml:"serverUrl"`

	// TimeoutSeconds bounds every API call at the transport layer.
	TimeoutSeconds int `yaml:"timeout"`

	// SessionDir overrides where the session state is stored.
	SessionDir string `yaml:"sessionDir"`
}

// RequestTimeout returns the configured timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServerURL:      "https://localhost:8080",
		TimeoutSeconds: 30,
	}
}

// DefaultPath returns the standard config file location,
// ~/.adminctl/config.yaml, or the empty string when the home directory
// is unavailable.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".adminctl", "config.yaml")
}

// Load reads the config file at path, falling back to defaults when
// the file doesn't exist. An unreadable or malformed file is an error;
// a missing one is not.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = Default().TimeoutSeconds
	}

	log.Debug().Str("path", path).Msg("config file loaded")

	return cfg, nil
}
