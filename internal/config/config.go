// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the API key goes to secure storage.
// Environment variables override values from the config file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"playcap/cli/internal/xdg"

	"github.com/caarlos0/env/v11"
)

// DefaultAPIBaseURL is the production identity/upload endpoint.
const DefaultAPIBaseURL = "https://api.playcap.dev"

// Config holds non-sensitive CLI settings.
type Config struct {
	// APIBaseURL is the base URL for the validation and upload endpoints.
	APIBaseURL string `json:"api_base_url" env:"PLAYCAP_API_URL"`
	// BypassAuth short-circuits the authenticated check. Intended for
	// embedding contexts where the host has already satisfied auth.
	BypassAuth bool `json:"bypass_auth" env:"PLAYCAP_BYPASS_AUTH"`
	// RecordingsDir is the root directory scanned for finished sessions.
	RecordingsDir string `json:"recordings_dir" env:"PLAYCAP_RECORDINGS_DIR"`
	// LogLevel controls diagnostic output verbosity.
	LogLevel string `json:"log_level" env:"PLAYCAP_LOG_LEVEL"`
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults. Environment
// variables are applied last and win over file values.
func Load() (Config, error) {
	c := Config{
		APIBaseURL: DefaultAPIBaseURL,
		LogLevel:   "info",
	}
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err == nil {
		if err := json.Unmarshal(data, &c); err != nil {
			return c, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return c, err
	}
	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}
	if c.RecordingsDir == "" {
		if dir, err := xdg.DataDir(); err == nil {
			c.RecordingsDir = filepath.Join(dir, "recordings")
		}
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
