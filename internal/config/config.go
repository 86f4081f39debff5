// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete voxdraw configuration.
type Config struct {
	Version string `toml:"version"`

	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
	UI      UIConfig      `toml:"ui"`
	Watch   WatchConfig   `toml:"watch"`
}

// StorageConfig controls diagram persistence.
type StorageConfig struct {
	// DatabasePath is the SQLite database holding saved diagrams.
	// Empty means ~/.voxdraw/diagrams.db.
	DatabasePath string `toml:"database_path"`

	// AutosaveName, when non-empty, is the diagram name the TUI and REPL
	// save to on exit.
	AutosaveName string `toml:"autosave_name"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	// Port the API listens on.
	Port int `toml:"port"`

	// BearerToken, when non-empty, is required on every request.
	BearerToken string `toml:"bearer_token"`

	// RateLimitPerSec caps transcript submissions per second (token bucket).
	RateLimitPerSec float64 `toml:"rate_limit_per_sec"`

	// RateLimitBurst is the token bucket burst size.
	RateLimitBurst int `toml:"rate_limit_burst"`
}

// UIConfig controls the terminal console.
type UIConfig struct {
	// Theme is "dark" or "light".
	Theme string `toml:"theme"`

	// HistoryLines is how many command-log lines the console shows.
	HistoryLines int `toml:"history_lines"`

	// ShowInventory toggles the node inventory side panel.
	ShowInventory bool `toml:"show_inventory"`
}

// WatchConfig controls the transcript-file watch mode.
type WatchConfig struct {
	// DebounceMillis is how long to wait after a write event before reading
	// newly appended lines.
	DebounceMillis int `toml:"debounce_millis"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Storage: StorageConfig{
			DatabasePath: "", // resolved lazily against the home dir
			AutosaveName: "",
		},
		Server: ServerConfig{
			Port:            8790,
			BearerToken:     "",
			RateLimitPerSec: 10,
			RateLimitBurst:  20,
		},
		UI: UIConfig{
			Theme:         "dark",
			HistoryLines:  12,
			ShowInventory: true,
		},
		Watch: WatchConfig{
			DebounceMillis: 150,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the voxdraw configuration directory (~/.voxdraw).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".voxdraw"), nil
}

// Path returns the config file path (~/.voxdraw/config.toml).
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DatabasePath resolves the SQLite path, falling back to the default under
// the config directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Storage.DatabasePath != "" {
		return c.Storage.DatabasePath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "diagrams.db"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config file, applies environment overrides, and validates.
// A missing file is not an error: defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.Validate()
	return cfg, nil
}

// LoadFromPath reads a specific config file (used by --config).
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.ApplyEnvOverrides()
	cfg.Validate()
	return cfg, nil
}

// Save writes the config as TOML.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// ApplyEnvOverrides applies VOXDRAW_* environment variables on top of the
// loaded values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("VOXDRAW_DB"); v != "" {
		c.Storage.DatabasePath = v
	}
	if v := os.Getenv("VOXDRAW_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("VOXDRAW_TOKEN"); v != "" {
		c.Server.BearerToken = v
	}
	if v := os.Getenv("VOXDRAW_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// Validate clamps out-of-range values to sane bounds rather than failing.
func (c *Config) Validate() {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		c.Server.Port = Default().Server.Port
	}
	if c.Server.RateLimitPerSec <= 0 {
		c.Server.RateLimitPerSec = Default().Server.RateLimitPerSec
	}
	if c.Server.RateLimitBurst < 1 {
		c.Server.RateLimitBurst = Default().Server.RateLimitBurst
	}
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		c.UI.Theme = "dark"
	}
	if c.UI.HistoryLines < 3 {
		c.UI.HistoryLines = 3
	}
	if c.UI.HistoryLines > 50 {
		c.UI.HistoryLines = 50
	}
	if c.Watch.DebounceMillis < 10 {
		c.Watch.DebounceMillis = 10
	}
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the process-wide config, loading it on first use.
func Global() *Config {
	globalMu.RLock()
	if globalCfg != nil {
		defer globalMu.RUnlock()
		return globalCfg
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalCfg = cfg
	}
	return globalCfg
}

// SetGlobal replaces the process-wide config.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}

// ResetGlobalForTesting clears the global config.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = nil
}
