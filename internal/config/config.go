// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for atui.
//
// Configuration is resolved in order of precedence:
//   - environment variables (ATUI_*)
//   - ~/.atui/config.toml
//   - built-in defaults
//
// The backend origin is the single required setting. The WebSocket endpoint is
// derived from it: http becomes ws, https becomes wss, path /ws.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/atiumresearch/atui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete atui configuration.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	UI      UIConfig      `toml:"ui"`
}

// BackendConfig locates the backend service.
type BackendConfig struct {
	// URL is the backend origin, no trailing slash (e.g. https://backend.example.com).
	URL string `toml:"url"`
	// APIPrefix is prepended to REST paths (default "/api").
	APIPrefix string `toml:"api_prefix"`
	// RequireTLS rejects plaintext ws:// stream connections. Mirrors the
	// browser rule that a secure page must not open an insecure socket.
	RequireTLS bool `toml:"require_tls"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme forces the background assumption: "dark", "light", or "auto".
	Theme string `toml:"theme"`
	// Glamour enables markdown rendering of agent replies.
	Glamour bool `toml:"glamour"`
	// MaxToolSummaryLen caps the rendering of unknown tool inputs.
	MaxToolSummaryLen int `toml:"max_tool_summary_len"`
}

// Environment variable overrides.
const (
	EnvBackendURL = "ATUI_BACKEND_URL"
	EnvAPIPrefix  = "ATUI_API_PREFIX"
	EnvRequireTLS = "ATUI_REQUIRE_TLS"
)

// Errors surfaced by validation and URL derivation.
var (
	ErrNoBackend  = errors.New("backend URL is not configured: set backend.url in ~/.atui/config.toml or ATUI_BACKEND_URL")
	ErrInsecureWS = errors.New("backend URL is plain http but require_tls is set: refusing to open an insecure stream connection")
	ErrBadBackend = errors.New("backend URL is not a valid http(s) origin")
)

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:       "http://localhost:8000",
			APIPrefix: "/api",
		},
		UI: UIConfig{
			Theme:             "auto",
			Glamour:           true,
			MaxToolSummaryLen: 80,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the atui configuration directory (~/.atui).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".atui"), nil
}

// Path returns the path of the TOML configuration file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration file if present, applies environment overrides,
// normalizes, and validates. A missing file is not an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies ATUI_* environment variables over file values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvBackendURL); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv(EnvAPIPrefix); v != "" {
		c.Backend.APIPrefix = v
	}
	if v := os.Getenv(EnvRequireTLS); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Backend.RequireTLS = b
		}
	}
}

// normalize strips trailing slashes and fills zero values.
func (c *Config) normalize() {
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")
	c.Backend.APIPrefix = strings.TrimRight(c.Backend.APIPrefix, "/")
	if c.Backend.APIPrefix != "" && !strings.HasPrefix(c.Backend.APIPrefix, "/") {
		c.Backend.APIPrefix = "/" + c.Backend.APIPrefix
	}
	if c.UI.MaxToolSummaryLen <= 0 {
		c.UI.MaxToolSummaryLen = 80
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		c.UI.Theme = "auto"
	}
}

// Validate checks the configuration for problems that would prevent any
// backend traffic. It does not reach the network.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return ErrNoBackend
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrBadBackend, c.Backend.URL)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("%w: scheme %q", ErrBadBackend, u.Scheme)
	}
	if c.Backend.RequireTLS && u.Scheme == "http" {
		return ErrInsecureWS
	}
	return nil
}

// Save writes the configuration atomically to the default path.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration atomically to a specific path.
func SaveToPath(cfg *Config, path string) error {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(sb.String()), 0600)
}

// =============================================================================
// DERIVED ENDPOINTS
// =============================================================================

// APIBase returns the REST base: origin plus prefix (e.g. https://host/api).
func (c *Config) APIBase() string {
	return c.Backend.URL + c.Backend.APIPrefix
}

// WebSocketURL derives the stream endpoint from the backend origin:
// http → ws, https → wss, path /ws. Fails when the origin is unset or a
// plaintext scheme is forbidden by RequireTLS.
func (c *Config) WebSocketURL() (string, error) {
	if c.Backend.URL == "" {
		return "", ErrNoBackend
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrBadBackend, c.Backend.URL)
	}
	switch u.Scheme {
	case "http":
		if c.Backend.RequireTLS {
			return "", ErrInsecureWS
		}
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("%w: scheme %q", ErrBadBackend, u.Scheme)
	}
	u.Path = "/ws"
	return u.String(), nil
}
