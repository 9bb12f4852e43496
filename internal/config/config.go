// Package config loads and saves the Vantage client configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the full Vantage configuration
type Config struct {
	API          APIConfig         `json:"api"`
	Environments map[string]string `json:"environments"`
	Session      SessionConfig     `json:"session"`
	Log          LogConfig         `json:"log"`
	UI           UIConfig          `json:"ui"`
	Invite       InviteConfig      `json:"invite"`
	Network      NetworkConfig     `json:"network"`
}

// APIConfig contains REST backend settings
type APIConfig struct {
	BaseURL   string `json:"baseUrl"`
	TimeoutMs int    `json:"timeoutMs"`
}

// SessionConfig contains credential store settings
type SessionConfig struct {
	Path string `json:"path"`
}

// LogConfig contains logging settings
type LogConfig struct {
	File  string `json:"file"`
	Level string `json:"level"`
}

// UIConfig contains notification and layout settings
type UIConfig struct {
	ToastMs      int  `json:"toastMs"`
	ErrorToastMs int  `json:"errorToastMs"`
	Inline       bool `json:"inline"` // render without the alternate screen
}

// InviteConfig contains invitation flow settings
type InviteConfig struct {
	RedirectDelayMs int `json:"redirectDelayMs"`
}

// NetworkConfig contains connectivity check settings
type NetworkConfig struct {
	CheckInterval int `json:"checkInterval"`
}

// Timeout returns the per-request timeout
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// ToastDuration returns how long info/success toasts stay visible
func (c UIConfig) ToastDuration() time.Duration {
	return time.Duration(c.ToastMs) * time.Millisecond
}

// ErrorToastDuration returns how long error toasts stay visible
func (c UIConfig) ErrorToastDuration() time.Duration {
	return time.Duration(c.ErrorToastMs) * time.Millisecond
}

// RedirectDelay returns the pause before leaving a successful invitation
func (c InviteConfig) RedirectDelay() time.Duration {
	return time.Duration(c.RedirectDelayMs) * time.Millisecond
}

// HomeDir returns ~/.vantage
func HomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".vantage"
	}
	return filepath.Join(homeDir, ".vantage")
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	home := HomeDir()

	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8000",
			TimeoutMs: 15000,
		},
		Environments: make(map[string]string),
		Session: SessionConfig{
			Path: filepath.Join(home, "session.json"),
		},
		Log: LogConfig{
			File:  filepath.Join(home, "vantage.log"),
			Level: "info",
		},
		UI: UIConfig{
			ToastMs:      3000,
			ErrorToastMs: 6000,
		},
		Invite: InviteConfig{
			RedirectDelayMs: 1500,
		},
		Network: NetworkConfig{
			CheckInterval: 60,
		},
	}
}

// LoadConfig loads configuration with priority:
// 1. Environment variables (VANTAGE_API_URL, VANTAGE_LOG_LEVEL)
// 2. .vantage.json in the given directory
// 3. ~/.vantage/config.json
// 4. Defaults
func LoadConfig(dir string) (*Config, error) {
	candidates := []string{
		filepath.Join(dir, ".vantage.json"),
		filepath.Join(HomeDir(), "config.json"),
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cfg, err := ParseVersionedConfig(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return applyEnv(MergeWithDefaults(cfg)), nil
	}

	return applyEnv(DefaultConfig()), nil
}

// LoadFile loads configuration from an explicit path
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := ParseVersionedConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return applyEnv(MergeWithDefaults(cfg)), nil
}

// SaveConfig saves configuration to the specified path with version information
func SaveConfig(cfg *Config, path string) error {
	data, err := MarshalVersionedConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeWithDefaults fills in missing values with defaults
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.TimeoutMs == 0 {
		cfg.API.TimeoutMs = defaults.API.TimeoutMs
	}
	if cfg.Environments == nil {
		cfg.Environments = defaults.Environments
	}

	if cfg.Session.Path == "" {
		cfg.Session.Path = defaults.Session.Path
	}

	if cfg.Log.File == "" {
		cfg.Log.File = defaults.Log.File
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}

	if cfg.UI.ToastMs == 0 {
		cfg.UI.ToastMs = defaults.UI.ToastMs
	}
	if cfg.UI.ErrorToastMs == 0 {
		cfg.UI.ErrorToastMs = defaults.UI.ErrorToastMs
	}

	if cfg.Invite.RedirectDelayMs == 0 {
		cfg.Invite.RedirectDelayMs = defaults.Invite.RedirectDelayMs
	}

	if cfg.Network.CheckInterval == 0 {
		cfg.Network.CheckInterval = defaults.Network.CheckInterval
	}

	return cfg
}

// UseEnvironment switches the API base URL to a named environment
func (c *Config) UseEnvironment(name string) error {
	url, ok := c.Environments[name]
	if !ok {
		return fmt.Errorf("unknown environment %q", name)
	}
	c.API.BaseURL = url
	return nil
}

func applyEnv(cfg *Config) *Config {
	if v := strings.TrimSpace(os.Getenv("VANTAGE_API_URL")); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("VANTAGE_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	return cfg
}

// Load is a convenience function that loads config from current directory
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadConfig(cwd)
}
