package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Remote   RemoteConfig   `toml:"remote"`
	Database DatabaseConfig `toml:"database"`
	Session  SessionConfig  `toml:"session"`
	Sync     SyncConfig     `toml:"sync"`
	Server   ServerConfig   `toml:"server"`
}

// RemoteConfig points at the hosted aggregator.
type RemoteConfig struct {
	BaseURL string `toml:"base_url"`
	WebURL  string `toml:"web_url"`
}

// DatabaseConfig contains settings-database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// SessionConfig locates the per-session unlock marker.
type SessionConfig struct {
	Dir string `toml:"dir"`
}

// SyncConfig tunes the subscription syncer.
type SyncConfig struct {
	DebounceMS int     `toml:"debounce_ms"`
	RateLimit  float64 `toml:"rate_limit"`
}

// Debounce returns the configured debounce window, defaulting to one second.
func (c SyncConfig) Debounce() time.Duration {
	if c.DebounceMS <= 0 {
		return time.Second
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// ServerConfig contains settings for the self-hosted config API.
type ServerConfig struct {
	Host             string   `toml:"host"`
	Port             int      `toml:"port"`
	Password         string   `toml:"password"`
	SubscriptionURLs []string `toml:"subscription_urls"`
}

// EnvPassword returns the server gate password, preferring the
// KVIDEO_PASSWORD environment variable over the config file.
func (c ServerConfig) EnvPassword() string {
	if p := os.Getenv("KVIDEO_PASSWORD"); p != "" {
		return p
	}
	return c.Password
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
