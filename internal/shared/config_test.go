package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Port != 8090 {
			t.Errorf("expected default port 8090, got %d", config.Server.Port)
		}
		if config.Sync.Debounce() != time.Second {
			t.Errorf("expected one second debounce, got %v", config.Sync.Debounce())
		}
		if config.Database.Path == "" {
			t.Error("expected a default database path")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")

		content := `
[remote]
base_url = "https://kvideo.example.com"

[sync]
debounce_ms = 250
rate_limit = 2.5
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Remote.BaseURL != "https://kvideo.example.com" {
			t.Errorf("unexpected base url: %s", config.Remote.BaseURL)
		}
		if config.Sync.Debounce() != 250*time.Millisecond {
			t.Errorf("unexpected debounce: %v", config.Sync.Debounce())
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}
		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when config file already exists")
		}
	})

	t.Run("EnvPassword Prefers Environment", func(t *testing.T) {
		t.Setenv("KVIDEO_PASSWORD", "from-env")

		server := ServerConfig{Password: "from-file"}
		if got := server.EnvPassword(); got != "from-env" {
			t.Errorf("expected env password, got %s", got)
		}
	})
}
