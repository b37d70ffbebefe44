package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "http://localhost:8080" {
			t.Errorf("expected API base URL http://localhost:8080, got %s", config.API.BaseURL)
		}

		if config.API.RateLimit != 4.0 {
			t.Errorf("expected rate limit 4.0, got %f", config.API.RateLimit)
		}

		if config.Identity.TokenURL != "https://securetoken.googleapis.com/v1/token" {
			t.Errorf("expected secure token URL, got %s", config.Identity.TokenURL)
		}

		if config.Database.Path != "~/.gamedex/cache.db" {
			t.Errorf("expected database path ~/.gamedex/cache.db, got %s", config.Database.Path)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "https://tracker.example.com"
rate_limit = 2.5

[identity]
base_url = "https://identity.example.com/v1"
api_key = "test_api_key"
token_url = "https://token.example.com/v1/token"
session_file = "/tmp/session.json"

[database]
path = "/custom/cache.db"
max_open_conns = 20
max_idle_conns = 10
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://tracker.example.com" {
			t.Errorf("expected API base URL https://tracker.example.com, got %s", config.API.BaseURL)
		}

		if config.API.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %f", config.API.RateLimit)
		}

		if config.Identity.APIKey != "test_api_key" {
			t.Errorf("expected identity api_key test_api_key, got %s", config.Identity.APIKey)
		}

		if config.Database.Path != "/custom/cache.db" {
			t.Errorf("expected database path /custom/cache.db, got %s", config.Database.Path)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
