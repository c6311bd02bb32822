package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigSaveAndLoad(t *testing.T) {
	// Use a temp dir as home
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg := CLIConfig{
		ServerURL: "http://myhost:9090",
		Token:     "rf_testtoken123",
		Email:     "alice@example.com",
	}

	if err := saveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Verify file exists
	path := filepath.Join(tmp, ".config", "rf", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not found: %v", err)
	}

	loaded, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ServerURL != cfg.ServerURL {
		t.Errorf("server_url = %q, want %q", loaded.ServerURL, cfg.ServerURL)
	}
	if loaded.Token != cfg.Token {
		t.Errorf("token = %q, want %q", loaded.Token, cfg.Token)
	}
	if loaded.Email != cfg.Email {
		t.Errorf("email = %q, want %q", loaded.Email, cfg.Email)
	}
}

func TestConfigLoadMissing(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if cfg.ServerURL != "" || cfg.Token != "" {
		t.Error("expected zero-value config for missing file")
	}
}

func TestGetServerURLFromEnv(t *testing.T) {
	t.Setenv("RF_SERVER_URL", "http://custom:1234")
	t.Setenv("HOME", t.TempDir())

	url := getServerURL()
	if url != "http://custom:1234" {
		t.Errorf("url = %q, want %q", url, "http://custom:1234")
	}
}

func TestGetServerURLDefault(t *testing.T) {
	t.Setenv("RF_SERVER_URL", "")
	t.Setenv("HOME", t.TempDir())

	url := getServerURL()
	if url != "http://localhost:8080" {
		t.Errorf("url = %q, want %q", url, "http://localhost:8080")
	}
}

func TestGetTokenFromEnv(t *testing.T) {
	t.Setenv("RF_TOKEN", "rf_envtoken")
	t.Setenv("HOME", t.TempDir())

	token := getToken()
	if token != "rf_envtoken" {
		t.Errorf("token = %q, want %q", token, "rf_envtoken")
	}
}

func TestGetTokenFromConfig(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("RF_TOKEN", "")

	cfg := CLIConfig{Token: "rf_configtoken"}
	if err := saveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	token := getToken()
	if token != "rf_configtoken" {
		t.Errorf("token = %q, want %q", token, "rf_configtoken")
	}
}

func TestGetTokenEmpty(t *testing.T) {
	t.Setenv("RF_TOKEN", "")
	t.Setenv("HOME", t.TempDir())

	token := getToken()
	if token != "" {
		t.Errorf("token = %q, want empty", token)
	}
}
