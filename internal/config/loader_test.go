package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %q", cfg.Server.Addr)
	}
	if cfg.Store.ListName != "Employee Database" {
		t.Fatalf("unexpected default list name: %q", cfg.Store.ListName)
	}
	if cfg.Store.Timeout != 30*time.Second {
		t.Fatalf("unexpected default timeout: %v", cfg.Store.Timeout)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  addr: \":9090\"\nstore:\n  baseurl: https://tenant.example/sites/hr\n  list_name: Staff\n  timeout: 10s\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}
	if cfg.Store.BaseURL != "https://tenant.example/sites/hr" {
		t.Fatalf("unexpected base url: %q", cfg.Store.BaseURL)
	}
	if cfg.Store.ListName != "Staff" {
		t.Fatalf("unexpected list name: %q", cfg.Store.ListName)
	}
	if cfg.Store.Timeout != 10*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Store.Timeout)
	}
	// Unset keys keep their defaults.
	if cfg.Server.AllowedOrigin != "http://localhost:3000" {
		t.Fatalf("unexpected origin: %q", cfg.Server.AllowedOrigin)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BULKUPLOAD_STORE_AUTH_TOKEN", "secret-token")
	t.Setenv("BULKUPLOAD_SERVER_ADDR", ":7070")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Store.AuthToken != "secret-token" {
		t.Fatalf("env auth token not applied: %q", cfg.Store.AuthToken)
	}
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("env addr not applied: %q", cfg.Server.Addr)
	}
}
