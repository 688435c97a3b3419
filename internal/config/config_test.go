// ABOUTME: Tests for configuration loading
// ABOUTME: Verifies defaults, overrides, and validation errors

package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("COFFEE_API_URL", "")
	t.Setenv("COFFEE_HTTP_TIMEOUT", "")
	t.Setenv("COFFEE_CATALOG_TTL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Errorf("expected default API URL %s, got %s", defaultAPIURL, cfg.APIURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.HTTPTimeout)
	}
	if cfg.CatalogTTL != 300*time.Second {
		t.Errorf("expected 300s catalog TTL, got %s", cfg.CatalogTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("COFFEE_API_URL", "https://coffebeam.example.com/api/")
	t.Setenv("COFFEE_HTTP_TIMEOUT", "5")
	t.Setenv("COFFEE_CATALOG_TTL", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "https://coffebeam.example.com/api" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.APIURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.HTTPTimeout)
	}
	if cfg.CatalogTTL != time.Minute {
		t.Errorf("expected 60s catalog TTL, got %s", cfg.CatalogTTL)
	}
}

func TestLoad_MissingScheme(t *testing.T) {
	t.Setenv("COFFEE_API_URL", "coffebeam.example.com/api")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for URL without scheme, got nil")
	}
	if !strings.Contains(err.Error(), "scheme") {
		t.Errorf("expected scheme error, got %v", err)
	}
}

func TestLoad_TimeoutTooSmall(t *testing.T) {
	t.Setenv("COFFEE_API_URL", "")
	t.Setenv("COFFEE_HTTP_TIMEOUT", "0")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for zero timeout, got nil")
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	dir := DefaultConfigDir()
	if dir != "/tmp/xdg-test/coffee-app" {
		t.Errorf("expected XDG path, got %s", dir)
	}
}
