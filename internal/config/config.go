// ABOUTME: Configuration loader for the coffee-app client
// ABOUTME: Loads settings from environment variables with defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultAPIURL = "http://localhost:8456/api"

type Config struct {
	// API
	APIURL      string // base URL of the CoffeeBeam API, no trailing slash
	HTTPTimeout time.Duration

	// Local state
	CatalogTTL time.Duration // products/tags cache lifetime
	ConfigDir  string        // directory for persisted tokens
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:      strings.TrimRight(getEnv("COFFEE_API_URL", defaultAPIURL), "/"),
		HTTPTimeout: time.Duration(getEnvInt("COFFEE_HTTP_TIMEOUT", 30)) * time.Second,
		CatalogTTL:  time.Duration(getEnvInt("COFFEE_CATALOG_TTL", 300)) * time.Second,
		ConfigDir:   getEnv("COFFEE_CONFIG_DIR", DefaultConfigDir()),
	}

	if !strings.Contains(cfg.APIURL, "://") {
		return nil, fmt.Errorf("COFFEE_API_URL must include a scheme, got %q", cfg.APIURL)
	}
	if cfg.HTTPTimeout < time.Second {
		return nil, fmt.Errorf("COFFEE_HTTP_TIMEOUT must be at least 1 second")
	}

	return cfg, nil
}

// DefaultConfigDir returns the default config directory, honoring XDG_CONFIG_HOME.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "coffee-app")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "coffee-app")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
