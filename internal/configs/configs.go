/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures the remote gateway (base address, timeout, retry policy), the
session keystore, and the bundled mock API server by reading operating system
environment variables, with an optional .env file loaded first in development.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// defaultTokenSecret signs development session tokens when no secret is
// configured. It is intentionally worthless as a production credential.
const defaultTokenSecret = "eventbook_dev_insecure_secret_change_me"

// AppConfig contains all configuration parameters for the EventBook client
// and the bundled mock API server. All values are loaded from environment
// variables.
type AppConfig struct {
	// General Settings
	Environment string

	// Remote Gateway Settings
	BaseURL        string
	RequestTimeout time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration

	// Session Settings
	TokenSecret        string
	KeystorePath       string
	KeystorePassphrase string

	// Mock API Server Settings
	Port           int
	AllowedOrigins []string
}

// LoadConfig reads and parses the application configuration from environment
// variables. A .env file in the working directory is loaded first when
// present. Defaults are provided for every setting so a development client
// runs with no configuration at all.
func LoadConfig() (*AppConfig, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	// --- General Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// --- Remote Gateway Settings ---
	cfg.BaseURL = os.Getenv("API_BASE_URL")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080/api/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	timeoutMs, err := intEnv("API_TIMEOUT_MS", 10000)
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = time.Duration(timeoutMs) * time.Millisecond

	cfg.MaxRetries, err = intEnv("API_MAX_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("API_MAX_RETRIES must not be negative, got %d", cfg.MaxRetries)
	}

	backoffMs, err := intEnv("API_RETRY_BACKOFF_MS", 1000)
	if err != nil {
		return nil, err
	}
	cfg.RetryBackoff = time.Duration(backoffMs) * time.Millisecond

	// --- Session Settings ---
	cfg.TokenSecret = os.Getenv("TOKEN_SECRET")
	if cfg.TokenSecret == "" {
		if cfg.Environment != "development" {
			return nil, fmt.Errorf("TOKEN_SECRET environment variable is required in %s environment", cfg.Environment)
		}
		cfg.TokenSecret = defaultTokenSecret
	}

	cfg.KeystorePath = os.Getenv("KEYSTORE_PATH")
	if cfg.KeystorePath == "" {
		cfg.KeystorePath = filepathJoinHome(".eventbook", "keystore.json")
	}

	cfg.KeystorePassphrase = os.Getenv("KEYSTORE_PASSPHRASE")
	if cfg.KeystorePassphrase == "" {
		cfg.KeystorePassphrase = cfg.TokenSecret
	}

	// --- Mock API Server Settings ---
	cfg.Port, err = intEnv("PORT", 8080)
	if err != nil {
		return nil, err
	}
	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	return cfg, nil
}

// intEnv reads an integer environment variable, falling back to def when the
// variable is unset.
func intEnv(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return v, nil
}

// filepathJoinHome joins parts under the user home directory, falling back to
// the working directory when the home directory cannot be determined.
func filepathJoinHome(parts ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	joined := home
	for _, part := range parts {
		joined = joined + string(os.PathSeparator) + part
	}
	return joined
}
