// Package config provides configuration management for the chicbot client.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// History backends selectable via CHICBOT_HISTORY_BACKEND.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds the configuration for the client
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration

	HistoryBackend string
	HistoryPath    string

	TelemetryEnabled bool
	OTLPEndpoint     string
}

// Load loads configuration from environment variables
func Load() Config {
	config := Config{
		APIBaseURL:     "http://localhost:5000",
		RequestTimeout: 30 * time.Second, // Default
		HistoryBackend: BackendFile,
	}

	if url := os.Getenv("CHICBOT_API_URL"); url != "" {
		config.APIBaseURL = url
	}
	if timeout := os.Getenv("CHICBOT_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.RequestTimeout = d
		}
	}
	if backend := os.Getenv("CHICBOT_HISTORY_BACKEND"); backend != "" {
		config.HistoryBackend = backend
	}
	config.HistoryPath = os.Getenv("CHICBOT_HISTORY_PATH")
	config.TelemetryEnabled = os.Getenv("CHICBOT_TELEMETRY_ENABLED") == "true"
	config.OTLPEndpoint = os.Getenv("CHICBOT_OTLP_ENDPOINT")

	return config
}

// Validate checks if the configuration is usable
func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("missing API base URL")
	}
	if c.HistoryBackend != BackendFile && c.HistoryBackend != BackendSQLite {
		return fmt.Errorf("unknown history backend %q, expected %q or %q", c.HistoryBackend, BackendFile, BackendSQLite)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// ResolveHistoryPath returns the durable history location, defaulting to a
// backend-appropriate file under the user's home directory.
func (c Config) ResolveHistoryPath() (string, error) {
	if c.HistoryPath != "" {
		return c.HistoryPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	name := "history.json"
	if c.HistoryBackend == BackendSQLite {
		name = "history.db"
	}
	return filepath.Join(home, ".chicbot", name), nil
}
