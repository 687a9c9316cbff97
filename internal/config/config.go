package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds the configuration for the client core.
type Config struct {
	// APIBaseURL is the root of the shopping-list backend, e.g.
	// "https://api.listita.app/v1".
	APIBaseURL string

	// DataPath is the directory holding the local preferences database.
	DataPath string

	// HTTPTimeout bounds every gateway call.
	HTTPTimeout time.Duration
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	apiURL := os.Getenv("LISTITA_API_URL")
	if apiURL == "" {
		return nil, fmt.Errorf("LISTITA_API_URL environment variable not set")
	}

	dataPath := os.Getenv("LISTITA_DATA_PATH")
	if dataPath == "" {
		dataPath = "./data"
	}

	timeout := 15 * time.Second
	if raw := os.Getenv("LISTITA_HTTP_TIMEOUT"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("LISTITA_HTTP_TIMEOUT must be a positive number of seconds, got %q", raw)
		}
		timeout = time.Duration(seconds) * time.Second
	}

	return &Config{
		APIBaseURL:  apiURL,
		DataPath:    dataPath,
		HTTPTimeout: timeout,
	}, nil
}

// DatabasePath is the location of the local preferences database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataPath, "listita.db")
}
