// File: internal/services/search/config.go
package search

import (
	"fmt"
	"time"
)

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration

	// Bounds on the caller-requested result count
	DefaultResultCount int
	MaxResultCount     int
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("SERPER_API_KEY is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:            "https://google.serper.dev",
		Timeout:            15 * time.Second,
		DefaultResultCount: 5,
		MaxResultCount:     20,
	}
}
