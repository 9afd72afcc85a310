// File: internal/services/scrape/config.go
package scrape

import (
	"fmt"
	"time"
)

type Config struct {
	PerURLTimeout  time.Duration // Budget for a single page fetch
	MaxConcurrency int           // Parallel fetches within one call
	MaxURLs        int           // Hard cap per ScrapeMany call
	MaxTextBytes   int           // Extracted text is truncated beyond this
	UserAgent      string
}

func (c *Config) Validate() error {
	if c.PerURLTimeout <= 0 {
		return fmt.Errorf("per-URL timeout must be positive")
	}
	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("max concurrency must be positive")
	}
	if c.MaxURLs <= 0 {
		return fmt.Errorf("max URLs must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		PerURLTimeout:  20 * time.Second,
		MaxConcurrency: 5,
		MaxURLs:        10,
		MaxTextBytes:   40_000,
		UserAgent:      "go-askweb/1.0",
	}
}
