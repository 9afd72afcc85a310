// File: internal/services/chat/config.go
package chat

import (
	"fmt"
	"time"
)

type Config struct {
	// Model Configuration
	StreamModel string // AI model for streamed responses

	// Orchestration Configuration
	MaxToolSteps      int // Ceiling on reasoning steps per request
	SearchResultCount int // Default results per searchWeb call

	// Performance Configuration
	StepTimeout time.Duration // Budget for a single model invocation
	ToolTimeout time.Duration // Budget for one step's tool executions
	SaveTimeout time.Duration // Budget for the background snapshot write

	// Citation Configuration
	EnableSources bool // Whether to extract citation links from the reply
	MaxSources    int  // Maximum number of sources to surface

	// Title Configuration
	TitleMaxRunes int // New chat titles are cut to this many runes
}

func (c *Config) Validate() error {
	if c.StreamModel == "" {
		return fmt.Errorf("stream_model is required")
	}
	if c.MaxToolSteps <= 0 {
		return fmt.Errorf("max_tool_steps must be positive")
	}
	if c.MaxToolSteps > 25 {
		return fmt.Errorf("max_tool_steps cannot exceed 25")
	}
	if c.StepTimeout <= 0 || c.ToolTimeout <= 0 || c.SaveTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		StreamModel:       "gpt-4o-mini",
		MaxToolSteps:      10,
		SearchResultCount: 5,
		StepTimeout:       60 * time.Second,
		ToolTimeout:       45 * time.Second,
		SaveTimeout:       5 * time.Second,
		EnableSources:     true,
		MaxSources:        10,
		TitleMaxRunes:     40,
	}
}
