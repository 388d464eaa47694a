// File: internal/services/ai/config.go
package ai

import "fmt"

type Config struct {
	// Provider Configuration
	APIKey  string
	BaseURL string

	// Model Parameters
	Model       string
	MaxTokens   int
	Temperature float32
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Model == "" {
		return fmt.Errorf("chat model is required")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Model:       "gpt-3.5-turbo",
		MaxTokens:   1000,
		Temperature: 0.7,
	}
}
