// File: internal/services/chat/config.go
package chat

import (
	"fmt"

	"github.com/arkovia/go-chatgate/internal/domain"
)

type Config struct {
	// TitleMaxRunes caps the length of a title derived from the first
	// user message; longer input is truncated with an ellipsis marker.
	TitleMaxRunes int

	// SentinelTitle is the placeholder a conversation keeps until its
	// first turn.
	SentinelTitle string
}

func (c *Config) Validate() error {
	if c.TitleMaxRunes <= 0 {
		return fmt.Errorf("title_max_runes must be positive")
	}
	if c.SentinelTitle == "" {
		return fmt.Errorf("sentinel_title is required")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		TitleMaxRunes: 50,
		SentinelTitle: domain.DefaultTitle,
	}
}
