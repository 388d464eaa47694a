// File: internal/services/ai/interface.go
package ai

import "context"

// ChatMessage is one role-tagged entry of the provider input.
type ChatMessage struct {
	Role    string
	Content string
}

// CompletionProvider relays an ordered conversation history to the hosted
// model service, either as one call or as an incremental fragment stream.
type CompletionProvider interface {
	Complete(ctx context.Context, history []ChatMessage) (string, error)
	StreamCompletion(ctx context.Context, history []ChatMessage, onDelta func(string) error) error
}
