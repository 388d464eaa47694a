// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"errors"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

func (p *OpenAIProvider) buildRequest(history []ChatMessage, stream bool) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Messages:    messages,
		MaxTokens:   p.config.MaxTokens,
		Temperature: p.config.Temperature,
		Stream:      stream,
	}
}

// Complete returns the full response text in one call. An empty response is
// treated as a provider failure, never handed to the caller.
func (p *OpenAIProvider) Complete(ctx context.Context, history []ChatMessage) (string, error) {
	if len(history) == 0 {
		return "", &AIError{Type: ErrTypeValidation, Operation: "completion", Message: "history cannot be empty"}
	}

	resp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(history, false))
	if err != nil {
		return "", NewProviderError("completion", "failed to create completion", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{
			Type:      ErrTypeProvider,
			Operation: "completion",
			Message:   "empty completion response",
		}
	}
	return resp.Choices[0].Message.Content, nil
}

// StreamCompletion forwards each text fragment to onDelta as it arrives.
// An error returned by onDelta aborts the stream and is returned unchanged.
func (p *OpenAIProvider) StreamCompletion(ctx context.Context, history []ChatMessage, onDelta func(string) error) error {
	if len(history) == 0 {
		return &AIError{Type: ErrTypeValidation, Operation: "streaming", Message: "history cannot be empty"}
	}

	stream, err := p.client.CreateChatCompletionStream(ctx, p.buildRequest(history, true))
	if err != nil {
		return NewProviderError("streaming", "failed to create stream", err)
	}
	defer stream.Close()

	for {
		response, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return NewProviderError("streaming", "stream receive error", err)
		}

		if len(response.Choices) > 0 {
			delta := response.Choices[0].Delta.Content
			if delta != "" && onDelta != nil {
				if cbErr := onDelta(delta); cbErr != nil {
					return cbErr
				}
			}
		}
	}
}
