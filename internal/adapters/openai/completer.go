package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Completer is an implementation of the core.Completer interface using OpenAI
type Completer struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// NewCompleter creates a new OpenAI completer
func NewCompleter(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	logger *zap.Logger,
) *Completer {
	return &Completer{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// Complete sends the prompt and returns the raw completion text. One
// candidate, stopped at the first line break.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		N:           1,
		Stop:        []string{"\n"},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.logger.Debug("OpenAI completion",
		zap.String("model", c.modelName),
		zap.String("text", text))

	return text, nil
}
