package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Completer is an implementation of the core.Completer interface using
// Google Gemini
type Completer struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	logger    *zap.Logger
}

// NewCompleter creates a new Gemini completer
func NewCompleter(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	logger *zap.Logger,
) (*Completer, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.SetCandidateCount(1)
	model.StopSequences = []string{"\n"}

	return &Completer{
		client:    client,
		model:     model,
		modelName: modelName,
		logger:    logger,
	}, nil
}

// Close closes the Gemini client
func (c *Completer) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Complete sends the prompt and returns the raw completion text
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	part := resp.Candidates[0].Content.Parts[0]
	text, ok := part.(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type %T from Gemini", part)
	}

	out := strings.TrimSpace(string(text))
	c.logger.Debug("Gemini completion",
		zap.String("model", c.modelName),
		zap.String("text", out))

	return out, nil
}
