package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"
)

// Completer is an implementation of the core.Completer interface using
// Amazon Bedrock
type Completer struct {
	client      *bedrockruntime.Client
	modelID     string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// NewCompleter creates a new Bedrock completer
func NewCompleter(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	logger *zap.Logger,
) *Completer {
	return &Completer{
		client:      client,
		modelID:     modelID,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// Complete sends the prompt and returns the raw completion text
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	var payload []byte
	var err error

	switch {
	case c.isAnthropicModel():
		// Claude text-completion models require the Human/Assistant framing.
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"stop_sequences":       []string{"\n"},
		})
	case c.isAmazonTitanModel():
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"stopSequences": []string{"\n"},
			},
		})
	default:
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
		})
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	text, err := c.extractText(resp.Body)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	c.logger.Debug("Bedrock completion",
		zap.String("model", c.modelID),
		zap.String("text", text))

	return text, nil
}

// extractText parses the model-specific response shape
func (c *Completer) extractText(body []byte) (string, error) {
	if c.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	}

	if c.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	}

	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &genericResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
	}
	switch {
	case genericResp.Output != "":
		return genericResp.Output, nil
	case genericResp.Text != "":
		return genericResp.Text, nil
	case genericResp.Response != "":
		return genericResp.Response, nil
	}
	return string(body), nil
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (c *Completer) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (c *Completer) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}
