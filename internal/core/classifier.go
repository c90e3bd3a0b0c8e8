package core

import (
	"context"

	"github.com/mikey/mail-triage/internal/utils"
	"go.uber.org/zap"
)

// Classifier assigns a category to a message via the completion provider.
// It never fails: completion errors and unexpected responses both resolve
// to the fallback category for the active set.
type Classifier struct {
	completer      Completer
	textProcessor  *utils.TextProcessor
	maxSnippetSize int
	logger         *zap.Logger
}

// NewClassifier creates a new classifier
func NewClassifier(
	completer Completer,
	textProcessor *utils.TextProcessor,
	maxSnippetSize int,
	logger *zap.Logger,
) *Classifier {
	return &Classifier{
		completer:      completer,
		textProcessor:  textProcessor,
		maxSnippetSize: maxSnippetSize,
		logger:         logger,
	}
}

// Classify determines the category for a message given an optional
// free-text instruction.
func (c *Classifier) Classify(ctx context.Context, subject, snippet, instruction string) Category {
	allowed := AllowedCategories(instruction)
	snippet = c.textProcessor.ProcessText(snippet, c.maxSnippetSize)
	prompt := BuildPrompt(subject, snippet, instruction)

	c.logger.Debug("Sending classification prompt", zap.String("subject", subject))

	raw, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		c.logger.Warn("Completion failed, using fallback category",
			zap.String("subject", subject),
			zap.Error(err))
		return FallbackCategory(allowed, subject)
	}

	category := NormalizeResponse(raw, allowed, subject)
	c.logger.Debug("Classification result",
		zap.String("raw", raw),
		zap.String("category", string(category)))

	return category
}
