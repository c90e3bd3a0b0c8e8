package utils

import (
	"unicode/utf8"

	"go.uber.org/zap"
)

// TextProcessor prepares message text for prompt embedding
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText caps text at maxSize bytes, backing off to a valid UTF-8
// boundary so the cut never splits a rune.
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	tp.logger.Debug("Text truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", maxSize))

	return truncated + "..."
}

// SanitizeUTF8 strips invalid UTF-8 sequences from the string
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				continue
			}
		}
		result = append(result, r)
	}

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(string(result))))

	return string(result)
}

// ProcessText sanitizes and truncates text in one operation
func (tp *TextProcessor) ProcessText(text string, maxSize int) string {
	return tp.TruncateText(tp.SanitizeUTF8(text), maxSize)
}
