package openai

import (
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Factory creates new instances of Completer
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for OpenAI completers
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCompleter creates a new OpenAI-backed completer
func (f *Factory) CreateCompleter() (core.Completer, error) {
	openaiCfg := f.cfg.GetOpenAI()

	client := openai.NewClient(openaiCfg.APIKey)

	return NewCompleter(
		client,
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		f.logger,
	), nil
}
