package gemini

import (
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"go.uber.org/zap"
)

// Factory creates new instances of Completer
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for Gemini completers
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCompleter creates a new Gemini-backed completer
func (f *Factory) CreateCompleter() (core.Completer, error) {
	geminiCfg := f.cfg.GetGemini()

	return NewCompleter(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		f.logger,
	)
}
