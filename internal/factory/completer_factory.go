package factory

import (
	"fmt"

	"github.com/mikey/mail-triage/internal/adapters/bedrock"
	"github.com/mikey/mail-triage/internal/adapters/gemini"
	"github.com/mikey/mail-triage/internal/adapters/openai"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"go.uber.org/zap"
)

// CompleterFactory creates completion-provider clients
type CompleterFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCompleterFactory creates a new completer factory
func NewCompleterFactory(cfg *config.Config, logger *zap.Logger) *CompleterFactory {
	return &CompleterFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCompleter creates a new completer based on the configuration
func (f *CompleterFactory) CreateCompleter() (core.Completer, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "openai":
		return openai.NewFactory(f.cfg, f.logger).CreateCompleter()
	case "gemini":
		return gemini.NewFactory(f.cfg, f.logger).CreateCompleter()
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger).CreateCompleter()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}
