package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/adapters/gmailbox"
	"github.com/mikey/mail-triage/internal/adapters/web"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/factory"
	"github.com/mikey/mail-triage/internal/logging"
	"github.com/mikey/mail-triage/internal/ports"
	"github.com/mikey/mail-triage/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewCompleterFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(gmailbox.NewFactory); err != nil {
		return nil, err
	}

	// Register completer
	if err := container.Provide(func(f *factory.CompleterFactory) (core.Completer, error) {
		return f.CreateCompleter()
	}); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register mailbox opener
	if err := container.Provide(func(f *gmailbox.Factory) core.MailboxOpener {
		return f.Opener()
	}); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(
		completer core.Completer,
		textProcessor *utils.TextProcessor,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.Classifier {
		return core.NewClassifier(completer, textProcessor, cfg.GetTriage().MaxSnippetSize, logger)
	}); err != nil {
		return nil, err
	}

	// Register triage service
	if err := container.Provide(func(
		open core.MailboxOpener,
		classifier *core.Classifier,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.TriageService {
		return core.NewTriageService(open, classifier, logger, cfg.GetTriage().MaxResults)
	}); err != nil {
		return nil, err
	}

	// Register web front end
	if err := container.Provide(func(
		cfg *config.Config,
		svc *core.TriageService,
		open core.MailboxOpener,
		logger *zap.Logger,
	) (ports.Frontend, error) {
		return web.NewServer(cfg, svc, open, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
