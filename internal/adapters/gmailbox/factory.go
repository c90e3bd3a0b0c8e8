package gmailbox

import (
	"context"
	"fmt"

	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Factory opens authenticated mailboxes
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for Gmail mailboxes
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// Opener returns a core.MailboxOpener that authenticates and builds a
// fresh client per call, matching the one-authentication-per-run model.
func (f *Factory) Opener() core.MailboxOpener {
	return func(ctx context.Context) (core.Mailbox, error) {
		return f.Open(ctx)
	}
}

// Open authenticates against Gmail and returns a client bound to the token
func (f *Factory) Open(ctx context.Context) (*Client, error) {
	gmailCfg := f.cfg.GetGmail()

	auth, err := NewAuthenticator(gmailCfg.CredentialsFile, gmailCfg.TokenFile, f.logger)
	if err != nil {
		return nil, err
	}

	tok, err := auth.Token(ctx)
	if err != nil {
		return nil, err
	}

	httpClient := auth.config.Client(ctx, tok)
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return NewClient(svc, f.logger), nil
}
