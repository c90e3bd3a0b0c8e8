package gmailbox

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

// Authenticator obtains and refreshes the Gmail OAuth token, persisting it
// to a local token file between runs.
type Authenticator struct {
	config    *oauth2.Config
	tokenFile string
	logger    *zap.Logger
}

// NewAuthenticator builds an authenticator from an installed-app
// client-secret file.
func NewAuthenticator(credentialsFile, tokenFile string, logger *zap.Logger) (*Authenticator, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secret file %s: %w", credentialsFile, err)
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailModifyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secret file: %w", err)
	}

	return &Authenticator{
		config:    config,
		tokenFile: tokenFile,
		logger:    logger,
	}, nil
}

// Token returns a valid OAuth token. It prefers the cached token, silently
// refreshes an expired one, and falls back to the interactive consent flow.
// The (possibly refreshed) token is persisted on success.
func (a *Authenticator) Token(ctx context.Context) (*oauth2.Token, error) {
	tok, err := a.tokenFromFile()
	if err == nil {
		if tok.Valid() {
			return tok, nil
		}
		if tok.RefreshToken != "" {
			fresh, refreshErr := a.config.TokenSource(ctx, tok).Token()
			if refreshErr == nil {
				if saveErr := a.saveToken(fresh); saveErr != nil {
					return nil, saveErr
				}
				a.logger.Debug("Refreshed Gmail access token")
				return fresh, nil
			}
			a.logger.Warn("Token refresh failed, falling back to consent flow", zap.Error(refreshErr))
		}
	}

	tok, err = a.consent(ctx)
	if err != nil {
		return nil, fmt.Errorf("gmail consent flow failed: %w", err)
	}
	if err := a.saveToken(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// consent runs the interactive installed-app flow: print the auth URL and
// read the authorization code from stdin.
func (a *Authenticator) consent(ctx context.Context) (*oauth2.Token, error) {
	authURL := a.config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the authorization code:\n%v\n", authURL)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return nil, fmt.Errorf("failed to read authorization code: %w", err)
	}

	tok, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return tok, nil
}

func (a *Authenticator) tokenFromFile() (*oauth2.Token, error) {
	f, err := os.Open(a.tokenFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token file %s: %w", a.tokenFile, err)
	}
	return tok, nil
}

func (a *Authenticator) saveToken(tok *oauth2.Token) error {
	f, err := os.OpenFile(a.tokenFile, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open token file %s for writing: %w", a.tokenFile, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("failed to write token file %s: %w", a.tokenFile, err)
	}
	return nil
}
