package core

import (
	"context"
)

// Mailbox defines the narrow mail-provider surface the pipeline needs
type Mailbox interface {
	// ListUnread returns refs for up to limit unread messages (first page only)
	ListUnread(ctx context.Context, limit int64) ([]MessageRef, error)

	// GetMessage fetches a single message with subject, snippet and body
	GetMessage(ctx context.Context, id string) (*Message, error)

	// ListLabels returns all labels in the mailbox
	ListLabels(ctx context.Context) ([]Label, error)

	// CreateLabel creates a label with default visibility
	CreateLabel(ctx context.Context, name string) (Label, error)

	// ApplyLabel adds a label to a message
	ApplyLabel(ctx context.Context, messageID, labelID string) error

	// ListByLabel returns subject/snippet summaries for messages under a label
	ListByLabel(ctx context.Context, labelID string, limit int64) ([]*Message, error)
}

// MailboxOpener authenticates and opens a mailbox; each run opens its own
type MailboxOpener func(ctx context.Context) (Mailbox, error)

// Completer defines the interface for the text-completion provider
type Completer interface {
	// Complete sends a prompt and returns the raw completion text
	Complete(ctx context.Context, prompt string) (string, error)
}
