package gmailbox

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mikey/mail-triage/internal/core"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"google.golang.org/api/gmail/v1"
)

const gmailUser = "me"

// unreadQuery is the fixed Gmail search filter for the triage batch.
const unreadQuery = "is:unread"

// Client implements core.Mailbox over the Gmail REST API
type Client struct {
	svc    *gmail.Service
	logger *zap.Logger
}

// NewClient wraps an authenticated Gmail service
func NewClient(svc *gmail.Service, logger *zap.Logger) *Client {
	return &Client{
		svc:    svc,
		logger: logger,
	}
}

// ListUnread returns refs for up to limit unread messages. First page only,
// no pagination.
func (c *Client) ListUnread(ctx context.Context, limit int64) ([]core.MessageRef, error) {
	res, err := c.svc.Users.Messages.List(gmailUser).Q(unreadQuery).MaxResults(limit).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail list messages: %w", err)
	}

	refs := make([]core.MessageRef, 0, len(res.Messages))
	for _, m := range res.Messages {
		refs = append(refs, core.MessageRef{ID: m.Id})
	}
	return refs, nil
}

// GetMessage fetches a full message and extracts subject, snippet and a
// plain-text body.
func (c *Client) GetMessage(ctx context.Context, id string) (*core.Message, error) {
	msg, err := c.svc.Users.Messages.Get(gmailUser, id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail get message %s: %w", id, err)
	}

	return &core.Message{
		ID:      msg.Id,
		Subject: subjectHeader(msg.Payload),
		Snippet: msg.Snippet,
		Body:    bodyText(msg.Payload),
	}, nil
}

// ListLabels returns all labels in the mailbox
func (c *Client) ListLabels(ctx context.Context) ([]core.Label, error) {
	res, err := c.svc.Users.Labels.List(gmailUser).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail list labels: %w", err)
	}

	labels := make([]core.Label, 0, len(res.Labels))
	for _, l := range res.Labels {
		labels = append(labels, core.Label{ID: l.Id, Name: l.Name})
	}
	return labels, nil
}

// CreateLabel creates a label shown in both the label and message lists
func (c *Client) CreateLabel(ctx context.Context, name string) (core.Label, error) {
	created, err := c.svc.Users.Labels.Create(gmailUser, &gmail.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}).Context(ctx).Do()
	if err != nil {
		return core.Label{}, fmt.Errorf("gmail create label %q: %w", name, err)
	}

	c.logger.Info("Created label", zap.String("name", name), zap.String("id", created.Id))
	return core.Label{ID: created.Id, Name: created.Name}, nil
}

// ApplyLabel adds a label to a message. Idempotent on the provider side.
func (c *Client) ApplyLabel(ctx context.Context, messageID, labelID string) error {
	_, err := c.svc.Users.Messages.Modify(gmailUser, messageID, &gmail.ModifyMessageRequest{
		AddLabelIds: []string{labelID},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail modify message %s: %w", messageID, err)
	}
	return nil
}

// ListByLabel returns subject/snippet summaries for messages under a label
func (c *Client) ListByLabel(ctx context.Context, labelID string, limit int64) ([]*core.Message, error) {
	res, err := c.svc.Users.Messages.List(gmailUser).LabelIds(labelID).MaxResults(limit).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail list messages for label %s: %w", labelID, err)
	}

	messages := make([]*core.Message, 0, len(res.Messages))
	for _, m := range res.Messages {
		msg, err := c.svc.Users.Messages.Get(gmailUser, m.Id).
			Format("metadata").MetadataHeaders("Subject").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("gmail get message %s: %w", m.Id, err)
		}
		messages = append(messages, &core.Message{
			ID:      msg.Id,
			Subject: subjectHeader(msg.Payload),
			Snippet: msg.Snippet,
		})
	}
	return messages, nil
}

// subjectHeader extracts the Subject header, case-insensitively, defaulting
// to the empty string.
func subjectHeader(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}
	for _, h := range payload.Headers {
		if strings.EqualFold(h.Name, "Subject") {
			return h.Value
		}
	}
	return ""
}

// bodyText finds the plain-text body of a message. Multipart messages use
// the first text/plain part; flat ones the top-level body.
func bodyText(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}
	if len(payload.Parts) > 0 {
		for _, part := range payload.Parts {
			if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
				return decodeBody(part.Body.Data)
			}
		}
		return ""
	}
	if payload.Body != nil && payload.Body.Data != "" {
		return decodeBody(payload.Body.Data)
	}
	return ""
}

// decodeBody decodes a base64url body. UTF-8 is preferred; bytes that are
// not valid UTF-8 are reinterpreted as ISO-8859-1. Never fails: undecodable
// input yields the empty string.
func decodeBody(data string) string {
	raw, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		raw, err = base64.URLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
