package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// EmptyReport is returned when there is nothing unread to triage.
const EmptyReport = "No messages found."

// TriageService runs the classification-and-labeling pipeline
type TriageService struct {
	open       MailboxOpener
	classifier *Classifier
	logger     *zap.Logger
	maxResults int64
}

// NewTriageService creates a new triage service
func NewTriageService(
	open MailboxOpener,
	classifier *Classifier,
	logger *zap.Logger,
	maxResults int64,
) *TriageService {
	return &TriageService{
		open:       open,
		classifier: classifier,
		logger:     logger,
		maxResults: maxResults,
	}
}

// Run fetches unread messages, classifies each one, ensures the matching
// label exists and applies it. One message at a time; a mailbox failure
// aborts the rest of the batch and propagates.
func (s *TriageService) Run(ctx context.Context, instruction string) (string, error) {
	mailbox, err := s.open(ctx)
	if err != nil {
		return "", err
	}

	refs, err := mailbox.ListUnread(ctx, s.maxResults)
	if err != nil {
		return "", fmt.Errorf("failed to list unread messages: %w", err)
	}
	if len(refs) == 0 {
		s.logger.Info("No unread messages to triage")
		return EmptyReport, nil
	}

	labels := newLabelResolver(mailbox)
	report := make([]string, 0, len(refs))

	for _, ref := range refs {
		msg, err := mailbox.GetMessage(ctx, ref.ID)
		if err != nil {
			return "", fmt.Errorf("failed to fetch message %s: %w", ref.ID, err)
		}

		category := s.classifier.Classify(ctx, msg.Subject, msg.Snippet, instruction)

		label, err := labels.Resolve(ctx, string(category))
		if err != nil {
			return "", err
		}

		if err := mailbox.ApplyLabel(ctx, msg.ID, label.ID); err != nil {
			return "", fmt.Errorf("failed to apply label %q to message %s: %w", label.Name, msg.ID, err)
		}

		s.logger.Info("Labeled message",
			zap.String("id", msg.ID),
			zap.String("subject", msg.Subject),
			zap.String("category", string(category)))

		report = append(report, fmt.Sprintf("Email '%s' classified as %s and labeled.", msg.Subject, category))
	}

	return strings.Join(report, "\n"), nil
}
