package core

import (
	"context"
	"fmt"
	"strings"
)

// labelResolver finds or creates labels by name, case-insensitively.
// The cache lives for a single run: the provider's label list is
// re-queried at most once per run, on the first miss.
type labelResolver struct {
	mailbox Mailbox
	byName  map[string]Label
	listed  bool
}

func newLabelResolver(mailbox Mailbox) *labelResolver {
	return &labelResolver{
		mailbox: mailbox,
		byName:  make(map[string]Label),
	}
}

// Resolve returns the label with the given name, creating it when the
// mailbox has no match.
func (r *labelResolver) Resolve(ctx context.Context, name string) (Label, error) {
	key := strings.ToLower(name)
	if label, ok := r.byName[key]; ok {
		return label, nil
	}

	if !r.listed {
		labels, err := r.mailbox.ListLabels(ctx)
		if err != nil {
			return Label{}, fmt.Errorf("failed to list labels: %w", err)
		}
		for _, label := range labels {
			r.byName[strings.ToLower(label.Name)] = label
		}
		r.listed = true

		if label, ok := r.byName[key]; ok {
			return label, nil
		}
	}

	created, err := r.mailbox.CreateLabel(ctx, name)
	if err != nil {
		return Label{}, fmt.Errorf("failed to create label %q: %w", name, err)
	}
	r.byName[key] = created
	return created, nil
}
