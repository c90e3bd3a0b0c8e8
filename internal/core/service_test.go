package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mikey/mail-triage/internal/utils"
	"go.uber.org/zap"
)

type fakeMailbox struct {
	unread       []MessageRef
	messages     map[string]*Message
	labels       []Label
	listCalls    int
	createCalls  int
	createdNames []string
	applied      map[string][]string // message ID -> label IDs
	getErr       error
	listErr      error
}

func newFakeMailbox() *fakeMailbox {
	return &fakeMailbox{
		messages: map[string]*Message{},
		applied:  map[string][]string{},
	}
}

func (f *fakeMailbox) ListUnread(ctx context.Context, limit int64) ([]MessageRef, error) {
	_ = ctx
	if f.listErr != nil {
		return nil, f.listErr
	}
	if int64(len(f.unread)) > limit {
		return f.unread[:limit], nil
	}
	return f.unread, nil
}

func (f *fakeMailbox) GetMessage(ctx context.Context, id string) (*Message, error) {
	_ = ctx
	if f.getErr != nil {
		return nil, f.getErr
	}
	msg, ok := f.messages[id]
	if !ok {
		return nil, fmt.Errorf("no such message: %s", id)
	}
	return msg, nil
}

func (f *fakeMailbox) ListLabels(ctx context.Context) ([]Label, error) {
	_ = ctx
	f.listCalls++
	return f.labels, nil
}

func (f *fakeMailbox) CreateLabel(ctx context.Context, name string) (Label, error) {
	_ = ctx
	f.createCalls++
	f.createdNames = append(f.createdNames, name)
	label := Label{ID: fmt.Sprintf("Label_%d", f.createCalls), Name: name}
	f.labels = append(f.labels, label)
	return label, nil
}

func (f *fakeMailbox) ApplyLabel(ctx context.Context, messageID, labelID string) error {
	_ = ctx
	f.applied[messageID] = append(f.applied[messageID], labelID)
	return nil
}

func (f *fakeMailbox) ListByLabel(ctx context.Context, labelID string, limit int64) ([]*Message, error) {
	_ = ctx
	_ = labelID
	_ = limit
	return nil, nil
}

type fakeCompleter struct {
	responses []string
	err       error
	prompts   []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("no scripted response")
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func newService(mailbox *fakeMailbox, completer *fakeCompleter, maxResults int64) *TriageService {
	logger := zap.NewNop()
	open := func(ctx context.Context) (Mailbox, error) { return mailbox, nil }
	classifier := NewClassifier(completer, utils.NewTextProcessor(logger), 1024, logger)
	return NewTriageService(open, classifier, logger, maxResults)
}

func TestRunNoMessages(t *testing.T) {
	mailbox := newFakeMailbox()
	completer := &fakeCompleter{}
	svc := newService(mailbox, completer, 10)

	report, err := svc.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report != EmptyReport {
		t.Fatalf("report = %q, want %q", report, EmptyReport)
	}
	if mailbox.listCalls != 0 || mailbox.createCalls != 0 {
		t.Fatalf("no label operations expected on an empty inbox, got list=%d create=%d",
			mailbox.listCalls, mailbox.createCalls)
	}
	if len(completer.prompts) != 0 {
		t.Fatalf("no completions expected on an empty inbox, got %d", len(completer.prompts))
	}
}

func TestRunSingleMessage(t *testing.T) {
	mailbox := newFakeMailbox()
	mailbox.unread = []MessageRef{{ID: "m1"}}
	mailbox.messages["m1"] = &Message{ID: "m1", Subject: "Team Meeting Notes", Snippet: "Agenda attached"}
	completer := &fakeCompleter{responses: []string{"Work"}}
	svc := newService(mailbox, completer, 10)

	report, err := svc.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "Email 'Team Meeting Notes' classified as Work and labeled."
	if report != want {
		t.Fatalf("report = %q, want %q", report, want)
	}
	if len(mailbox.createdNames) != 1 || mailbox.createdNames[0] != "Work" {
		t.Fatalf("created labels = %v, want [Work]", mailbox.createdNames)
	}
	if got := mailbox.applied["m1"]; len(got) != 1 {
		t.Fatalf("labels applied to m1 = %v, want exactly one", got)
	}
}

func TestRunReusesExistingLabel(t *testing.T) {
	mailbox := newFakeMailbox()
	mailbox.unread = []MessageRef{{ID: "m1"}, {ID: "m2"}}
	mailbox.messages["m1"] = &Message{ID: "m1", Subject: "Sprint review", Snippet: "notes"}
	mailbox.messages["m2"] = &Message{ID: "m2", Subject: "Standup", Snippet: "daily"}
	mailbox.labels = []Label{{ID: "L1", Name: "work"}} // differs only in case
	completer := &fakeCompleter{responses: []string{"Work", "Work"}}
	svc := newService(mailbox, completer, 10)

	if _, err := svc.Run(context.Background(), ""); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if mailbox.createCalls != 0 {
		t.Fatalf("createCalls = %d, existing label should be reused", mailbox.createCalls)
	}
	if mailbox.listCalls != 1 {
		t.Fatalf("listCalls = %d, label list should be fetched once per run", mailbox.listCalls)
	}
	if mailbox.applied["m1"][0] != "L1" || mailbox.applied["m2"][0] != "L1" {
		t.Fatalf("both messages should carry L1, got %v", mailbox.applied)
	}
}

func TestRunResolveLabelIdempotent(t *testing.T) {
	mailbox := newFakeMailbox()
	mailbox.unread = []MessageRef{{ID: "m1"}, {ID: "m2"}}
	mailbox.messages["m1"] = &Message{ID: "m1", Subject: "a", Snippet: ""}
	mailbox.messages["m2"] = &Message{ID: "m2", Subject: "b", Snippet: ""}
	completer := &fakeCompleter{responses: []string{"Updates", "Updates"}}
	svc := newService(mailbox, completer, 10)

	if _, err := svc.Run(context.Background(), ""); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if mailbox.createCalls != 1 {
		t.Fatalf("createCalls = %d, want exactly one creation for two identical categories", mailbox.createCalls)
	}
	if mailbox.applied["m1"][0] != mailbox.applied["m2"][0] {
		t.Fatalf("both messages should get the same label id, got %v", mailbox.applied)
	}
}

func TestRunNarrowedInstructionFallback(t *testing.T) {
	mailbox := newFakeMailbox()
	mailbox.unread = []MessageRef{{ID: "m1"}}
	mailbox.messages["m1"] = &Message{ID: "m1", Subject: "Project deadline tomorrow", Snippet: "heads up"}
	// Completion answers outside the narrowed set.
	completer := &fakeCompleter{responses: []string{"Other"}}
	svc := newService(mailbox, completer, 10)

	instruction := "Organize my emails only into two folders: Work and Social."
	report, err := svc.Run(context.Background(), instruction)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(report, "classified as Work") {
		t.Fatalf("keyword fallback should classify as Work, report = %q", report)
	}
	if len(completer.prompts) != 1 || !strings.Contains(completer.prompts[0], "Allowed categories: Work, Social.") {
		t.Fatalf("narrowed prompt expected, got %v", completer.prompts)
	}
}

func TestRunCompletionErrorFallsBack(t *testing.T) {
	mailbox := newFakeMailbox()
	mailbox.unread = []MessageRef{{ID: "m1"}}
	mailbox.messages["m1"] = &Message{ID: "m1", Subject: "Your invoice", Snippet: "attached"}
	completer := &fakeCompleter{err: errors.New("completion provider down")}
	svc := newService(mailbox, completer, 10)

	report, err := svc.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("classification errors must not propagate, got %v", err)
	}
	if !strings.Contains(report, "classified as Updates") {
		t.Fatalf("expected Updates fallback, report = %q", report)
	}
}

func TestRunMailboxErrorAbortsBatch(t *testing.T) {
	mailbox := newFakeMailbox()
	mailbox.unread = []MessageRef{{ID: "m1"}, {ID: "m2"}}
	mailbox.getErr = errors.New("quota exceeded")
	completer := &fakeCompleter{responses: []string{"Work"}}
	svc := newService(mailbox, completer, 10)

	_, err := svc.Run(context.Background(), "")
	if err == nil {
		t.Fatalf("mailbox errors must propagate")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("error should wrap the provider failure, got %v", err)
	}
	if len(mailbox.applied) != 0 {
		t.Fatalf("no labels should be applied after an aborted fetch, got %v", mailbox.applied)
	}
}

func TestRunHonorsMaxResults(t *testing.T) {
	mailbox := newFakeMailbox()
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("m%d", i)
		mailbox.unread = append(mailbox.unread, MessageRef{ID: id})
		mailbox.messages[id] = &Message{ID: id, Subject: "note", Snippet: ""}
	}
	completer := &fakeCompleter{responses: []string{"Updates"}}
	svc := newService(mailbox, completer, 2)

	report, err := svc.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := len(strings.Split(report, "\n")); got != 2 {
		t.Fatalf("report lines = %d, want 2 (batch cap)", got)
	}
}
