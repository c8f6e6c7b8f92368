package service

import (
	"context"
	"strings"
	"testing"

	"github.com/formbridge/backend/internal/model"
	"github.com/formbridge/backend/pkg/mailer"
)

type mockMailer struct {
	sendFunc func(ctx context.Context, msg mailer.Message) error
}

func (m *mockMailer) Send(ctx context.Context, msg mailer.Message) error {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return nil
}

func TestNotify_SendsToOwner(t *testing.T) {
	var sent mailer.Message
	mail := &mockMailer{
		sendFunc: func(ctx context.Context, msg mailer.Message) error {
			sent = msg
			return nil
		},
	}
	svc := NewNotificationService(mail, "https://formbridge.io")

	form := &model.Form{ID: "form-1", Name: "Contact", Settings: model.FormSettings{EmailNotifications: true}}
	owner := &model.User{ID: "user-1", Email: "owner@example.com"}

	err := svc.Notify(context.Background(), form, owner, map[string]any{"message": "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sent.To) != 1 || sent.To[0] != "owner@example.com" {
		t.Errorf("expected owner as recipient, got %v", sent.To)
	}
	if sent.Subject != "New submission for Contact" {
		t.Errorf("unexpected subject: %q", sent.Subject)
	}
	if !strings.Contains(sent.HTML, "https://formbridge.io/dashboard/forms/form-1") {
		t.Error("expected dashboard deep link in the email body")
	}
	if !strings.Contains(sent.HTML, "<strong>message:</strong> hi") {
		t.Errorf("expected rendered field in body")
	}
}

func TestNotify_NotificationEmailsOverrideOwner(t *testing.T) {
	var sent mailer.Message
	mail := &mockMailer{
		sendFunc: func(ctx context.Context, msg mailer.Message) error {
			sent = msg
			return nil
		},
	}
	svc := NewNotificationService(mail, "https://formbridge.io")

	form := &model.Form{
		ID:   "form-1",
		Name: "Contact",
		Settings: model.FormSettings{
			EmailNotifications: true,
			NotificationEmails: []string{"a@example.com", "b@example.com"},
		},
	}
	owner := &model.User{Email: "owner@example.com"}

	if err := svc.Notify(context.Background(), form, owner, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sent.To) != 2 || sent.To[0] != "a@example.com" {
		t.Errorf("expected configured recipient list, got %v", sent.To)
	}
}

func TestNotify_NoRecipientsSkipsSend(t *testing.T) {
	mail := &mockMailer{
		sendFunc: func(ctx context.Context, msg mailer.Message) error {
			t.Error("expected no send without recipients")
			return nil
		},
	}
	svc := NewNotificationService(mail, "https://formbridge.io")

	form := &model.Form{ID: "form-1", Name: "Contact"}
	if err := svc.Notify(context.Background(), form, &model.User{}, nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// Submitted values containing markup must arrive as text, not HTML.
func TestNotify_EscapesSubmittedValues(t *testing.T) {
	var sent mailer.Message
	mail := &mockMailer{
		sendFunc: func(ctx context.Context, msg mailer.Message) error {
			sent = msg
			return nil
		},
	}
	svc := NewNotificationService(mail, "https://formbridge.io")

	form := &model.Form{ID: "form-1", Name: "Contact"}
	owner := &model.User{Email: "owner@example.com"}
	data := map[string]any{"message": `<script>alert("xss")</script>`}

	if err := svc.Notify(context.Background(), form, owner, data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(sent.HTML, `<script>alert`) {
		t.Error("expected submitted markup to be escaped")
	}
	if !strings.Contains(sent.HTML, "&lt;script&gt;") {
		t.Error("expected escaped entity in body")
	}
}
