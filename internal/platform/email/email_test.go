package email

import (
	"context"
	"strings"
	"testing"
	"time"

	"hrops/internal/platform/config"
)

func TestNewReturnsNoopWhenDisabled(t *testing.T) {
	mailer := New(config.Config{EmailEnabled: false, SMTPHost: "smtp.example.com"})
	if err := mailer.Send(context.Background(), "a@x", "b@x", "hi", "body"); err != nil {
		t.Fatalf("noop send: %v", err)
	}

	mailer = New(config.Config{EmailEnabled: true, SMTPHost: ""})
	if err := mailer.Send(context.Background(), "a@x", "b@x", "hi", "body"); err != nil {
		t.Fatalf("noop send without host: %v", err)
	}
}

func TestSendSkipsEmptyRecipient(t *testing.T) {
	mailer := &smtpMailer{cfg: config.Config{SMTPHost: "smtp.invalid", SMTPPort: 1}}
	if err := mailer.Send(context.Background(), "a@x", "   ", "hi", "body"); err != nil {
		t.Fatalf("empty recipient should be dropped silently, got %v", err)
	}
}

func TestBuildMessageHeaders(t *testing.T) {
	sentAt := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	msg := string(buildMessage("hr@corp.example", "emp@corp.example", "Payslip ready", "Your payslip is available.", sentAt))

	parts := strings.SplitN(msg, "\r\n\r\n", 2)
	if len(parts) != 2 {
		t.Fatalf("message missing header/body separator:\n%s", msg)
	}
	header, body := parts[0], parts[1]

	for _, want := range []string{
		"From: hr@corp.example",
		"To: emp@corp.example",
		"Subject: Payslip ready",
		"Date: Sun, 30 Aug 2026 09:00:00 +0000",
		"Content-Type: text/plain; charset=\"UTF-8\"",
	} {
		if !strings.Contains(header, want) {
			t.Fatalf("header missing %q:\n%s", want, header)
		}
	}
	if body != "Your payslip is available." {
		t.Fatalf("body = %q", body)
	}
}

func TestBuildMessageScrubsHeaderInjection(t *testing.T) {
	msg := string(buildMessage("hr@corp.example", "emp@corp.example",
		"Hello\r\nBcc: attacker@evil.example", "body", time.Now()))

	if strings.Contains(msg, "\r\nBcc:") {
		t.Fatalf("injected header survived on its own line:\n%s", msg)
	}
	if !strings.Contains(msg, "Subject: Hello  Bcc: attacker@evil.example") {
		t.Fatalf("subject not flattened onto one line:\n%s", msg)
	}
}
