package scheduler

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers an email to a list of recipients
type Mailer interface {
	Send(ctx context.Context, to []string, subject, plainText, htmlContent string) error
}

// SendGridMailer sends email through the SendGrid v3 API
type SendGridMailer struct {
	APIKey   string
	From     string
	FromName string
}

// NewSendGridMailer returns a mailer for apiKey, or nil when no key is set
func NewSendGridMailer(apiKey, from string) Mailer {
	if apiKey == "" {
		return nil
	}
	return &SendGridMailer{APIKey: apiKey, From: from, FromName: "Ultimate Praia"}
}

// Send sends a single message addressed to every recipient
func (m *SendGridMailer) Send(ctx context.Context, to []string, subject, plainText, htmlContent string) error {
	client := sendgrid.NewSendClient(m.APIKey)
	response, err := client.SendWithContext(ctx, buildMessage(m.FromName, m.From, to, subject, plainText, htmlContent))
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func buildMessage(fromName, from string, to []string, subject, plainText, htmlContent string) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(fromName, from))
	m.Subject = subject

	p := mail.NewPersonalization()
	for _, addr := range to {
		p.AddTos(mail.NewEmail("", addr))
	}
	m.AddPersonalizations(p)
	m.AddContent(mail.NewContent("text/plain", plainText), mail.NewContent("text/html", htmlContent))
	return m
}
