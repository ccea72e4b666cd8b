package utils

import (
	"context"
	"fmt"
	"html"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, plain, htmlContent string) error
}

// SendGridMailer delivers mail through the SendGrid v3 API. A client is built
// per message because the SendGrid client keeps the request body on itself.
type SendGridMailer struct {
	APIKey   string
	From     string
	FromName string
	// BaseURL overrides the API endpoint; empty means SendGrid's.
	BaseURL string
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, plain, htmlContent string) error {
	from := mail.NewEmail(m.FromName, m.From)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), plain, htmlContent)

	client := sendgrid.NewSendClient(m.APIKey)
	if m.BaseURL != "" {
		client.BaseURL = m.BaseURL
	}

	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("send email: sendgrid status %d: %s", response.StatusCode, response.Body)
	}

	zerolog.Ctx(ctx).Debug().Str("to", to).Int("status", response.StatusCode).Msg("email sent")
	return nil
}

// LogMailer only logs. It is used when no SendGrid key is configured.
type LogMailer struct {
	Log zerolog.Logger
}

func (m LogMailer) Send(_ context.Context, to, subject, _, _ string) error {
	m.Log.Info().Str("to", to).Str("subject", subject).Msg("mail delivery disabled, message dropped")
	return nil
}

// NewMailer returns a SendGrid mailer when apiKey is set and a LogMailer
// otherwise.
func NewMailer(apiKey, from, fromName string, log zerolog.Logger) Mailer {
	if apiKey == "" {
		return LogMailer{Log: log}
	}
	return &SendGridMailer{APIKey: apiKey, From: from, FromName: fromName}
}

func SendWelcome(ctx context.Context, m Mailer, username, email string) error {
	subject := "Welcome to MedAssist"
	plain := fmt.Sprintf("Hi %s, your MedAssist account is ready. You can now log in and upload your medical records.", username)
	htmlContent := fmt.Sprintf("<p>Hi <strong>%s</strong>, your MedAssist account is ready.</p><p>You can now log in and upload your medical records.</p>", html.EscapeString(username))
	return m.Send(ctx, email, subject, plain, htmlContent)
}

func ForwardFeedback(ctx context.Context, m Mailer, inbox, username, content string) error {
	subject := "New feedback from " + username
	plain := content
	if plain == "" {
		plain = "(empty feedback)"
	}
	htmlContent := "<pre>" + html.EscapeString(plain) + "</pre>"
	return m.Send(ctx, inbox, subject, plain, htmlContent)
}
