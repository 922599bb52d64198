// Package sendgrid delivers transactional email through the SendGrid API.
package sendgrid

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/tasknest/tasknest-api/internal/config"
	"github.com/tasknest/tasknest-api/internal/mail"
)

// Mailer implements mail.Mailer using the SendGrid v3 API.
type Mailer struct {
	client      *sendgrid.Client
	fromName    string
	fromAddress string
}

// NewMailer creates a Mailer from the email configuration. The API key
// must be non-empty; callers fall back to mail.LogMailer otherwise.
func NewMailer(cfg config.EmailConfig) (*Mailer, error) {
	if cfg.SendGridAPIKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}

	return &Mailer{
		client:      sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromName:    cfg.FromName,
		fromAddress: cfg.FromAddress,
	}, nil
}

var _ mail.Mailer = (*Mailer)(nil)

// Send implements mail.Mailer.
func (m *Mailer) Send(ctx context.Context, msg mail.Message) error {
	from := sgmail.NewEmail(m.fromName, m.fromAddress)
	to := sgmail.NewEmail(msg.ToName, msg.ToAddress)
	message := sgmail.NewSingleEmail(from, msg.Subject, to, msg.Body, "")

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send rejected: status %d", resp.StatusCode)
	}

	return nil
}
