package mail

import (
	"context"
	"log/slog"

	"github.com/tasknest/tasknest-api/internal/redact"
)

// LogMailer is a Mailer that only logs. It stands in for a real provider
// when no API key is configured, typically in development.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger.With(slog.String("component", "log_mailer"))}
}

var _ Mailer = (*LogMailer)(nil)

// Send implements Mailer by logging the message instead of delivering it.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info("email delivery disabled, logging instead",
		slog.String("to", redact.String(msg.ToAddress)),
		slog.String("subject", msg.Subject))
	return nil
}
