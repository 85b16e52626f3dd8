package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"storefront/internal/config"

	"github.com/rs/zerolog"
)

// Notifier delivers a moderation notification. Callers treat delivery as
// best-effort: a failed notification never fails the operation that
// triggered it.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// NopNotifier discards notifications. Used when SMTP is not configured.
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, subject, body string) error {
	return nil
}

// SMTPNotifier sends moderation mail to the configured moderator address.
type SMTPNotifier struct {
	addr   string
	auth   smtp.Auth
	from   string
	to     string
	logger zerolog.Logger
}

// NewSMTPNotifier creates a notifier from the SMTP configuration.
func NewSMTPNotifier(cfg config.SMTPConfig, logger zerolog.Logger) *SMTPNotifier {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTPNotifier{
		addr:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth:   auth,
		from:   cfg.From,
		to:     cfg.ModeratorAddress,
		logger: logger.With().Str("mailer", "smtp").Logger(),
	}
}

// Notify sends a single plain-text message.
func (n *SMTPNotifier) Notify(ctx context.Context, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", n.from, n.to, subject, body)

	if err := smtp.SendMail(n.addr, n.auth, n.from, []string{n.to}, []byte(msg)); err != nil {
		n.logger.Error().Err(err).Str("subject", subject).Msg("failed to send notification mail")
		return fmt.Errorf("failed to send mail: %w", err)
	}

	n.logger.Debug().Str("subject", subject).Msg("notification mail sent")
	return nil
}
