// Package mailer delivers password reset links.
package mailer

import (
	"context"

	"github.com/growthpods/growthpods/internal/logging"
)

type Mailer interface {
	SendPasswordReset(ctx context.Context, toEmail, resetURL string) error
}

// LogMailer only logs the link. Used when no Resend key is configured.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, toEmail, resetURL string) error {
	m.logger.Info(ctx, "password reset requested", "to", toEmail, "link", resetURL)
	return nil
}
