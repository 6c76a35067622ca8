package email

import (
	"context"

	"lifemate-backend/internal/shared/telemetry"
)

// LogMailer is the dev fallback: it records sends instead of delivering them.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	_ = ctx
	telemetry.Info("email.logged", map[string]any{
		"to":      msg.To,
		"subject": msg.Subject,
	})
	return nil
}

var _ Mailer = LogMailer{}
