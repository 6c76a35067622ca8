package email

import "context"

// Message is a rendered email ready for delivery.
type Message struct {
	To       string
	Subject  string
	TextBody string
}

// Mailer delivers rendered messages. Implementations must be safe for
// concurrent use; callers treat delivery as best-effort.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
