package ports

import "context"

// Email is an outbound plain-text/HTML message.
type Email struct {
	To       string
	ReplyTo  string
	Subject  string
	Text     string
	HTML     string
	Category string // metrics label, e.g. "contact_notification"
}

// Mailer delivers one email synchronously.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// Notifier hands emails off for best-effort background delivery. Enqueue must
// not block the caller.
type Notifier interface {
	Enqueue(msg Email) bool
}
