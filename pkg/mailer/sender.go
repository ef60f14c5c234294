package mailer

import "context"

// Sender delivers a single message.
// Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, email *Email) error

// Send calls f(ctx, email).
func (f SenderFunc) Send(ctx context.Context, email *Email) error {
	return f(ctx, email)
}
