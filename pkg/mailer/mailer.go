package mailer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/deliverai/deliverai/pkg/logger"
)

// Config holds sender identity defaults.
type Config struct {
	FromName  string `env:"MAILER_FROM_NAME" envDefault:"DeliverAI"`
	FromEmail string `env:"MAILER_FROM_EMAIL" envDefault:"campaigns@deliverai.local"`
}

// Mailer validates messages and forwards them to a Sender.
// It implements Sender itself, so it can be passed wherever a Sender is expected.
type Mailer struct {
	sender Sender
	logger *slog.Logger
	config Config
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithLogger sets the logger used for per-message debug output.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mailer) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Mailer that delivers through sender.
func New(sender Sender, cfg Config, opts ...Option) *Mailer {
	m := &Mailer{
		sender: sender,
		config: cfg,
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send validates the message, fills in the default From address and hands a
// copy to the underlying Sender. Sender errors are joined with ErrSendFailed.
func (m *Mailer) Send(ctx context.Context, email *Email) error {
	if email == nil || len(email.To) == 0 {
		return ErrNoRecipient
	}

	msg := *email
	if msg.From == "" && m.config.FromEmail != "" {
		msg.From = Address(m.config.FromName, m.config.FromEmail)
	}

	if err := m.sender.Send(ctx, &msg); err != nil {
		m.logger.DebugContext(ctx, "email rejected",
			slog.Any("to", msg.To),
			slog.String("error", err.Error()),
		)
		return errors.Join(ErrSendFailed, err)
	}

	m.logger.DebugContext(ctx, "email accepted", slog.Any("to", msg.To))
	return nil
}
