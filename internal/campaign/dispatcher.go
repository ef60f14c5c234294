package campaign

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/deliverai/deliverai/pkg/logger"
	"github.com/deliverai/deliverai/pkg/mailer"
)

// DefaultDispatchDelay is the pause before each simulated delivery.
const DefaultDispatchDelay = 800 * time.Millisecond

// timestampLayout is the wall-clock format shown in the delivery log.
const timestampLayout = "3:04:05 PM"

// Run is the input of one dispatch run. Recipients are fixed when the run starts.
type Run struct {
	ID         string
	Subject    string
	Body       string
	Recipients []string
}

// Dispatcher delivers a run to each recipient in order, one at a time.
type Dispatcher struct {
	sender   mailer.Sender
	renderer *mailer.Renderer
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	delay    time.Duration
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDelay sets the pause before each delivery. Zero disables it.
func WithDelay(d time.Duration) DispatcherOption {
	return func(x *Dispatcher) {
		if d >= 0 {
			x.delay = d
		}
	}
}

// WithRenderer renders the Markdown body to HTML once per run.
// Without a renderer messages carry the body as plain text only.
func WithRenderer(r *mailer.Renderer) DispatcherOption {
	return func(x *Dispatcher) {
		x.renderer = r
	}
}

// WithDispatchLogger sets the logger for per-message output.
func WithDispatchLogger(l *slog.Logger) DispatcherOption {
	return func(x *Dispatcher) {
		if l != nil {
			x.logger = l
		}
	}
}

// WithDispatchClock overrides time.Now for log timestamps.
func WithDispatchClock(now func() time.Time) DispatcherOption {
	return func(x *Dispatcher) {
		if now != nil {
			x.now = now
		}
	}
}

// NewDispatcher creates a Dispatcher delivering through sender.
func NewDispatcher(sender mailer.Sender, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		delay:  DefaultDispatchDelay,
		logger: logger.NewNope(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run delivers run.Body to every recipient. For each recipient it waits the
// configured delay, sends one message and calls report with the outcome.
// A refused message is recorded as DeliveryFailed and the run continues.
// Run returns early with ctx.Err() only when ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, run Run, report func(DeliveryLogEntry)) error {
	ctx = WithRunID(ctx, run.ID)
	base := d.message(ctx, run)

	for _, rcpt := range run.Recipients {
		if err := d.wait(ctx); err != nil {
			return err
		}

		msg := base
		msg.To = []string{rcpt}

		status := DeliverySuccess
		if err := d.sender.Send(ctx, &msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			status = DeliveryFailed
			d.logger.DebugContext(ctx, "delivery refused",
				slog.String("email", rcpt),
				slog.String("error", err.Error()),
			)
		}

		now := d.now()
		report(DeliveryLogEntry{
			ID:        d.newID(),
			Email:     rcpt,
			Status:    status,
			Timestamp: now.Format(timestampLayout),
			SentAt:    now,
		})
	}

	return nil
}

// message builds the per-run message template.
func (d *Dispatcher) message(ctx context.Context, run Run) mailer.Email {
	msg := mailer.Email{
		Subject: run.Subject,
		Text:    run.Body,
		Tags:    mailer.Tags{"campaign": run.ID},
	}
	if d.renderer == nil {
		return msg
	}

	body, err := d.renderer.Render(run.Body)
	if err != nil {
		d.logger.WarnContext(ctx, "body render failed, sending plain text",
			slog.String("error", err.Error()),
		)
		return msg
	}
	msg.HTML = body.HTML
	return msg
}

func (d *Dispatcher) wait(ctx context.Context) error {
	if d.delay <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d.delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
