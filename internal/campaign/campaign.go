package campaign

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deliverai/deliverai/internal/recipient"
	"github.com/deliverai/deliverai/pkg/logger"
)

// DefaultOptimizeTimeout bounds a single optimizer call.
const DefaultOptimizeTimeout = 60 * time.Second

// Campaign is the composer session. It owns the draft, the optimization
// result, the delivery log and the lifecycle status, and exposes them only
// through transition methods and Snapshot.
//
// At most one optimization or dispatch run is in flight at a time. Reset is
// always accepted: it bumps an epoch counter so that work started before the
// reset is cancelled and its results are discarded.
type Campaign struct {
	optimizer       Optimizer
	dispatcher      *Dispatcher
	logger          *slog.Logger
	now             func() time.Time
	newRunID        func() string
	cancelOptimize  context.CancelFunc
	cancelRun       context.CancelFunc
	result          *OptimizationResult
	status          Status
	lastError       string
	draft           Draft
	logs            []DeliveryLogEntry // oldest first
	run             RunStats
	runs            sync.WaitGroup
	progress        int
	optimizeTimeout time.Duration
	epoch           uint64
	mu              sync.Mutex
}

// Option configures a Campaign.
type Option func(*Campaign)

// WithLogger sets the campaign logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Campaign) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides time.Now for run start and finish times.
func WithClock(now func() time.Time) Option {
	return func(c *Campaign) {
		if now != nil {
			c.now = now
		}
	}
}

// WithOptimizeTimeout bounds each optimizer call. Zero or negative disables the bound.
func WithOptimizeTimeout(d time.Duration) Option {
	return func(c *Campaign) {
		c.optimizeTimeout = d
	}
}

// WithRunIDGenerator overrides the dispatch run id generator.
func WithRunIDGenerator(fn func() string) Option {
	return func(c *Campaign) {
		if fn != nil {
			c.newRunID = fn
		}
	}
}

// New creates an idle campaign.
func New(optimizer Optimizer, dispatcher *Dispatcher, opts ...Option) *Campaign {
	c := &Campaign{
		optimizer:       optimizer,
		dispatcher:      dispatcher,
		logger:          logger.NewNope(),
		now:             time.Now,
		newRunID:        newRunID,
		optimizeTimeout: DefaultOptimizeTimeout,
		status:          StatusIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newRunID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// Snapshot returns a copy of the current session state.
func (c *Campaign) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Campaign) snapshotLocked() Snapshot {
	logs := slices.Clone(c.logs)
	slices.Reverse(logs)
	if logs == nil {
		logs = []DeliveryLogEntry{}
	}

	return Snapshot{
		Status:         c.status,
		Draft:          c.draft,
		RecipientCount: recipient.Count(c.draft.Recipients),
		Result:         c.result.clone(),
		Logs:           logs,
		Progress:       c.progress,
		Run:            c.run,
		LastError:      c.lastError,
	}
}

// UpdateDraft replaces the editable fields. It is accepted in every state;
// a dispatch run in flight keeps the recipients it started with.
func (c *Campaign) UpdateDraft(d Draft) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft = d
	return c.snapshotLocked()
}

// Optimize sends the current draft to the optimizer.
//
// It fails with ErrBusy while another operation is in flight and with
// ErrValidation when recipients, subject or body are missing; in both cases
// the session is left untouched and the optimizer is not called. On success
// the draft subject and body are replaced by the optimized versions and the
// status returns to idle. On failure the status becomes error, the draft and
// the previous result are left as they were and the returned error matches
// ErrOptimization.
func (c *Campaign) Optimize(ctx context.Context) (Snapshot, error) {
	return c.optimize(ctx, nil)
}

// OptimizeDraft is Optimize over d. The draft is replaced only once the
// busy and validation guards pass, so a rejected call changes nothing.
func (c *Campaign) OptimizeDraft(ctx context.Context, d Draft) (Snapshot, error) {
	return c.optimize(ctx, &d)
}

func (c *Campaign) optimize(ctx context.Context, next *Draft) (Snapshot, error) {
	c.mu.Lock()
	if c.status.Busy() {
		defer c.mu.Unlock()
		return c.snapshotLocked(), ErrBusy
	}

	source := c.draft
	if next != nil {
		source = *next
	}
	draft := source.EmailDraft()
	if err := draft.Validate(); err != nil {
		defer c.mu.Unlock()
		return c.snapshotLocked(), err
	}
	c.draft = source

	ctx = context.WithoutCancel(ctx)
	var cancel context.CancelFunc
	if c.optimizeTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.optimizeTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	c.status = StatusOptimizing
	c.lastError = ""
	c.cancelOptimize = cancel
	epoch := c.epoch
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "optimization started",
		slog.Int("recipients", len(draft.Recipients)),
	)
	start := time.Now()

	result, err := c.optimizer.Optimize(ctx, draft)
	if err == nil && result == nil {
		err = errNoResult
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch {
		c.logger.InfoContext(ctx, "optimization result discarded after reset")
		return c.snapshotLocked(), ErrDiscarded
	}
	c.cancelOptimize = nil

	if err != nil {
		c.status = StatusError
		c.lastError = err.Error()
		c.logger.ErrorContext(ctx, "optimization failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)),
		)
		return c.snapshotLocked(), errors.Join(ErrOptimization, err)
	}

	c.draft.Subject = result.OptimizedSubject
	c.draft.Body = result.OptimizedBody
	c.result = result.clone()
	c.status = StatusIdle
	c.logger.InfoContext(ctx, "optimization completed",
		slog.Int("score", result.DeliverabilityScore),
		slog.Int("spam_flags", len(result.SpamFlags)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return c.snapshotLocked(), nil
}

// Send starts a dispatch run over the recipients parsed from the current
// draft and returns immediately. Progress and log entries appear in later
// snapshots; the status becomes completed after the last recipient.
//
// It fails with ErrBusy while another operation is in flight and with
// ErrValidation joined with ErrNoRecipients when no recipient parses.
func (c *Campaign) Send() (Snapshot, error) {
	return c.send(nil)
}

// SendDraft is Send over d. The draft is replaced only once the busy and
// recipient guards pass, so a rejected call changes nothing.
func (c *Campaign) SendDraft(d Draft) (Snapshot, error) {
	return c.send(&d)
}

func (c *Campaign) send(next *Draft) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status.Busy() {
		return c.snapshotLocked(), ErrBusy
	}

	source := c.draft
	if next != nil {
		source = *next
	}
	recipients := recipient.Parse(source.Recipients)
	if len(recipients) == 0 {
		return c.snapshotLocked(), errors.Join(ErrValidation, ErrNoRecipients)
	}
	c.draft = source

	run := Run{
		ID:         c.newRunID(),
		Subject:    c.draft.Subject,
		Body:       c.draft.Body,
		Recipients: recipients,
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancelRun = cancel
	c.status = StatusSending
	c.progress = 0
	c.logs = make([]DeliveryLogEntry, 0, len(recipients))
	c.lastError = ""
	c.run = RunStats{
		ID:        run.ID,
		Total:     len(recipients),
		StartedAt: c.now(),
	}

	c.runs.Add(1)
	go c.dispatch(ctx, c.epoch, run)

	c.logger.InfoContext(WithRunID(ctx, run.ID), "dispatch started",
		slog.Int("recipients", len(recipients)),
	)
	return c.snapshotLocked(), nil
}

func (c *Campaign) dispatch(ctx context.Context, epoch uint64, run Run) {
	defer c.runs.Done()

	err := c.dispatcher.Run(ctx, run, func(entry DeliveryLogEntry) {
		c.mu.Lock()
		defer c.mu.Unlock()

		if epoch != c.epoch {
			return
		}
		c.logs = append(c.logs, entry)
		if entry.Status == DeliverySuccess {
			c.run.Delivered++
		} else {
			c.run.Failed++
		}
		c.progress = progressPercent(len(c.logs), len(run.Recipients))
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	ctx = WithRunID(ctx, run.ID)
	if epoch != c.epoch {
		c.logger.InfoContext(ctx, "dispatch run discarded after reset")
		return
	}

	c.cancelRun = nil
	c.run.FinishedAt = c.now()

	if err != nil {
		c.status = StatusError
		c.lastError = "dispatch interrupted: " + err.Error()
		c.logger.WarnContext(ctx, "dispatch interrupted", slog.String("error", err.Error()))
		return
	}

	c.status = StatusCompleted
	c.progress = 100
	c.logger.InfoContext(ctx, "dispatch completed",
		slog.Int("delivered", c.run.Delivered),
		slog.Int("failed", c.run.Failed),
	)
}

// Reset clears the draft, the optimization result, the delivery log and the
// progress, and returns the session to idle. It is accepted in every state.
// An optimization or dispatch run in flight is cancelled and its results are
// discarded.
func (c *Campaign) Reset() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	if c.cancelOptimize != nil {
		c.cancelOptimize()
		c.cancelOptimize = nil
	}
	if c.cancelRun != nil {
		c.cancelRun()
		c.cancelRun = nil
	}

	c.draft = Draft{}
	c.result = nil
	c.logs = nil
	c.progress = 0
	c.run = RunStats{}
	c.lastError = ""
	c.status = StatusIdle

	c.logger.Info("campaign reset")
	return c.snapshotLocked()
}

// Wait blocks until every dispatch goroutine started so far has returned.
func (c *Campaign) Wait() {
	c.runs.Wait()
}

// Close cancels an in-flight dispatch run and waits for it to stop, or for
// ctx to be done.
func (c *Campaign) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.cancelRun != nil {
		c.cancelRun()
	}
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.runs.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
