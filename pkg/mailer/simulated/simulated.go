// Package simulated provides a mailer.Sender that never talks to a network.
// Each message is accepted or refused by an independent random draw, which
// stands in for inbox placement in campaign dry runs.
package simulated

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/deliverai/deliverai/pkg/mailer"
)

// DefaultFailureRate is the probability that a message is refused.
const DefaultFailureRate = 0.05

// ErrRefused is returned for messages that lose the random draw.
var ErrRefused = errors.New("simulated: message refused by recipient server")

// Sender implements mailer.Sender with a coin flip.
type Sender struct {
	rng         *rand.Rand
	failureRate float64
	mu          sync.Mutex
}

// Option configures a Sender.
type Option func(*Sender)

// WithFailureRate sets the refusal probability. Values outside [0,1] are ignored.
func WithFailureRate(rate float64) Option {
	return func(s *Sender) {
		if rate >= 0 && rate <= 1 {
			s.failureRate = rate
		}
	}
}

// WithRand sets the random source. Useful for deterministic tests.
func WithRand(r *rand.Rand) Option {
	return func(s *Sender) {
		if r != nil {
			s.rng = r
		}
	}
}

// New creates a Sender with a 5% refusal rate and an unseeded random source.
func New(opts ...Option) *Sender {
	s := &Sender{
		failureRate: DefaultFailureRate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send draws a uniform number in [0,1); the message is accepted when the draw
// is greater than the failure rate.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if email == nil || len(email.To) == 0 {
		return mailer.ErrNoRecipient
	}

	if s.draw() > s.failureRate {
		return nil
	}
	return ErrRefused
}

func (s *Sender) draw() float64 {
	if s.rng == nil {
		return rand.Float64()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}
