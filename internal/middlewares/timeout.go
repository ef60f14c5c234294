package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/deliverai/deliverai/internal/web"
)

// DefaultTimeout is used when Timeout is given a non-positive duration.
const DefaultTimeout = 90 * time.Second

type timeoutContextKey struct{}

// Timeout returns a *TimeoutError when the handler has not returned within d.
// The handler keeps running in its goroutine; long operations should watch
// GetTimeoutContext(c).Done().
func Timeout(d time.Duration) web.Middleware {
	if d <= 0 {
		d = DefaultTimeout
	}

	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), d)
			defer cancel()

			c.Set(timeoutContextKey{}, ctx)

			done := make(chan error, 1)
			go func() {
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					c.LogWarn("request timeout", "timeout", d.String())
					return &TimeoutError{Duration: d}
				}
				return ctx.Err()
			}
		}
	}
}

// GetTimeoutContext returns the deadline-bound context set by Timeout, or
// the request context.
func GetTimeoutContext(c web.Context) context.Context {
	if v, ok := c.Get(timeoutContextKey{}).(context.Context); ok {
		return v
	}
	return c.Context()
}
