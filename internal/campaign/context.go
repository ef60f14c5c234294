package campaign

import (
	"context"
	"log/slog"

	"github.com/deliverai/deliverai/pkg/logger"
)

type runIDKey struct{}

// WithRunID stores the dispatch run id in ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the dispatch run id stored in ctx, if any.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// RunIDExtractor adds "run_id" to log records emitted during a dispatch run.
func RunIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := RunID(ctx); id != "" {
			return slog.String("run_id", id), true
		}
		return slog.Attr{}, false
	}
}
