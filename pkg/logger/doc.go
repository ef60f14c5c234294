// Package logger builds the application's slog loggers.
//
// It adds two things on top of log/slog: context extractors that inject
// request-scoped attributes (request id, campaign run id) into every record,
// and optional forwarding of warnings and errors to Sentry.
//
// # Basic Usage
//
//	log := logger.New(logger.Config{Level: "debug", Format: "text"}, requestIDExtractor)
//	log.InfoContext(ctx, "campaign started", slog.Int("recipients", 12))
//	// time=... level=INFO msg="campaign started" recipients=12 request_id=01J...
//
// # Context Extractors
//
// A ContextExtractor pulls one attribute out of a context:
//
//	type ContextExtractor func(ctx context.Context) (slog.Attr, bool)
//
// Extractors run on every log call, so the values are always fresh. Return
// false to skip the attribute for that record.
//
// # Sentry Integration
//
//	log := logger.NewWithSentry(cfg, logger.SentryConfig{DSN: os.Getenv("SENTRY_DSN")}, extractors...)
//	defer logger.FlushSentry(2 * time.Second)
//
// Errors become Sentry issues, warnings are stored as breadcrumb logs. With an
// empty DSN, or when Sentry fails to initialize, the logger falls back to the
// plain stdout logger.
package logger
