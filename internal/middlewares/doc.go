// Package middlewares holds the HTTP middleware the dashboard runs with.
//
// RequestID tags each request with an ID (UUIDv7 unless an upstream header
// carries one). Pair it with RequestIDExtractor so every log line made with
// the request context carries request_id:
//
//	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
//	app := web.New(
//	    web.WithLogger(log),
//	    web.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.RequestLogger(),
//	        middlewares.Recover(),
//	        middlewares.Timeout(cfg.Server.RequestTimeout),
//	    ),
//	)
//
// Recover and Timeout return typed errors (*PanicError, *TimeoutError) that
// the app's error handler turns into responses.
package middlewares
