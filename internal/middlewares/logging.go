package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/deliverai/deliverai/internal/web"
)

// RequestLogger logs one line per request after the handler returns.
// Status is the one the handler asked for, even when htmx rewrites it.
func RequestLogger() web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			start := time.Now()
			err := next(c)

			r := c.Request()
			rw := c.ResponseWriter()
			status := rw.Status()
			if err != nil && !rw.Written() {
				status = http.StatusInternalServerError
				if he := web.AsHTTPError(err); he != nil {
					status = he.Code
				}
			}

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int64("size", rw.Size()),
				slog.Duration("duration", time.Since(start)),
			}
			if c.IsHTMX() {
				attrs = append(attrs, slog.Bool("htmx", true))
			}

			switch {
			case err != nil && status >= 500:
				c.LogError("request failed", append(attrs, slog.String("error", err.Error()))...)
			case err != nil:
				c.LogWarn("request rejected", append(attrs, slog.String("error", err.Error()))...)
			default:
				c.LogInfo("request", attrs...)
			}
			return err
		}
	}
}
