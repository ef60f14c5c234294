package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/deliverai/deliverai/internal/middlewares"
	"github.com/deliverai/deliverai/internal/views"
	"github.com/deliverai/deliverai/internal/web"
	"github.com/deliverai/deliverai/pkg/htmx"
)

type errorResponse struct {
	Error     string   `json:"error"`
	Code      string   `json:"code,omitempty"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"requestId,omitempty"`
}

// ErrorHandler renders handler errors: JSON for API clients, a notice
// fragment swapped into #notice for htmx, a full page otherwise.
func ErrorHandler(c web.Context, err error) error {
	he := toHTTPError(err)
	if he.RequestID == "" {
		he.RequestID = middlewares.GetRequestID(c)
	}

	attrs := []any{
		slog.Int("status", he.Code),
		slog.String("error", err.Error()),
	}
	if pe, ok := middlewares.AsPanicError(err); ok && len(pe.Stack) > 0 {
		attrs = append(attrs, slog.String("stack", string(pe.Stack)))
	}
	if he.Code >= http.StatusInternalServerError {
		c.LogError("request error", attrs...)
	} else {
		c.LogDebug("request rejected", attrs...)
	}

	if wantsJSON(c) {
		return c.JSON(he.Code, errorResponse{
			Error:     he.Message,
			Code:      he.ErrorCode,
			Details:   he.Details,
			RequestID: he.RequestID,
		})
	}

	kind := views.NoticeWarning
	if he.Code >= http.StatusInternalServerError {
		kind = views.NoticeError
	}
	notice := views.Notice(kind, he.Message, he.Details...)

	if c.IsHTMX() {
		return c.Render(he.Code, notice,
			htmx.WithRetarget("#"+views.NoticeID),
			htmx.WithReswap(htmx.SwapOuterHTML),
		)
	}
	return c.Render(he.Code, views.Layout(http.StatusText(he.Code), notice))
}

// NotFound answers unknown routes through ErrorHandler.
func NotFound(c web.Context) error {
	return web.ErrNotFound("Page not found.", web.WithErrorCode("not_found"))
}

// MethodNotAllowed answers known paths hit with the wrong method.
func MethodNotAllowed(c web.Context) error {
	return web.NewHTTPError(http.StatusMethodNotAllowed, "Method not allowed.", web.WithErrorCode("method_not_allowed"))
}

func toHTTPError(err error) *web.HTTPError {
	if he := web.AsHTTPError(err); he != nil {
		return he
	}
	switch {
	case middlewares.IsPanicError(err):
		return web.ErrInternal("Something went wrong.", web.WithError(err), web.WithErrorCode("internal"))
	case middlewares.IsTimeoutError(err):
		return web.NewHTTPError(http.StatusGatewayTimeout, "The request took too long.",
			web.WithError(err), web.WithErrorCode("timeout"))
	case errors.Is(err, web.ErrBind):
		return web.ErrBadRequest("The request body is invalid.", web.WithError(err), web.WithErrorCode("bad_request"))
	default:
		return web.ErrInternal("Something went wrong.", web.WithError(err), web.WithErrorCode("internal"))
	}
}

func wantsJSON(c web.Context) bool {
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		return true
	}
	return !c.IsHTMX() && strings.Contains(c.Header("Accept"), "application/json")
}
