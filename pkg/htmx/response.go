package htmx

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Renderable is satisfied by templ.Component.
type Renderable interface {
	Render(ctx context.Context, w io.Writer) error
}

// Response collects the htmx headers and out-of-band fragments of one reply.
type Response struct {
	OOB      []Renderable
	Events   map[string]any
	Retarget string
	Reswap   SwapStrategy
	Refresh  bool
}

// Option configures a Response.
type Option func(*Response)

// NewResponse builds a Response from options.
func NewResponse(opts ...Option) *Response {
	r := &Response{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithOOB appends fragments rendered after the main component. Each must
// carry an id and hx-swap-oob.
func WithOOB(components ...Renderable) Option {
	return func(r *Response) {
		r.OOB = append(r.OOB, components...)
	}
}

// WithRetarget sets HX-Retarget.
func WithRetarget(selector string) Option {
	return func(r *Response) {
		r.Retarget = selector
	}
}

// WithReswap sets HX-Reswap.
func WithReswap(s SwapStrategy) Option {
	return func(r *Response) {
		r.Reswap = s
	}
}

// WithTrigger fires a client-side event. A nil detail sends the bare event name.
func WithTrigger(event string, detail any) Option {
	return func(r *Response) {
		if r.Events == nil {
			r.Events = make(map[string]any)
		}
		r.Events[event] = detail
	}
}

// WithRefresh asks the client to reload the page.
func WithRefresh() Option {
	return func(r *Response) {
		r.Refresh = true
	}
}

// Apply writes the headers. It must run before WriteHeader.
func (r *Response) Apply(w http.ResponseWriter) error {
	if r == nil {
		return nil
	}

	h := w.Header()
	if r.Retarget != "" {
		h.Set(HeaderHXRetarget, r.Retarget)
	}
	if r.Reswap != "" {
		h.Set(HeaderHXReswap, string(r.Reswap))
	}
	if r.Refresh {
		h.Set(HeaderHXRefresh, "true")
	}
	if len(r.Events) == 0 {
		return nil
	}

	if !hasDetail(r.Events) {
		names := make([]string, 0, len(r.Events))
		for name := range r.Events {
			names = append(names, name)
		}
		h.Set(HeaderHXTrigger, strings.Join(names, ", "))
		return nil
	}

	b, err := json.Marshal(r.Events)
	if err != nil {
		return err
	}
	h.Set(HeaderHXTrigger, string(b))
	return nil
}

// RenderOOB writes the out-of-band fragments.
func (r *Response) RenderOOB(ctx context.Context, w io.Writer) error {
	if r == nil {
		return nil
	}
	for _, c := range r.OOB {
		if err := c.Render(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

func hasDetail(events map[string]any) bool {
	for _, v := range events {
		if v != nil {
			return true
		}
	}
	return false
}
