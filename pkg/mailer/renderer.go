package mailer

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Body is a rendered message body.
type Body struct {
	HTML string
	Text string // The Markdown source, used as the plain text alternative
}

// Renderer converts Markdown bodies to HTML.
// A Renderer is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	filter func(string) string
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithHTMLFilter sets a function applied to the generated HTML,
// typically an HTML sanitizer.
func WithHTMLFilter(fn func(string) string) RendererOption {
	return func(r *Renderer) {
		r.filter = fn
	}
}

// NewRenderer creates a Renderer with GitHub-flavoured Markdown, hard line
// breaks and call-to-action buttons enabled.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, NewCallToActionExtension()),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts the Markdown source into a Body.
func (r *Renderer) Render(source string) (*Body, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	out := buf.String()
	if r.filter != nil {
		out = r.filter(out)
	}

	return &Body{HTML: out, Text: source}, nil
}
