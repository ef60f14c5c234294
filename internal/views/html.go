package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numbers = message.NewPrinter(language.English)

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	return numbers.Sprintf("%d", n)
}

// plural picks the singular or plural noun for n.
func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// markup writes HTML and keeps the first write error.
type markup struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newMarkup(ctx context.Context, w io.Writer) *markup {
	return &markup{ctx: ctx, w: w}
}

// raw writes s unescaped. Only pass literals.
func (m *markup) raw(s string) {
	if m.err == nil {
		_, m.err = io.WriteString(m.w, s)
	}
}

func (m *markup) text(s string) {
	m.raw(templ.EscapeString(s))
}

func (m *markup) attr(name, value string) {
	m.raw(" " + name + "=\"" + templ.EscapeString(value) + "\"")
}

func (m *markup) flag(name string, on bool) {
	if on {
		m.raw(" " + name)
	}
}

func (m *markup) num(n int) {
	m.raw(strconv.Itoa(n))
}

func (m *markup) render(c templ.Component) {
	if m.err == nil && c != nil {
		m.err = c.Render(m.ctx, m.w)
	}
}

func component(fn func(m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(ctx, w)
		fn(m)
		return m.err
	})
}
