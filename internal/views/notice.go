package views

import "github.com/a-h/templ"

// Notice severities.
const (
	NoticeError   = "error"
	NoticeWarning = "warning"
)

// NoticeID is the element the notice fragment replaces.
const NoticeID = "notice"

// Notice is the blocking message shown above the composer.
// An empty title renders the empty placeholder.
func Notice(kind, title string, details ...string) templ.Component {
	return component(func(m *markup) {
		m.raw(`<div id="` + NoticeID + `">`)
		if title != "" {
			m.raw(`<div class="alert`)
			m.raw(" " + templ.EscapeString(kind))
			m.raw(`" role="alert"><strong>`)
			m.text(title)
			m.raw(`</strong>`)
			if len(details) > 0 {
				m.raw(`<ul>`)
				for _, d := range details {
					m.raw(`<li>`)
					m.text(d)
					m.raw(`</li>`)
				}
				m.raw(`</ul>`)
			}
			m.raw(`</div>`)
		}
		m.raw(`</div>`)
	})
}
