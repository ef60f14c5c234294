package views

import (
	"github.com/a-h/templ"

	"github.com/deliverai/deliverai/internal/campaign"
	"github.com/deliverai/deliverai/pkg/mailer"
	"github.com/deliverai/deliverai/pkg/sanitizer"
)

var preview = mailer.NewRenderer(mailer.WithHTMLFilter(sanitizer.SanitizeHTML))

// Results shows the last optimization: score, spam flags, suggestions and
// a rendered preview of the optimized body.
func Results(s campaign.Snapshot) templ.Component {
	return component(func(m *markup) {
		m.raw(`<section id="results" class="card">`)
		m.raw(`<h2>Optimization</h2>`)

		r := s.Result
		if r == nil {
			m.raw(`<p class="empty">Run Optimize to score the draft and get a cleaner rewrite.</p></section>`)
			return
		}

		m.raw(`<p class="score">`)
		m.num(r.DeliverabilityScore)
		m.raw(`<small>/100</small></p>`)

		m.raw(`<h3>Spam flags</h3>`)
		list(m, r.SpamFlags, "No spam triggers found.")
		m.raw(`<h3>Suggestions</h3>`)
		list(m, r.Suggestions, "No further suggestions.")

		m.raw(`<div class="preview"><h3>Preview</h3>`)
		body, err := preview.Render(r.OptimizedBody)
		if err != nil {
			m.raw(`<pre>`)
			m.text(r.OptimizedBody)
			m.raw(`</pre>`)
		} else {
			m.render(templ.Raw(body.HTML))
		}
		m.raw(`</div>`)

		m.raw(`</section>`)
	})
}

func list(m *markup, items []string, empty string) {
	if len(items) == 0 {
		m.raw(`<p class="empty">`)
		m.text(empty)
		m.raw(`</p>`)
		return
	}
	m.raw(`<ul>`)
	for _, item := range items {
		m.raw(`<li>`)
		m.text(item)
		m.raw(`</li>`)
	}
	m.raw(`</ul>`)
}
