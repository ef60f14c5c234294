package views

import (
	"time"

	"github.com/a-h/templ"

	"github.com/deliverai/deliverai/internal/campaign"
)

// Live is the dispatch panel. While a run is in progress it polls /status
// every second and replaces itself; the first response after the run ends
// carries no trigger, which stops polling.
func Live(s campaign.Snapshot) templ.Component {
	return component(func(m *markup) {
		m.raw(`<section id="` + LiveID + `" class="card"`)
		if s.Status == campaign.StatusSending {
			m.raw(` hx-get="/status" hx-trigger="every 1s" hx-swap="outerHTML"`)
		}
		m.raw(`>`)
		m.raw(`<h2>Delivery</h2>`)

		if s.ShowProgress() {
			m.raw(`<div class="progress" role="progressbar" aria-valuemin="0" aria-valuemax="100" aria-valuenow="`)
			m.num(s.Progress)
			m.raw(`"><div style="width:`)
			m.num(s.Progress)
			m.raw(`%"></div></div>`)
		}

		m.raw(`<div class="stats">`)
		stat(m, "Delivered", s.Run.Delivered)
		stat(m, "Failed", s.Run.Failed)
		stat(m, "Total", s.Run.Total)
		m.raw(`</div>`)

		if s.Status == campaign.StatusCompleted {
			m.raw(`<p class="done">Campaign completed.</p>`)
		}

		if len(s.Logs) == 0 {
			m.raw(`<p class="empty">No deliveries yet.</p>`)
		} else {
			m.raw(`<ul class="log">`)
			for _, e := range s.Logs {
				m.render(LogEntry(e))
			}
			m.raw(`</ul>`)
		}

		m.raw(`</section>`)
	})
}

// LogEntry renders one delivery log line with its status badge.
func LogEntry(e campaign.DeliveryLogEntry) templ.Component {
	return component(func(m *markup) {
		m.raw(`<li`)
		m.attr("id", "log-"+e.ID)
		m.raw(`><span class="badge `)
		if e.Status == campaign.DeliverySuccess {
			m.raw(`success">Inbox`)
		} else {
			m.raw(`failed">Refused`)
		}
		m.raw(`</span><span class="email">`)
		m.text(e.Email)
		m.raw(`</span><time`)
		if !e.SentAt.IsZero() {
			m.attr("datetime", e.SentAt.Format(time.RFC3339))
		}
		m.raw(`>`)
		m.text(e.Timestamp)
		m.raw(`</time></li>`)
	})
}

func stat(m *markup, label string, n int) {
	m.raw(`<div><span class="label">`)
	m.text(label)
	m.raw(`</span> <strong>`)
	m.text(formatCount(n))
	m.raw(`</strong></div>`)
}
