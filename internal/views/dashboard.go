package views

import (
	"github.com/a-h/templ"

	"github.com/deliverai/deliverai/internal/campaign"
)

// Element ids swapped by htmx.
const (
	DashboardID = "dashboard"
	ActionsID   = "actions"
	LiveID      = "live"
)

// Dashboard is the swappable main region: composer, actions, results and
// the live dispatch panel.
func Dashboard(s campaign.Snapshot) templ.Component {
	return component(func(m *markup) {
		m.raw(`<main id="` + DashboardID + `">`)

		m.raw(`<section class="card">`)
		if s.Status == campaign.StatusError && s.LastError != "" {
			m.render(Notice(NoticeError, "Optimization failed", s.LastError, "Edit the draft or try again."))
		} else {
			m.render(Notice("", ""))
		}
		m.render(Composer(s, false))
		m.render(Actions(s, false))
		m.raw(`</section>`)

		m.raw(`<aside>`)
		m.render(Results(s))
		m.render(Live(s))
		m.raw(`</aside>`)

		m.raw(`</main>`)
	})
}

// Composer is the draft form. Typing posts the fields to /draft, which
// answers with a fresh Actions fragment. Fields are readonly while an
// operation is in flight. With oob set it is marked for an out-of-band swap.
func Composer(s campaign.Snapshot, oob bool) templ.Component {
	return component(func(m *markup) {
		m.raw(`<form id="composer" hx-post="/draft" hx-trigger="input changed delay:300ms"`)
		m.raw(` hx-target="#` + ActionsID + `" hx-swap="outerHTML"`)
		if oob {
			m.raw(` hx-swap-oob="true"`)
		}
		m.raw(`>`)

		m.raw(`<label for="recipients">Recipients</label>`)
		m.raw(`<textarea id="recipients" name="recipients" placeholder="one@example.com, two@example.com"`)
		m.flag("readonly", s.Status.Busy())
		m.raw(`>`)
		m.text(s.Draft.Recipients)
		m.raw(`</textarea>`)

		m.raw(`<label for="subject">Subject</label>`)
		m.raw(`<input id="subject" name="subject" type="text"`)
		m.attr("value", s.Draft.Subject)
		m.flag("readonly", s.Status.Busy())
		m.raw(`>`)

		m.raw(`<label for="body">Body</label>`)
		m.raw(`<textarea id="body" name="body" rows="12" placeholder="Write your email in Markdown"`)
		m.flag("readonly", s.Status.Busy())
		m.raw(`>`)
		m.text(s.Draft.Body)
		m.raw(`</textarea>`)

		m.raw(`</form>`)
	})
}

// Actions holds the recipient counter and the Optimize, Send and Reset
// buttons. With oob set it is marked for an out-of-band swap.
func Actions(s campaign.Snapshot, oob bool) templ.Component {
	return component(func(m *markup) {
		m.raw(`<div id="` + ActionsID + `" class="actions"`)
		if oob {
			m.raw(` hx-swap-oob="true"`)
		}
		m.raw(`>`)

		m.raw(`<span class="count">`)
		m.text(formatCount(s.RecipientCount))
		m.raw(" " + plural(s.RecipientCount, "valid recipient", "valid recipients"))
		m.raw(`</span>`)

		m.raw(`<button type="button" class="guarded" name="action" value="optimize" hx-post="/optimize" hx-include="#composer"`)
		m.raw(` hx-target="#` + DashboardID + `" hx-swap="outerHTML" hx-disabled-elt="#` + ActionsID + ` .guarded"`)
		m.flag("disabled", !s.CanOptimize())
		m.raw(`>`)
		if s.Status == campaign.StatusOptimizing {
			m.raw(`Optimizing…`)
		} else {
			m.raw(`Optimize`)
		}
		m.raw(`</button>`)

		m.raw(`<button type="button" class="primary guarded" name="action" value="send" hx-post="/send" hx-include="#composer"`)
		m.raw(` hx-target="#` + DashboardID + `" hx-swap="outerHTML" hx-disabled-elt="#` + ActionsID + ` .guarded"`)
		m.flag("disabled", !s.CanSend())
		m.raw(`>`)
		if s.Status == campaign.StatusSending {
			m.raw(`Sending…`)
		} else {
			m.raw(`Send`)
		}
		m.raw(`</button>`)

		m.raw(`<button type="button" name="action" value="reset" hx-post="/reset"`)
		m.raw(` hx-target="#` + DashboardID + `" hx-swap="outerHTML">Reset</button>`)

		m.raw(`</div>`)
	})
}
