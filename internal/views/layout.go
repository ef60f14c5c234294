package views

import (
	"github.com/a-h/templ"

	"github.com/deliverai/deliverai/internal/campaign"
)

const htmxScript = "https://unpkg.com/htmx.org@2.0.4"

// Page is the full dashboard document.
func Page(s campaign.Snapshot) templ.Component {
	return Layout("DeliverAI", Dashboard(s))
}

// Layout wraps body in the HTML document shell.
func Layout(title string, body templ.Component) templ.Component {
	return component(func(m *markup) {
		m.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		m.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		m.raw(`<title>`)
		m.text(title)
		m.raw(`</title><script src="` + htmxScript + `"></script>`)
		m.raw(`<style>` + stylesheet + `</style></head><body>`)
		m.raw(`<header class="topbar"><strong>DeliverAI</strong><span>Campaign composer</span></header>`)
		m.render(body)
		m.raw(`</body></html>`)
	})
}

const stylesheet = `
body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#1f2933}
.topbar{display:flex;gap:1rem;align-items:baseline;padding:1rem 2rem;background:#fff;border-bottom:1px solid #e4e7eb}
main{display:grid;grid-template-columns:minmax(0,3fr) minmax(0,2fr);gap:1.5rem;padding:1.5rem 2rem}
.card{background:#fff;border:1px solid #e4e7eb;border-radius:8px;padding:1rem 1.25rem}
label{display:block;font-weight:600;margin:.75rem 0 .25rem}
input,textarea{width:100%;box-sizing:border-box;font:inherit;padding:.5rem;border:1px solid #cbd2d9;border-radius:6px}
textarea{min-height:6rem}
.actions{display:flex;gap:.5rem;align-items:center;margin-top:1rem}
.actions .count{margin-right:auto;color:#52606d}
button{font:inherit;padding:.5rem 1rem;border-radius:6px;border:1px solid #3e4c59;background:#fff;cursor:pointer}
button.primary{background:#2563eb;border-color:#2563eb;color:#fff}
button[disabled]{opacity:.5;cursor:not-allowed}
.alert{border-radius:6px;padding:.75rem 1rem;margin-bottom:1rem}
.alert.error{background:#fde8e8;color:#9b1c1c}
.alert.warning{background:#fef3c7;color:#92400e}
.progress{height:.5rem;background:#e4e7eb;border-radius:4px;overflow:hidden}
.progress>div{height:100%;background:#2563eb}
.badge{font-size:.75rem;padding:.1rem .5rem;border-radius:999px}
.badge.success{background:#def7ec;color:#03543f}
.badge.failed{background:#fde8e8;color:#9b1c1c}
.log{list-style:none;padding:0;margin:0;max-height:24rem;overflow:auto}
.log li{display:flex;gap:.75rem;padding:.35rem 0;border-bottom:1px solid #f0f2f4}
.log time{color:#7b8794;margin-left:auto}
.stats{display:flex;gap:1.5rem}
.score{font-size:2rem;font-weight:700}
.preview{border-top:1px solid #e4e7eb;margin-top:1rem;padding-top:.5rem}
`
