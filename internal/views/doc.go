// Package views renders the dashboard as templ components.
//
// Components are plain templ.Component values, so handlers pass them to
// web.Context.Render and htmx out-of-band options alike. User text goes
// through templ.EscapeString; the optimized body preview is Markdown
// rendered by goldmark and sanitized before it is emitted raw.
package views
