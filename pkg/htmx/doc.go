// Package htmx provides request detection and response headers for htmx.
//
// Handlers render a component and describe side effects with a Response:
//
//	resp := htmx.NewResponse(
//		htmx.WithOOB(views.Actions(snap, true)),
//		htmx.WithTrigger("notice", map[string]string{"level": "warn"}),
//	)
//	_ = resp.Apply(w)
//	_ = component.Render(ctx, w)
//	_ = resp.RenderOOB(ctx, w)
//
// Non-htmx requests ignore the headers, so handlers usually apply a Response
// only when IsHTMX reports true.
package htmx
