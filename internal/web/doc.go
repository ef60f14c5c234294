// Package web is the HTTP layer: an App built on chi, a Context passed to
// every handler, typed HTTP errors, and a runtime with graceful shutdown.
//
// Handlers implement Handler and return errors instead of writing failure
// responses themselves:
//
//	func (h *Dashboard) send(c web.Context) error {
//	    if _, err := h.campaign.Send(); err != nil {
//	        return web.ErrConflict("a run is already in progress", web.WithError(err))
//	    }
//	    return c.Render(http.StatusOK, views.Live(h.campaign.Snapshot()))
//	}
//
// The App passes returned errors to its ErrorHandler. Once the response has
// started, errors are only logged.
//
// For htmx requests ResponseWriter sends 4xx and 5xx statuses as 200 so the
// error fragment is swapped in; Status still reports the original code.
package web
