package htmx

import "net/http"

// Redirect sends the client to url after a form post. htmx requests get an
// HX-Redirect header with 200; regular requests get 303 See Other.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsHTMX(r) {
		w.Header().Set(HeaderHXRedirect, url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
