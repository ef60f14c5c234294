package web

// Handler declares routes on a router.
//
//	type DashboardHandler struct {
//	    campaign *campaign.Campaign
//	}
//
//	func (h *DashboardHandler) Routes(r web.Router) {
//	    r.GET("/", h.page)
//	    r.POST("/send", h.send)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc handles a request. A non-nil error is passed to the app's ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers.
type ErrorHandler func(Context, error) error
