package htmx

// Response headers.
const (
	HeaderHXRedirect = "HX-Redirect"
	HeaderHXRefresh  = "HX-Refresh"
	HeaderHXReswap   = "HX-Reswap"
	HeaderHXRetarget = "HX-Retarget"
	HeaderHXTrigger  = "HX-Trigger"
)

// Request headers.
const (
	HeaderHXRequest = "HX-Request"
	HeaderHXTarget  = "HX-Target"
)
