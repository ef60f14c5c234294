package htmx

// SwapStrategy is the value of hx-swap and HX-Reswap.
type SwapStrategy string

const (
	SwapInnerHTML SwapStrategy = "innerHTML"
	SwapOuterHTML SwapStrategy = "outerHTML"
	SwapNone      SwapStrategy = "none"
)
