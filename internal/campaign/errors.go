package campaign

import "errors"

var (
	// ErrValidation is returned when the draft is missing required fields.
	// It is always joined with one or more of the field errors below.
	ErrValidation = errors.New("campaign: draft is incomplete")

	ErrNoRecipients   = errors.New("add at least one recipient")
	ErrMissingSubject = errors.New("subject is required")
	ErrMissingBody    = errors.New("email body is required")

	// ErrBusy is returned when an optimization or a dispatch run is already in flight.
	ErrBusy = errors.New("campaign: another operation is in progress")

	// ErrOptimization wraps any failure of the optimizer.
	ErrOptimization = errors.New("campaign: optimization failed")

	// ErrDiscarded is returned when a reset happened while the optimizer was running.
	ErrDiscarded = errors.New("campaign: result discarded after reset")

	errNoResult = errors.New("optimizer returned no result")
)

// ValidationMessages returns the user-facing message of every missing field in err.
func ValidationMessages(err error) []string {
	var out []string
	for _, field := range []error{ErrNoRecipients, ErrMissingSubject, ErrMissingBody} {
		if errors.Is(err, field) {
			out = append(out, field.Error())
		}
	}
	return out
}
