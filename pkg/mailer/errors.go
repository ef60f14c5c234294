package mailer

import "errors"

var (
	// ErrNoRecipient is returned when a message has no recipients.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrSendFailed wraps any error returned by the underlying Sender.
	ErrSendFailed = errors.New("failed to send email")

	// ErrRenderFailed is returned when the body cannot be converted to HTML.
	ErrRenderFailed = errors.New("failed to render email body")
)
