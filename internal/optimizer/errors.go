package optimizer

import "errors"

var (
	// ErrServiceFailed wraps every failure of a remote optimization backend.
	ErrServiceFailed = errors.New("optimizer: service request failed")

	ErrEmptyResponse     = errors.New("optimizer: empty response")
	ErrMalformedResponse = errors.New("optimizer: malformed response")
	ErrNotConfigured     = errors.New("optimizer: no API key configured")
	ErrInvalidPrompt     = errors.New("optimizer: invalid prompt configuration")
)
