package clearance

import (
	"errors"
	"fmt"
)

// Client errors.
//
// Sentinel errors cover caller mistakes that are detectable before any
// network traffic; failures from the service itself are reported through
// RequestError so the HTTP status and body survive.
var (
	// ErrInvalidEndpoint is returned when the service host is empty or
	// the port is outside 1-65535.
	ErrInvalidEndpoint = errors.New("invalid clearance service endpoint")

	// ErrInvalidMode is returned when the request mode is not one of
	// waf-session, turnstile-min, or source.
	ErrInvalidMode = errors.New("invalid clearance mode")

	// ErrMissingSiteKey is returned when turnstile-min mode is requested
	// without a site key. The service cannot mint a token without one.
	ErrMissingSiteKey = errors.New("turnstile-min mode requires a site key")

	// ErrInvalidProxySpec is returned when a proxy string is not in
	// host:port:user:pass form.
	ErrInvalidProxySpec = errors.New("invalid proxy specification: expected host:port:user:pass")

	// ErrEmptySource is returned when a source-mode call succeeds at the
	// HTTP level but carries no page HTML.
	ErrEmptySource = errors.New("clearance response contained no page source")
)

// RequestError is returned when the clearance service replies with a
// non-2xx status, or reports a failure in its JSON body. It preserves the
// HTTP status line and the serialized response body for diagnosis.
type RequestError struct {
	// StatusCode is the numeric HTTP status code.
	StatusCode int

	// Status is the full status line, e.g. "403 Forbidden".
	Status string

	// Body is the raw response body, truncated to a sane length.
	Body string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("clearance service returned %s: %s", e.Status, e.Body)
}
