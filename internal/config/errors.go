package config

import "errors"

// Configuration validation errors.
//
// We use package-level sentinel errors rather than creating new error
// instances in Validate() so callers can use errors.Is() while still
// getting human-readable messages.
var (
	// ErrNoClearanceHost is returned when the clearance service host is
	// empty after merging file, environment, and flag values.
	ErrNoClearanceHost = errors.New("no clearance service host: set api.cf_host or CF_HOST")

	// ErrInvalidClearancePort is returned when the clearance service port
	// is outside 1-65535.
	ErrInvalidClearancePort = errors.New("invalid clearance service port: must be 1-65535")

	// ErrInvalidTimeout is returned when the request timeout is not
	// positive. A zero timeout would fail every clearance call.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the page fetch concurrency
	// is below 1.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be at least 1")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one summary format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMode is returned when the bypass mode is not one of
	// waf-session, turnstile-min, or source.
	ErrInvalidMode = errors.New("invalid mode: must be waf-session, turnstile-min, or source")
)
