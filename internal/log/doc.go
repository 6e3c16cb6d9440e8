// Package log provides logging utilities for storescan.
// It wraps log/slog handlers to keep proxy credentials, session cookies,
// and clearance tokens out of log output.
package log
