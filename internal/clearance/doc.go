// Package clearance implements the client for the external anti-bot
// clearance service (cf-clearance-scraper). The service solves challenges
// on behalf of the caller and returns session cookies, Turnstile tokens, or
// raw page source depending on the requested mode.
//
// The package does not implement any bypass logic itself; it only speaks
// the service's small JSON-over-HTTP protocol.
package clearance
