// Package report formats harvest run results for humans and tools.
//
// Three output formats are supported: plain text for terminal display,
// JSON for programmatic consumption, and Markdown for documentation and
// sharing. All formats implement the same Writer interface so callers can
// compose them with MultiWriter and send one run to several destinations
// at once.
package report
