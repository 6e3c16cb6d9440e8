package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/reiviji/storescan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables per-page detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with per-page details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the harvest report in human-readable format.
func (w *SimpleWriter) Write(report *model.HarvestReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeStores(&sb, report)
	w.writeSummary(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the run header with timing information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.HarvestReport) {
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString("Store Scan Report\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(sb, "Started:  %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Duration: %s\n", report.Elapsed().Round(10*time.Millisecond))
	if report.OutputPath != "" {
		fmt.Fprintf(sb, "Output:   %s\n", report.OutputPath)
	}
	sb.WriteString("\n")
}

// writeStores writes one section per harvested store.
func (w *SimpleWriter) writeStores(sb *strings.Builder, report *model.HarvestReport) {
	for _, store := range report.Stores {
		fmt.Fprintf(sb, "[%s]\n", store.SourceURL)
		fmt.Fprintf(sb, "  pages: %d  failed: %d  links: %d\n",
			len(store.Pages), store.FailedPages(), store.LinkCount())

		if w.verbose {
			for _, page := range store.Pages {
				status := "ok"
				if page.Failed {
					status = "FAILED: " + page.Error
				}
				fmt.Fprintf(sb, "    %s (%d links) %s\n", page.URL, len(page.Links), status)
			}
		}
		sb.WriteString("\n")
	}
}

// writeSummary writes run totals.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.HarvestReport) {
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(sb, "Stores: %d  Pages: %d (%d failed)  Links: %d\n",
		len(report.Stores),
		report.TotalPages(),
		report.TotalFailedPages(),
		report.TotalLinks(),
	)
}
