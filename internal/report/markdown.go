package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/reiviji/storescan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the harvest report in Markdown format.
func (w *MarkdownWriter) Write(report *model.HarvestReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeStores(md, report)
	w.writeDistribution(md, report)
	w.writeAlert(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.HarvestReport) {
	md.H1("Store Scan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Elapsed().String()},
			{"Output File", "`" + report.OutputPath + "`"},
			{"Stores", strconv.Itoa(len(report.Stores))},
			{"Pages Fetched", strconv.Itoa(report.TotalPages())},
			{"Failed Pages", strconv.Itoa(report.TotalFailedPages())},
			{"Product Links", strconv.Itoa(report.TotalLinks())},
		},
	})
	md.PlainText("")
}

// writeStores writes a per-store results table.
func (w *MarkdownWriter) writeStores(md *markdown.Markdown, report *model.HarvestReport) {
	if len(report.Stores) == 0 {
		return
	}

	md.H2("Stores")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Stores))
	for _, store := range report.Stores {
		rows = append(rows, []string{
			"`" + store.SourceURL + "`",
			strconv.Itoa(len(store.Pages)),
			strconv.Itoa(store.FailedPages()),
			strconv.Itoa(store.LinkCount()),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Store", "Pages", "Failed", "Links"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeDistribution writes a mermaid pie chart of links per store.
func (w *MarkdownWriter) writeDistribution(md *markdown.Markdown, report *model.HarvestReport) {
	if len(report.Stores) < 2 || report.TotalLinks() == 0 {
		return
	}

	md.H2("Link Distribution")
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Product links by store"),
		piechart.WithShowData(true),
	)
	for _, store := range report.Stores {
		if store.LinkCount() > 0 {
			chart.LabelAndIntValue(store.SourceURL, uint64(store.LinkCount()))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert adds a GitHub-flavored alert when pages failed.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.HarvestReport) {
	failed := report.TotalFailedPages()
	switch {
	case failed > 0:
		md.Warningf("%d page(s) failed to fetch; their links are missing from the output.", failed)
	case report.TotalLinks() == 0:
		md.Note("No product links were found. Check the listing URLs and the extraction pattern.")
	default:
		md.Tip("All pages fetched successfully.")
	}
	md.PlainText("")
}
