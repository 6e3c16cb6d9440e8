package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/reiviji/storescan/internal/clearance"
	"github.com/reiviji/storescan/internal/extract"
	"github.com/reiviji/storescan/internal/model"
	"github.com/reiviji/storescan/internal/store"
)

// Fetcher retrieves rendered page HTML. The clearance client satisfies
// this; tests substitute their own implementation.
type Fetcher interface {
	SourceHTML(ctx context.Context, pageURL string, proxy *clearance.Proxy) (string, error)
}

// Harvester walks store listings and collects product links.
//
// Page failures never abort a run: a page that cannot be fetched is
// recorded as failed in the report and the walk moves on to the next
// page. Only output file write errors stop the run, since continuing
// would silently drop every link collected so far.
type Harvester struct {
	// fetcher retrieves listing page HTML through the clearance service.
	fetcher Fetcher

	// extractor pulls product links out of listing HTML.
	extractor *extract.Extractor

	// proxy is the optional upstream proxy forwarded to the clearance
	// service with every fetch.
	proxy *clearance.Proxy

	// db optionally persists harvested links and the run report.
	db *store.LinkDB

	// logger is used for run-level logging.
	logger *slog.Logger
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithLogger sets a custom logger for the run.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harvester) {
		h.logger = logger
	}
}

// WithProxy forwards an upstream proxy to the clearance service on every
// page fetch.
func WithProxy(proxy *clearance.Proxy) Option {
	return func(h *Harvester) {
		h.proxy = proxy
	}
}

// WithLinkDB persists harvested links and the run report to the given
// database in addition to the output file.
func WithLinkDB(db *store.LinkDB) Option {
	return func(h *Harvester) {
		h.db = db
	}
}

// NewHarvester creates a Harvester that fetches pages with the given
// fetcher and extracts links with the given extractor.
func NewHarvester(fetcher Fetcher, extractor *extract.Extractor, opts ...Option) *Harvester {
	h := &Harvester{
		fetcher:   fetcher,
		extractor: extractor,
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.logger == nil {
		h.logger = slog.Default()
	}

	return h
}

// PageURL builds the URL for one page of a store listing. The pagination
// query is appended with "?" or "&" depending on whether the listing URL
// already carries a query string.
func PageURL(listingURL string, page int) string {
	sep := "?"
	if strings.Contains(listingURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%snoRedirect=1&page=%d", listingURL, sep, page)
}

// HarvestStore walks every page of one store listing and returns the
// per-page results. Failed pages are recorded and skipped.
func (h *Harvester) HarvestStore(ctx context.Context, record model.LinkRecord) model.StoreResult {
	result := model.StoreResult{
		SourceURL: record.SourceURL,
		Pages:     make([]model.PageResult, 0, record.PageCount),
	}

	for page := 1; page <= record.PageCount; page++ {
		result.Pages = append(result.Pages, h.harvestPage(ctx, record.SourceURL, page))
	}

	h.logger.Info("store harvested",
		"source", record.SourceURL,
		"pages", len(result.Pages),
		"failed_pages", result.FailedPages(),
		"links", result.LinkCount(),
	)
	return result
}

// harvestPage fetches and extracts a single listing page.
func (h *Harvester) harvestPage(ctx context.Context, listingURL string, page int) model.PageResult {
	pageURL := PageURL(listingURL, page)
	start := time.Now()

	result := model.PageResult{
		URL:       pageURL,
		FetchedAt: start,
	}

	html, err := h.fetcher.SourceHTML(ctx, pageURL, h.proxy)
	result.Elapsed = time.Since(start)
	if err != nil {
		h.logger.Warn("page fetch failed",
			"url", pageURL,
			"error", err,
		)
		result.Failed = true
		result.Error = err.Error()
		return result
	}

	result.Links = h.extractor.ProductLinks(html)
	h.logger.Debug("page harvested",
		"url", pageURL,
		"links", len(result.Links),
		"elapsed", result.Elapsed,
	)
	return result
}

// Run harvests every store record in order and appends the collected
// links to the output file. Returns the run report; the error is non-nil
// only when the output file or database cannot be written.
func (h *Harvester) Run(ctx context.Context, records []model.LinkRecord, outputPath string) (*model.HarvestReport, error) {
	h.logger.Info("starting harvest run",
		"stores", len(records),
		"output", outputPath,
	)

	report := model.NewHarvestReport(outputPath)

	for _, record := range records {
		result := h.HarvestStore(ctx, record)
		if err := h.saveStore(ctx, outputPath, result); err != nil {
			return report, err
		}
		report.AddStore(result)
	}

	report.FinishedAt = time.Now()
	if err := h.saveReport(ctx, report); err != nil {
		return report, err
	}

	h.logger.Info("harvest run complete",
		"stores", len(report.Stores),
		"pages", report.TotalPages(),
		"failed_pages", report.TotalFailedPages(),
		"links", report.TotalLinks(),
		"elapsed", report.Elapsed(),
	)
	return report, nil
}

// saveStore appends one store's links to the output file and, when a
// database is configured, records them there too.
func (h *Harvester) saveStore(ctx context.Context, outputPath string, result model.StoreResult) error {
	links := make([]string, 0, result.LinkCount())
	for _, page := range result.Pages {
		links = append(links, page.Links...)
	}
	if err := appendLinks(outputPath, links); err != nil {
		return err
	}

	if h.db != nil {
		for i := range result.Pages {
			if err := h.db.InsertPageLinks(ctx, result.SourceURL, &result.Pages[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// saveReport persists the run report when a database is configured.
func (h *Harvester) saveReport(ctx context.Context, report *model.HarvestReport) error {
	if h.db == nil {
		return nil
	}
	return h.db.SaveHarvestReport(ctx, report)
}

// appendLinks appends links to the output file, one per line. The file is
// created if it does not exist; existing content is preserved.
func appendLinks(path string, links []string) error {
	if len(links) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open output file %s: %w", path, err)
	}

	if _, err := f.WriteString(strings.Join(links, "\n") + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return f.Close()
}
