package model

import (
	"time"
)

// LinkRecord is one row of the input spreadsheet: a store listing URL and
// the number of listing pages to walk.
//
// Records are ephemeral. They are read once per run, expanded into page
// URLs, and never persisted.
type LinkRecord struct {
	// SourceURL is the store or category listing URL.
	SourceURL string `json:"source_url"`

	// PageCount is the number of listing pages to fetch, starting at 1.
	// When the spreadsheet cell is absent or non-numeric, the reader
	// defaults this to 1.
	PageCount int `json:"page_count"`
}

// PageResult holds the outcome of fetching a single listing page.
//
// Design decision: failures are recorded as a message rather than an error
// value so the struct survives JSON round-trips in reports and in the task
// service API.
type PageResult struct {
	// URL is the paginated listing page URL that was fetched.
	URL string `json:"url"`

	// Links are the product URLs extracted from the page, in order of
	// first occurrence. Duplicates are preserved.
	Links []string `json:"links,omitempty"`

	// Failed indicates the fetch or extraction failed. The page is
	// skipped and the batch continues.
	Failed bool `json:"failed,omitempty"`

	// Error is the failure message when Failed is true.
	Error string `json:"error,omitempty"`

	// FetchedAt is the time the fetch completed (or failed).
	FetchedAt time.Time `json:"fetched_at"`

	// Elapsed is how long the fetch and extraction took.
	Elapsed time.Duration `json:"elapsed"`
}

// StoreResult groups the page results of a single spreadsheet record.
type StoreResult struct {
	// SourceURL is the listing URL from the spreadsheet row.
	SourceURL string `json:"source_url"`

	// Pages holds one result per generated page URL, in page order.
	Pages []PageResult `json:"pages"`
}

// LinkCount returns the number of links extracted across all pages of
// this store, duplicates included.
func (s *StoreResult) LinkCount() int {
	n := 0
	for _, p := range s.Pages {
		n += len(p.Links)
	}
	return n
}

// FailedPages returns the number of pages that failed for this store.
func (s *StoreResult) FailedPages() int {
	n := 0
	for _, p := range s.Pages {
		if p.Failed {
			n++
		}
	}
	return n
}

// HarvestReport is the summary of one batch run. It is rendered by the
// report writers and optionally persisted alongside the link store.
type HarvestReport struct {
	// StartedAt is when the batch run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the batch run completed.
	FinishedAt time.Time `json:"finished_at"`

	// OutputPath is the append-only file the links were written to.
	// Empty for single-URL runs that print to stdout.
	OutputPath string `json:"output_path,omitempty"`

	// Stores holds one entry per spreadsheet record, in input order.
	Stores []StoreResult `json:"stores"`
}

// NewHarvestReport creates an empty report stamped with the current time.
// outputPath may be empty for runs that do not write a link file.
func NewHarvestReport(outputPath string) *HarvestReport {
	return &HarvestReport{
		StartedAt:  time.Now(),
		OutputPath: outputPath,
		Stores:     make([]StoreResult, 0),
	}
}

// AddStore appends a store result to the report.
func (r *HarvestReport) AddStore(s StoreResult) {
	r.Stores = append(r.Stores, s)
}

// TotalPages returns the number of pages fetched (or attempted) in the run.
func (r *HarvestReport) TotalPages() int {
	n := 0
	for _, s := range r.Stores {
		n += len(s.Pages)
	}
	return n
}

// TotalFailedPages returns the number of pages skipped due to errors.
func (r *HarvestReport) TotalFailedPages() int {
	n := 0
	for _, s := range r.Stores {
		n += s.FailedPages()
	}
	return n
}

// TotalLinks returns the number of harvested links, duplicates included.
func (r *HarvestReport) TotalLinks() int {
	n := 0
	for _, s := range r.Stores {
		n += s.LinkCount()
	}
	return n
}

// Elapsed returns the wall-clock duration of the run.
func (r *HarvestReport) Elapsed() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
