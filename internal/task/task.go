package task

import (
	"time"

	"github.com/reiviji/storescan/internal/model"
)

// Status describes where a task is in its lifecycle.
type Status string

const (
	// StatusPending means the task is queued but not yet started.
	StatusPending Status = "pending"

	// StatusScanningPages means listing pages are being fetched and
	// product links collected.
	StatusScanningPages Status = "scanning_pages"

	// StatusScrapingProducts means individual product pages are being
	// fetched for details.
	StatusScrapingProducts Status = "scraping_products"

	// StatusCompleted means the task finished successfully.
	StatusCompleted Status = "completed"

	// StatusFailed means the task stopped with an error.
	StatusFailed Status = "failed"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Result holds the outcome of a completed task.
type Result struct {
	// Links are all product links collected from the listing pages,
	// in harvest order.
	Links []string `json:"links"`

	// Products holds per-product details when detail scraping was
	// requested.
	Products []model.ProductDetails `json:"products,omitempty"`

	// Report is the full harvest run report.
	Report *model.HarvestReport `json:"report,omitempty"`
}

// Task is one asynchronous harvest job.
type Task struct {
	// ID uniquely identifies the task.
	ID string `json:"task_id"`

	// Status is the current lifecycle state.
	Status Status `json:"status"`

	// CreatedAt is when the task was accepted.
	CreatedAt time.Time `json:"created_at"`

	// FinishedAt is when the task reached a terminal state.
	// Zero until then.
	FinishedAt time.Time `json:"finished_at,omitzero"`

	// Error describes why the task failed. Empty otherwise.
	Error string `json:"error,omitempty"`

	// Result is populated only once the task is terminal. Callers
	// polling a running task see status without partial results.
	Result *Result `json:"result,omitempty"`
}
