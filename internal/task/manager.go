package task

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reiviji/storescan/internal/clearance"
	"github.com/reiviji/storescan/internal/extract"
	"github.com/reiviji/storescan/internal/harvest"
	"github.com/reiviji/storescan/internal/model"
	"golang.org/x/sync/errgroup"
)

// Manager owns the in-memory task table and executes tasks in the
// background.
//
// Design decision: task IDs are UUIDv4 rather than sequential integers
// so IDs are not guessable and restarts cannot hand out an ID that a
// stale client still associates with an old task.
type Manager struct {
	// harvester executes the listing page walk.
	harvester *harvest.Harvester

	// fetcher retrieves product pages for detail scraping.
	fetcher harvest.Fetcher

	// proxy is forwarded to the clearance service on detail fetches.
	proxy *clearance.Proxy

	// concurrency bounds parallel work within one task.
	concurrency int

	// logger is used for task lifecycle logging.
	logger *slog.Logger

	mu    sync.RWMutex
	tasks map[string]*Task
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets a custom logger for task execution.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithManagerConcurrency bounds parallel page and product fetches within
// one task. Default is 20.
func WithManagerConcurrency(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithManagerProxy forwards an upstream proxy on product detail fetches.
func WithManagerProxy(proxy *clearance.Proxy) ManagerOption {
	return func(m *Manager) {
		m.proxy = proxy
	}
}

// NewManager creates a task Manager executing harvests with the given
// harvester and fetching product pages with the given fetcher.
func NewManager(harvester *harvest.Harvester, fetcher harvest.Fetcher, opts ...ManagerOption) *Manager {
	m := &Manager{
		harvester:   harvester,
		fetcher:     fetcher,
		concurrency: 20,
		tasks:       make(map[string]*Task),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.logger == nil {
		m.logger = slog.Default()
	}

	return m
}

// Submit accepts a harvest job and starts it in the background. The
// returned task snapshot carries the ID the caller polls with. When
// scrapeDetails is true the task also fetches each collected product
// page for details after the listing walk.
func (m *Manager) Submit(ctx context.Context, records []model.LinkRecord, scrapeDetails bool) *Task {
	t := &Task{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.tasks[t.ID] = t
	m.mu.Unlock()

	m.logger.Info("task accepted",
		"task_id", t.ID,
		"stores", len(records),
		"scrape_details", scrapeDetails,
	)

	go m.run(ctx, t.ID, records, scrapeDetails)

	return m.snapshot(t.ID)
}

// Get returns a snapshot of the task with the given ID. The second
// return value is false when the ID is unknown.
func (m *Manager) Get(id string) (*Task, bool) {
	m.mu.RLock()
	_, ok := m.tasks[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return m.snapshot(id), true
}

// Count returns the number of tasks the manager knows about.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tasks)
}

// run executes one task to completion.
func (m *Manager) run(ctx context.Context, id string, records []model.LinkRecord, scrapeDetails bool) {
	m.setStatus(id, StatusScanningPages)

	report := model.NewHarvestReport("")

	batch := harvest.NewBatchHarvester(m.harvester,
		harvest.WithConcurrency(m.concurrency),
		harvest.WithBatchLogger(m.logger),
	)
	stores, err := batch.ProcessBatch(ctx, records)
	if err != nil {
		m.fail(id, err)
		return
	}

	for _, store := range stores {
		report.AddStore(store)
	}
	report.FinishedAt = time.Now()

	result := &Result{Links: collectLinks(stores), Report: report}

	if scrapeDetails {
		m.setStatus(id, StatusScrapingProducts)
		products, err := m.scrapeProducts(ctx, result.Links)
		if err != nil {
			m.fail(id, err)
			return
		}
		result.Products = products
	}

	m.complete(id, result)
}

// scrapeProducts fetches each product page and extracts its details.
// A page that fails to fetch or parse yields a details entry with its
// Error field set instead of failing the task.
func (m *Manager) scrapeProducts(ctx context.Context, links []string) ([]model.ProductDetails, error) {
	products := make([]model.ProductDetails, len(links))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for i, link := range links {
		i, link := i, link
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			html, err := m.fetcher.SourceHTML(ctx, link, m.proxy)
			if err != nil {
				m.logger.Warn("product fetch failed",
					"url", link,
					"error", err,
				)
				products[i] = model.ProductDetails{URL: link, Error: err.Error()}
				return nil
			}

			details, err := extract.ProductDetails(link, html)
			if err != nil {
				details = model.ProductDetails{URL: link, Error: err.Error()}
			}
			products[i] = details
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return products, nil
}

// setStatus updates a running task's status.
func (m *Manager) setStatus(id string, status Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		t.Status = status
	}
}

// complete marks a task finished and attaches its result.
func (m *Manager) complete(id string, result *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		t.Status = StatusCompleted
		t.FinishedAt = time.Now()
		t.Result = result
	}
	m.logger.Info("task completed", "task_id", id)
}

// fail marks a task failed with the given error.
func (m *Manager) fail(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		t.Status = StatusFailed
		t.FinishedAt = time.Now()
		t.Error = err.Error()
	}
	m.logger.Warn("task failed", "task_id", id, "error", err)
}

// snapshot returns a copy of the task safe to hand to callers. The
// result is included only once the task is terminal.
func (m *Manager) snapshot(id string) *Task {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil
	}

	cp := *t
	if !cp.Status.Terminal() {
		cp.Result = nil
	}
	return &cp
}

// collectLinks flattens all page links from the store results, keeping
// harvest order.
func collectLinks(stores []model.StoreResult) []string {
	var links []string
	for _, store := range stores {
		for _, page := range store.Pages {
			links = append(links, page.Links...)
		}
	}
	return links
}
