package harvest

import (
	"context"
	"log/slog"
	"time"

	"github.com/reiviji/storescan/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchHarvester processes multiple store listings concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We keep batch processing separate from the Harvester
// rather than making Run concurrent because:
// 1. It keeps the Harvester focused on single-store execution
// 2. The CLI default is strictly sequential and stays trivially so
// 3. It provides cleaner separation of concerns for the task service
type BatchHarvester struct {
	// harvester executes single-store harvests.
	harvester *Harvester

	// concurrency is the maximum number of stores processed at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchHarvester.
type BatchOption func(*BatchHarvester)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchHarvester) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent store harvests.
// Default is 1 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchHarvester) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchHarvester creates a BatchHarvester around the given Harvester.
func NewBatchHarvester(harvester *Harvester, opts ...BatchOption) *BatchHarvester {
	bh := &BatchHarvester{
		harvester:   harvester,
		concurrency: 1,
	}

	for _, opt := range opts {
		opt(bh)
	}

	if bh.logger == nil {
		bh.logger = slog.Default()
	}

	return bh
}

// ProcessBatch harvests multiple stores concurrently. Results keep the
// order of the input records regardless of completion order.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each store gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// A store whose pages all fail still yields a result; the only error
// returned is context cancellation.
func (bh *BatchHarvester) ProcessBatch(ctx context.Context, records []model.LinkRecord) ([]model.StoreResult, error) {
	bh.logger.Info("starting batch harvest",
		"total_stores", len(records),
		"concurrency", bh.concurrency,
	)
	startTime := time.Now()

	// Pre-allocate to maintain input order; each goroutine writes only
	// its own index so no mutex is needed.
	results := make([]model.StoreResult, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bh.concurrency)

	for i, record := range records {
		i, record := i, record
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bh.logger.Info("harvesting store",
				"source", record.SourceURL,
				"index", i+1,
				"total", len(records),
			)
			results[i] = bh.harvester.HarvestStore(ctx, record)
			return nil
		})
	}

	err := g.Wait()

	bh.logger.Info("batch harvest complete",
		"total_stores", len(records),
		"elapsed", time.Since(startTime),
	)
	return results, err
}

// Run harvests all stores concurrently, then appends the collected links
// to the output file in input order. Fetching is parallel but output
// writes stay ordered, so the file looks the same as a sequential run.
func (bh *BatchHarvester) Run(ctx context.Context, records []model.LinkRecord, outputPath string) (*model.HarvestReport, error) {
	report := model.NewHarvestReport(outputPath)

	results, err := bh.ProcessBatch(ctx, records)
	if err != nil {
		return report, err
	}

	for _, result := range results {
		if err := bh.harvester.saveStore(ctx, outputPath, result); err != nil {
			return report, err
		}
		report.AddStore(result)
	}

	report.FinishedAt = time.Now()
	return report, bh.harvester.saveReport(ctx, report)
}
