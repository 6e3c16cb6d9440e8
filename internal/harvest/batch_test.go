package harvest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/reiviji/storescan/internal/model"
)

func TestBatchHarvesterProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("results keep input order", func(t *testing.T) {
		t.Parallel()

		listings := []string{
			"https://www.carrefour.fr/a",
			"https://www.carrefour.fr/b",
			"https://www.carrefour.fr/c",
		}

		pages := make(map[string]string)
		records := make([]model.LinkRecord, 0, len(listings))
		for i, listing := range listings {
			pages[PageURL(listing, 1)] = `<a href="/p/produit-` + string(rune('a'+i)) + `">x</a>`
			records = append(records, model.LinkRecord{SourceURL: listing, PageCount: 1})
		}

		h := NewHarvester(&stubFetcher{pages: pages}, newTestExtractor(t))
		bh := NewBatchHarvester(h, WithConcurrency(3))

		results, err := bh.ProcessBatch(context.Background(), records)
		if err != nil {
			t.Fatalf("ProcessBatch() error = %v", err)
		}
		if len(results) != len(listings) {
			t.Fatalf("got %d results, want %d", len(results), len(listings))
		}
		for i, listing := range listings {
			if results[i].SourceURL != listing {
				t.Errorf("results[%d].SourceURL = %s, want %s", i, results[i].SourceURL, listing)
			}
			if results[i].LinkCount() != 1 {
				t.Errorf("results[%d].LinkCount() = %d, want 1", i, results[i].LinkCount())
			}
		}
	})

	t.Run("cancelled context aborts the batch", func(t *testing.T) {
		t.Parallel()

		records := []model.LinkRecord{
			{SourceURL: "https://www.carrefour.fr/a", PageCount: 1},
			{SourceURL: "https://www.carrefour.fr/b", PageCount: 1},
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		h := NewHarvester(&stubFetcher{}, newTestExtractor(t))
		bh := NewBatchHarvester(h)

		if _, err := bh.ProcessBatch(ctx, records); err == nil {
			t.Error("ProcessBatch() error = nil, want context error")
		}
	})

	t.Run("Run writes links in input order despite concurrency", func(t *testing.T) {
		t.Parallel()

		listings := []string{
			"https://www.carrefour.fr/premier",
			"https://www.carrefour.fr/second",
		}
		pages := map[string]string{
			PageURL(listings[0], 1): `<a href="/p/premier-1">x</a>`,
			PageURL(listings[1], 1): `<a href="/p/second-2">x</a>`,
		}
		records := []model.LinkRecord{
			{SourceURL: listings[0], PageCount: 1},
			{SourceURL: listings[1], PageCount: 1},
		}

		h := NewHarvester(&stubFetcher{pages: pages}, newTestExtractor(t))
		bh := NewBatchHarvester(h, WithConcurrency(2))

		outputPath := filepath.Join(t.TempDir(), "product_links.txt")
		report, err := bh.Run(context.Background(), records, outputPath)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if report.TotalLinks() != 2 {
			t.Errorf("TotalLinks() = %d, want 2", report.TotalLinks())
		}

		data, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("failed to read output file: %v", err)
		}
		want := "https://www.carrefour.fr/p/premier-1\nhttps://www.carrefour.fr/p/second-2\n"
		if string(data) != want {
			t.Errorf("output file = %q, want %q", string(data), want)
		}
	})

	t.Run("empty batch succeeds", func(t *testing.T) {
		t.Parallel()

		h := NewHarvester(&stubFetcher{}, newTestExtractor(t))
		bh := NewBatchHarvester(h)

		results, err := bh.ProcessBatch(context.Background(), nil)
		if err != nil {
			t.Fatalf("ProcessBatch() error = %v", err)
		}
		if len(results) != 0 {
			t.Errorf("got %d results, want 0", len(results))
		}
	})
}
