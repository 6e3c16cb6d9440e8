package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/reiviji/storescan/internal/clearance"
	"github.com/reiviji/storescan/internal/config"
	"github.com/reiviji/storescan/internal/extract"
	"github.com/reiviji/storescan/internal/harvest"
	"github.com/reiviji/storescan/internal/model"
	"github.com/reiviji/storescan/internal/report"
	"github.com/reiviji/storescan/internal/sheet"
	"github.com/reiviji/storescan/internal/store"
	"github.com/spf13/cobra"
)

// runRootCmd dispatches between the single-fetch and batch paths.
func runRootCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	client, err := clearance.NewClient(cfg.ClearanceHost, cfg.ClearancePort, cfg.Timeout,
		clearance.WithLogger(logger))
	if err != nil {
		return err
	}

	proxy := parseProxy(cfg, logger)

	if len(args) == 1 {
		return runSingleFetch(ctx, cmd, cfg, client, args[0], proxy)
	}
	return runBatch(ctx, cfg, client, proxy, logger)
}

// buildConfig creates a Config from cobra command flags and the settings
// file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Mode, err = cmd.Flags().GetString("mode")
	if err != nil {
		return nil, err
	}

	cfg.SiteKey, err = cmd.Flags().GetString("site-key")
	if err != nil {
		return nil, err
	}

	cfg.Proxy, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, err
	}

	cfg.InputPath, err = cmd.Flags().GetString("input")
	if err != nil {
		return nil, err
	}

	cfg.OutputPath, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}

	saveToDB, err := cmd.Flags().GetBool("db")
	if err != nil {
		return nil, err
	}
	if saveToDB {
		cfg.SaveToDB = true
		cfg.DBDir = config.XDGDataDir()
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	if err := loadSettings(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadSettings locates and applies the settings file.
// An explicitly specified file that does not exist is fatal; a missing
// default file is not.
func loadSettings(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		cfg.ApplyFile(nil)
		return nil
	}

	file, err := config.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	cfg.ApplyFile(file)
	return nil
}

// parseProxy turns the raw proxy flag into a clearance proxy. An invalid
// specification is logged and ignored rather than aborting the run.
func parseProxy(cfg *config.Config, logger *slog.Logger) *clearance.Proxy {
	if cfg.Proxy == "" {
		return nil
	}

	proxy, err := clearance.ParseProxy(cfg.Proxy)
	if err != nil {
		logger.Warn("ignoring invalid proxy specification", "error", err)
		return nil
	}
	return proxy
}

// runSingleFetch fetches one page and prints the result to stdout.
// Fetch failures exit with a distinct code so scripts can tell them from
// configuration errors.
func runSingleFetch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, client *clearance.Client, pageURL string, proxy *clearance.Proxy) error {
	if cfg.Mode == string(clearance.ModeSource) {
		html, err := client.SourceHTML(ctx, pageURL, proxy)
		if err != nil {
			return &exitCodeError{code: exitFetchFailed, err: fmt.Errorf("failed to fetch %s: %w", pageURL, err)}
		}
		fmt.Fprintln(cmd.OutOrStdout(), html)
		return nil
	}

	// Non-source modes return tokens and cookies rather than HTML, so
	// the whole response is printed as JSON.
	resp, err := client.Do(ctx, clearance.Request{
		URL:     pageURL,
		Mode:    clearance.Mode(cfg.Mode),
		SiteKey: cfg.SiteKey,
		Proxy:   proxy,
	})
	if err != nil {
		return &exitCodeError{code: exitFetchFailed, err: fmt.Errorf("failed to fetch %s: %w", pageURL, err)}
	}

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// runBatch walks every spreadsheet row and appends harvested links to the
// output file.
func runBatch(ctx context.Context, cfg *config.Config, client *clearance.Client, proxy *clearance.Proxy, logger *slog.Logger) error {
	records, err := sheet.ReadLinks(cfg.InputPath)
	if err != nil {
		return &exitCodeError{code: exitSpreadsheetUnreadable, err: fmt.Errorf("failed to read spreadsheet %s: %w", cfg.InputPath, err)}
	}
	if len(records) == 0 {
		fmt.Println("Spreadsheet has no store links; nothing to do.")
		return nil
	}

	logger.Info("starting batch harvest",
		"input", cfg.InputPath,
		"output", cfg.OutputPath,
		"stores", len(records),
		"concurrency", cfg.Concurrency,
	)

	var db *store.LinkDB
	if cfg.SaveToDB {
		db, err = store.Open(cfg.DBDir, store.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	fmt.Printf("Harvesting %d store(s)...\n", len(records))
	startTime := time.Now()

	runReport := model.NewHarvestReport(cfg.OutputPath)
	for _, group := range groupBySite(cfg, records) {
		groupReport, err := harvestGroup(ctx, cfg, client, proxy, db, logger, group)
		if err != nil {
			return err
		}
		for _, storeResult := range groupReport.Stores {
			runReport.AddStore(storeResult)
		}
	}
	runReport.FinishedAt = time.Now()

	fmt.Printf("Harvest completed in %s\n\n", time.Since(startTime).Round(time.Millisecond))

	return outputReport(cfg, runReport)
}

// siteGroup is a set of spreadsheet rows sharing one extraction rule set.
type siteGroup struct {
	site    config.SiteConfig
	records []model.LinkRecord
}

// groupBySite buckets spreadsheet rows by their resolved site
// configuration, preserving row order within each bucket. Rows from
// different sites need different extraction patterns, so each bucket gets
// its own harvester.
func groupBySite(cfg *config.Config, records []model.LinkRecord) []siteGroup {
	var groups []siteGroup
	index := make(map[string]int)

	for _, record := range records {
		var site config.SiteConfig
		if cfg.Sites != nil {
			site = cfg.Sites.GetSiteConfig(record.SourceURL)
		}

		key := site.BaseURL + "\x00" + site.ProductPattern
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, siteGroup{site: site})
		}
		groups[i].records = append(groups[i].records, record)
	}
	return groups
}

// harvestGroup runs one site group through the harvester.
func harvestGroup(ctx context.Context, cfg *config.Config, client *clearance.Client, proxy *clearance.Proxy, db *store.LinkDB, logger *slog.Logger, group siteGroup) (*model.HarvestReport, error) {
	extractor, err := extract.NewExtractor(group.site.BaseURL, group.site.ProductPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid site configuration: %w", err)
	}

	opts := []harvest.Option{harvest.WithLogger(logger)}
	if proxy != nil {
		opts = append(opts, harvest.WithProxy(proxy))
	}
	if db != nil {
		opts = append(opts, harvest.WithLinkDB(db))
	}
	harvester := harvest.NewHarvester(client, extractor, opts...)

	if cfg.Concurrency > 1 {
		batch := harvest.NewBatchHarvester(harvester,
			harvest.WithConcurrency(cfg.Concurrency),
			harvest.WithBatchLogger(logger),
		)
		return batch.Run(ctx, group.records, cfg.OutputPath)
	}
	return harvester.Run(ctx, group.records, cfg.OutputPath)
}

// outputReport writes the run summary in the configured format and
// destination.
func outputReport(cfg *config.Config, runReport *model.HarvestReport) error {
	out := os.Stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.Create(cfg.ReportFile) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close() //nolint:errcheck // best effort on report file close
		out = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}

	if _, err := w.Write(runReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
