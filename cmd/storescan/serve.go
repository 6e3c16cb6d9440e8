package main

import (
	"fmt"
	"log/slog"

	"github.com/reiviji/storescan/internal/clearance"
	"github.com/reiviji/storescan/internal/config"
	"github.com/reiviji/storescan/internal/extract"
	"github.com/reiviji/storescan/internal/harvest"
	"github.com/reiviji/storescan/internal/server"
	"github.com/reiviji/storescan/internal/task"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP task service",
		Long: `Serve starts an HTTP service that runs harvests as background tasks.

Submit a harvest with POST /tasks and poll GET /tasks/{id} for progress.
The request body lists the store listings to walk:

  {
    "links": [
      {"url": "https://www.carrefour.fr/promotions", "pages": 3}
    ],
    "scrape_details": false
  }

Set "scrape_details" to true to also fetch each collected product page
and extract its title, price, seller, and image.`,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultServeAddr,
		"Listen address for the task service")
	cmd.Flags().Duration("timeout", config.DefaultTimeout,
		"Timeout for each clearance service request")
	cmd.Flags().StringP("proxy", "x", "",
		"Upstream proxy as host:port:user:pass")
	cmd.Flags().IntP("concurrency", "b", config.DefaultServeConcurrency,
		"Number of pages fetched concurrently per task")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()
	cfg.Concurrency = config.DefaultServeConcurrency

	var err error
	cfg.ServeAddr, err = cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	cfg.Proxy, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return err
	}
	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if err := loadSettings(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	client, err := clearance.NewClient(cfg.ClearanceHost, cfg.ClearancePort, cfg.Timeout,
		clearance.WithLogger(logger))
	if err != nil {
		return err
	}

	var defaults config.SiteConfig
	if cfg.Sites != nil {
		defaults = cfg.Sites.Defaults
	}
	extractor, err := extract.NewExtractor(defaults.BaseURL, defaults.ProductPattern)
	if err != nil {
		return fmt.Errorf("invalid site configuration: %w", err)
	}

	proxy := parseProxy(cfg, logger)

	harvestOpts := []harvest.Option{harvest.WithLogger(logger)}
	if proxy != nil {
		harvestOpts = append(harvestOpts, harvest.WithProxy(proxy))
	}
	harvester := harvest.NewHarvester(client, extractor, harvestOpts...)

	managerOpts := []task.ManagerOption{
		task.WithManagerLogger(logger),
		task.WithManagerConcurrency(cfg.Concurrency),
	}
	if proxy != nil {
		managerOpts = append(managerOpts, task.WithManagerProxy(proxy))
	}
	manager := task.NewManager(harvester, client, managerOpts...)

	srv := server.New(manager, server.WithServerLogger(logger))

	fmt.Printf("Task service listening on %s\n", cfg.ServeAddr)
	return srv.Run(cfg.ServeAddr)
}
