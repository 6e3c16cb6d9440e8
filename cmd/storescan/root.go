// Package main provides the entry point for the storescan CLI.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/reiviji/storescan/internal/config"
	"github.com/reiviji/storescan/internal/log"
	"github.com/spf13/cobra"
)

// Exit codes. The root command distinguishes failure causes so scripts
// driving the tool can react to them.
const (
	// exitFetchFailed is returned when a single-page fetch fails.
	exitFetchFailed = 2

	// exitSpreadsheetUnreadable is returned when the batch spreadsheet
	// cannot be read.
	exitSpreadsheetUnreadable = 3
)

// exitCodeError carries a process exit code alongside the error.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

// NewRootCmd creates the root command for storescan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storescan [url]",
		Short: "Collect retail product links from store listing pages",
		Long: `storescan collects product links from retail store listing pages.

Pages are fetched through an external cf-clearance-scraper service that
solves the anti-bot challenges in front of the target site. With a URL
argument, storescan fetches that single page and prints the result to
standard output. Without arguments it runs a batch: every row of the
links spreadsheet is walked page by page and the harvested product links
are appended to the output file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runRootCmd,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Settings file path (default: .storescan in current directory or XDG config directory)")

	// Clearance service flags
	cmd.Flags().Duration("timeout", config.DefaultTimeout,
		"Timeout for each clearance service request")
	cmd.Flags().String("mode", "source",
		"Clearance mode: waf-session, turnstile-min, or source")
	cmd.Flags().StringP("site-key", "k", "",
		"Turnstile site key (required for turnstile-min mode)")
	cmd.Flags().StringP("proxy", "x", "",
		"Upstream proxy as host:port:user:pass")

	// Batch flags
	cmd.Flags().StringP("input", "i", config.DefaultInputPath,
		"Spreadsheet of store links (.xlsx or .csv)")
	cmd.Flags().StringP("output", "o", config.DefaultOutputPath,
		"File harvested product links are appended to")
	cmd.Flags().IntP("concurrency", "b", config.DefaultConcurrency,
		"Number of stores harvested concurrently (1 = sequential)")
	cmd.Flags().Bool("db", false,
		"Also record links and the run report in the local database")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON run summary (mutually exclusive with --markdown)")
	cmd.Flags().Bool("markdown", false,
		"Output Markdown run summary (mutually exclusive with --json)")
	cmd.Flags().StringP("report", "r", "",
		"Write the run summary to specified file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. Errors tagged with an exit code
// terminate the process with that code; everything else exits 1.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var coded *exitCodeError
		if errors.As(err, &coded) {
			os.Exit(coded.code)
		}
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger based on verbosity setting.
// All output passes through the masking handler so credentials from proxy
// specs and clearance cookies never reach the terminal or log files.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := log.NewSecureHandler(slog.NewTextHandler(os.Stderr, opts))
	return slog.New(handler)
}
