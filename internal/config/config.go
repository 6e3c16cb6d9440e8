package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror the defaults of the cf-clearance-scraper service and the
// conventions of the batch spreadsheet workflow.
const (
	// DefaultClearanceHost is the default host of the clearance bypass
	// service. We use 127.0.0.1 instead of localhost to avoid DNS
	// resolution overhead and IPv6 ambiguity on some systems.
	DefaultClearanceHost = "127.0.0.1"

	// DefaultClearancePort is the default port the cf-clearance-scraper
	// service listens on.
	DefaultClearancePort = 3000

	// DefaultTimeout is the per-request timeout for calls to the
	// clearance service. Challenge solving involves a headless browser on
	// the service side, so a generous budget is needed: 5 seconds to
	// connect plus up to a minute for the solve.
	DefaultTimeout = 65 * time.Second

	// DefaultInputPath is the spreadsheet read in batch mode when no
	// input flag is given. Relative to the working directory.
	DefaultInputPath = "links.xlsx"

	// DefaultOutputPath is the append-only text file harvested product
	// links are written to in batch mode.
	DefaultOutputPath = "product_links.txt"

	// DefaultPageCount is the number of listing pages assumed for a
	// spreadsheet row whose Pages cell is absent or non-numeric.
	DefaultPageCount = 1

	// DefaultConcurrency is the number of listing pages fetched in
	// flight. The default of 1 keeps runs strictly sequential; the task
	// service raises this to DefaultServeConcurrency.
	DefaultConcurrency = 1

	// DefaultServeConcurrency is the worker limit used by the task
	// service for background jobs.
	DefaultServeConcurrency = 20

	// DefaultServeAddr is the listen address of the task service.
	DefaultServeAddr = ":8000"

	// AppName is the application name used for XDG directory paths.
	AppName = "storescan"
)

// Config holds all options for a storescan invocation.
//
// Design decision: the configuration is an explicitly constructed object
// passed into constructors (clearance client, harvest driver) rather than a
// module-level singleton. This keeps tests hermetic and makes the data flow
// visible at call sites.
type Config struct {
	// ClearanceHost is the host of the external clearance bypass service.
	ClearanceHost string

	// ClearancePort is the port of the external clearance bypass service.
	ClearancePort int

	// Timeout is the per-request timeout for clearance calls.
	Timeout time.Duration

	// Mode selects the bypass strategy the clearance service applies:
	// "waf-session", "turnstile-min", or "source".
	Mode string

	// SiteKey is the Turnstile site key, required only for
	// "turnstile-min" mode.
	SiteKey string

	// Proxy is the raw proxy specification in "host:port:user:pass"
	// form. Empty means no proxy. Invalid specifications are logged and
	// treated as no proxy.
	Proxy string

	// InputPath is the spreadsheet of (Link, Pages) rows for batch mode.
	InputPath string

	// OutputPath is the append-only file harvested links are written to.
	OutputPath string

	// Concurrency is the number of listing pages fetched concurrently.
	// 1 means strictly sequential fetching.
	Concurrency int

	// Verbose enables debug-level log output.
	Verbose bool

	// JSONReport emits the run summary as JSON instead of plain text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport emits the run summary as Markdown instead of plain
	// text. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the run summary to this path instead of stderr.
	ReportFile string

	// DBDir is the directory holding the SQLite link store. Empty
	// disables persistence.
	DBDir string

	// SaveToDB records fetched pages and discovered links in the link
	// store. Set automatically when DBDir is configured.
	SaveToDB bool

	// ServeAddr is the listen address for the task service.
	ServeAddr string

	// ConfigFilePath is an explicit settings file path. When empty the
	// default locations are searched.
	ConfigFilePath string

	// Sites holds per-site extraction rules loaded from the settings
	// file, merged over the built-in Carrefour defaults.
	Sites *File
}

// NewConfig creates a Config populated with defaults.
//
// We use a constructor rather than relying on zero values because most
// defaults are non-zero (host, port, timeout, paths).
func NewConfig() *Config {
	return &Config{
		ClearanceHost: DefaultClearanceHost,
		ClearancePort: DefaultClearancePort,
		Timeout:       DefaultTimeout,
		Mode:          "source",
		InputPath:     DefaultInputPath,
		OutputPath:    DefaultOutputPath,
		Concurrency:   DefaultConcurrency,
		ServeAddr:     DefaultServeAddr,
	}
}

// XDGDataDir returns the XDG data directory for storescan.
// On Linux: ~/.local/share/storescan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for storescan.
// On Linux: ~/.config/storescan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flag and file parsing, before any network call.
func (c *Config) Validate() error {
	if c.ClearanceHost == "" {
		return ErrNoClearanceHost
	}

	if c.ClearancePort < 1 || c.ClearancePort > 65535 {
		return ErrInvalidClearancePort
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Concurrency < 1 {
		return ErrInvalidConcurrency
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	switch c.Mode {
	case "waf-session", "turnstile-min", "source":
	default:
		return ErrInvalidMode
	}

	return nil
}
