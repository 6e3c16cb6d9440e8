package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/reiviji/storescan/internal/model"
)

// LinkDB provides SQLite-based storage for harvested product links and
// run reports.
//
// Design decision: We use a single database file for all stores rather
// than one file per store. Harvest runs usually cover several stores in
// one session and cross-store queries (how many links total, which runs
// touched which store) are simpler against a single file.
type LinkDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures LinkDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a LinkDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*LinkDB, error) {
	dbPath := filepath.Join(dbDir, "storescan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single pooled connection avoids
	// SQLITE_BUSY during concurrent page inserts.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ldb := &LinkDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := ldb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return ldb, nil
}

// Close closes the database connection.
func (ldb *LinkDB) Close() error {
	return ldb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (ldb *LinkDB) createTables() error {
	schema := `
	-- Product links store individual harvested product URLs
	CREATE TABLE IF NOT EXISTS product_links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		source_url TEXT NOT NULL,
		page_url TEXT,
		first_seen DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_seen DATETIME DEFAULT CURRENT_TIMESTAMP,
		seen_count INTEGER DEFAULT 1,
		UNIQUE(url, source_url)
	);

	CREATE INDEX IF NOT EXISTS idx_links_url ON product_links(url);
	CREATE INDEX IF NOT EXISTS idx_links_source ON product_links(source_url);

	-- Harvest runs store complete run reports as JSON
	CREATE TABLE IF NOT EXISTS harvest_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		output_path TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON harvest_runs(started_at);
	`

	_, err := ldb.db.ExecContext(context.Background(), schema)
	return err
}

// LinkRecord represents a stored product link.
type LinkRecord struct {
	ID        int64
	URL       string
	SourceURL string
	PageURL   string
	FirstSeen time.Time
	LastSeen  time.Time
	SeenCount int
}

// InsertLink inserts or refreshes a product link. Uses UPSERT so the same
// link seen on a later run bumps last_seen and seen_count instead of
// creating a duplicate row.
func (ldb *LinkDB) InsertLink(ctx context.Context, url, sourceURL, pageURL string) error {
	query := `
	INSERT INTO product_links (url, source_url, page_url)
	VALUES (?, ?, ?)
	ON CONFLICT(url, source_url) DO UPDATE SET
		page_url = excluded.page_url,
		last_seen = CURRENT_TIMESTAMP,
		seen_count = seen_count + 1
	`

	if _, err := ldb.db.ExecContext(ctx, query, url, sourceURL, pageURL); err != nil {
		return fmt.Errorf("failed to insert product link: %w", err)
	}
	return nil
}

// InsertPageLinks stores every link found on one fetched page.
func (ldb *LinkDB) InsertPageLinks(ctx context.Context, sourceURL string, page *model.PageResult) error {
	for _, link := range page.Links {
		if err := ldb.InsertLink(ctx, link, sourceURL, page.URL); err != nil {
			return err
		}
	}
	return nil
}

// GetLink retrieves a stored link by URL and source. Returns nil when the
// link is not stored.
func (ldb *LinkDB) GetLink(ctx context.Context, url, sourceURL string) (*LinkRecord, error) {
	query := `
	SELECT id, url, source_url, page_url, first_seen, last_seen, seen_count
	FROM product_links
	WHERE url = ? AND source_url = ?
	`

	var record LinkRecord
	var firstSeen, lastSeen string

	err := ldb.db.QueryRowContext(ctx, query, url, sourceURL).Scan(
		&record.ID,
		&record.URL,
		&record.SourceURL,
		&record.PageURL,
		&firstSeen,
		&lastSeen,
		&record.SeenCount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product link: %w", err)
	}

	record.FirstSeen = parseTimestamp(firstSeen)
	record.LastSeen = parseTimestamp(lastSeen)
	return &record, nil
}

// ListLinks returns all stored links, newest first. When sourceURL is
// non-empty the result is limited to that store.
func (ldb *LinkDB) ListLinks(ctx context.Context, sourceURL string) ([]LinkRecord, error) {
	query := `
	SELECT id, url, source_url, page_url, first_seen, last_seen, seen_count
	FROM product_links
	WHERE 1=1
	`
	args := make([]interface{}, 0)

	if sourceURL != "" {
		query += " AND source_url = ?"
		args = append(args, sourceURL)
	}
	query += " ORDER BY last_seen DESC, id DESC"

	rows, err := ldb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list product links: %w", err)
	}
	defer rows.Close()

	var results []LinkRecord
	for rows.Next() {
		var record LinkRecord
		var firstSeen, lastSeen string

		err := rows.Scan(
			&record.ID,
			&record.URL,
			&record.SourceURL,
			&record.PageURL,
			&firstSeen,
			&lastSeen,
			&record.SeenCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product link: %w", err)
		}

		record.FirstSeen = parseTimestamp(firstSeen)
		record.LastSeen = parseTimestamp(lastSeen)
		results = append(results, record)
	}

	return results, rows.Err()
}

// CountLinks returns the number of stored links, optionally limited to
// one store.
func (ldb *LinkDB) CountLinks(ctx context.Context, sourceURL string) (int, error) {
	query := `SELECT COUNT(*) FROM product_links`
	args := make([]interface{}, 0)

	if sourceURL != "" {
		query += " WHERE source_url = ?"
		args = append(args, sourceURL)
	}

	var count int
	if err := ldb.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count product links: %w", err)
	}
	return count, nil
}

// SaveHarvestReport stores a complete run report as JSON.
func (ldb *LinkDB) SaveHarvestReport(ctx context.Context, report *model.HarvestReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO harvest_runs (started_at, finished_at, output_path, report_json)
	VALUES (?, ?, ?, ?)
	`

	_, err = ldb.db.ExecContext(ctx, query,
		report.StartedAt.UTC().Format("2006-01-02 15:04:05"),
		report.FinishedAt.UTC().Format("2006-01-02 15:04:05"),
		report.OutputPath,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save harvest report: %w", err)
	}
	return nil
}

// GetLatestHarvestReport retrieves the most recent run report. Returns
// nil when no run has been stored yet.
func (ldb *LinkDB) GetLatestHarvestReport(ctx context.Context) (*model.HarvestReport, error) {
	query := `
	SELECT report_json FROM harvest_runs
	ORDER BY started_at DESC, id DESC
	LIMIT 1
	`

	var reportJSON string
	err := ldb.db.QueryRowContext(ctx, query).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get harvest report: %w", err)
	}

	var report model.HarvestReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
