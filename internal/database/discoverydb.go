package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mirrorscan/mirrorscan/internal/model"
)

// URL categories stored per run. These match the artifact list files the
// report package writes.
const (
	CategoryPage          = "page"
	CategoryResource      = "resource"
	CategoryExternalAsset = "external_asset"
)

// DiscoveryDB provides SQLite-based storage for discovery run history.
// It manages connection pooling and provides methods for saving and
// querying past runs.
//
// Design decision: We use a single database file for all properties rather
// than one file per property. This keeps cross-property queries (run
// listings, growth over time) in plain SQL and simplifies backups.
type DiscoveryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures DiscoveryDB behavior.
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

// Open opens or creates a DiscoveryDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*DiscoveryDB, error) {
	dbPath := filepath.Join(dbDir, "mirrorscan.db")

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
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ddb := &DiscoveryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := ddb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return ddb, nil
}

// Close closes the database connection.
func (ddb *DiscoveryDB) Close() error {
	return ddb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (ddb *DiscoveryDB) createTables() error {
	schema := `
	-- Run records store one row per discovery run with its summary as JSON
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		start_url TEXT NOT NULL,
		domain_suffix TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_domain ON runs(domain_suffix);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);

	-- Categorized URL sets of each run
	CREATE TABLE IF NOT EXISTS run_urls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_run_urls_run ON run_urls(run_id);
	CREATE INDEX IF NOT EXISTS idx_run_urls_category ON run_urls(run_id, category);
	`

	_, err := ddb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord represents one stored discovery run.
type RunRecord struct {
	ID           int64
	StartURL     string
	DomainSuffix string
	Timestamp    time.Time
	Summary      *model.Summary
}

// SaveRun stores a finished run: its summary and the categorized URL sets.
// It returns the new run's ID.
func (ddb *DiscoveryDB) SaveRun(ctx context.Context, result *model.DiscoveryResult, summary *model.Summary) (int64, error) {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize summary: %w", err)
	}

	tx, err := ddb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (start_url, domain_suffix, summary_json) VALUES (?, ?, ?)`,
		result.StartURL,
		result.DomainSuffix,
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_urls (run_id, url, category) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare url insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck // close after tx end is harmless

	categorized := map[string][]string{
		CategoryPage:          result.Pages(),
		CategoryResource:      result.ResourceURLs(),
		CategoryExternalAsset: result.Assets(),
	}
	for category, urls := range categorized {
		for _, u := range urls {
			if _, err := stmt.ExecContext(ctx, runID, u, category); err != nil {
				return 0, fmt.Errorf("failed to insert %s url: %w", category, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// ListRuns returns the most recent runs, newest first, capped at limit.
// A limit below one returns every run.
func (ddb *DiscoveryDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, start_url, domain_suffix, timestamp, summary_json
	FROM runs
	ORDER BY timestamp DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := ddb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// GetLatestRun retrieves the most recent run for a domain suffix.
// It returns nil without error when the property has never been run.
func (ddb *DiscoveryDB) GetLatestRun(ctx context.Context, domainSuffix string) (*RunRecord, error) {
	rows, err := ddb.db.QueryContext(ctx, `
	SELECT id, start_url, domain_suffix, timestamp, summary_json
	FROM runs
	WHERE domain_suffix = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`, domainSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	record, err := scanRun(rows)
	if err != nil {
		return nil, err
	}
	return &record, rows.Err()
}

// ListProperties returns every domain suffix that has at least one run.
func (ddb *DiscoveryDB) ListProperties(ctx context.Context) ([]string, error) {
	rows, err := ddb.db.QueryContext(ctx, `
	SELECT DISTINCT domain_suffix FROM runs
	ORDER BY domain_suffix
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var properties []string
	for rows.Next() {
		var property string
		if err := rows.Scan(&property); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, property)
	}

	return properties, rows.Err()
}

// RunURLs returns one category of a stored run's URL set, sorted.
func (ddb *DiscoveryDB) RunURLs(ctx context.Context, runID int64, category string) ([]string, error) {
	rows, err := ddb.db.QueryContext(ctx, `
	SELECT url FROM run_urls
	WHERE run_id = ? AND category = ?
	ORDER BY url
	`, runID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query run urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		urls = append(urls, u)
	}

	return urls, rows.Err()
}

// scanRun reads one run row, decoding its timestamp and summary JSON.
func scanRun(rows *sql.Rows) (RunRecord, error) {
	var record RunRecord
	var timestamp string
	var summaryJSON string

	if err := rows.Scan(&record.ID, &record.StartURL, &record.DomainSuffix, &timestamp, &summaryJSON); err != nil {
		return RunRecord{}, fmt.Errorf("failed to scan run: %w", err)
	}

	record.Timestamp = parseTimestamp(timestamp)

	var summary model.Summary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		return RunRecord{}, fmt.Errorf("failed to parse summary: %w", err)
	}
	record.Summary = &summary

	return record, nil
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
