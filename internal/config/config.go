package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values match what the external downloader pipeline expects and are
// conservative toward the crawled origin.
const (
	// DefaultMaxCrawlPages is the maximum number of pages fetched per
	// property. This prevents runaway crawling on large or
	// infinitely-generating sites. Users can override via --max-pages.
	DefaultMaxCrawlPages = 1000

	// DefaultMaxSitemapFiles bounds sitemap traversal. Sitemap indexes on
	// large sites can nest hundreds of files; 50 covers the page URLs of
	// virtually every property while keeping the sitemap phase short.
	DefaultMaxSitemapFiles = 50

	// DefaultTimeout is the per-request timeout. 30 seconds is generous
	// for a public website; a slower response is treated as a fetch error
	// for that URL, not a reason to stall the whole run.
	DefaultTimeout = 30 * time.Second

	// DefaultDelay is the pause between requests. This is a politeness
	// setting: sequential fetching plus this delay is the rate-limiting
	// mechanism that keeps the crawl below anti-abuse thresholds.
	DefaultDelay = 150 * time.Millisecond

	// DefaultUserAgent is a browser-like identification string with a
	// scanner marker appended. Some CDNs serve reduced markup to unknown
	// agents; the marker keeps the traffic identifiable in server logs.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36 mirrorscan/1.0"

	// DefaultMaxBodySize limits the response body size read per fetch.
	// 4MB is sufficient for any HTML page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 4_000_000

	// DefaultBatchSize is the number of properties discovered concurrently
	// when several targets are given. Each property's crawl stays
	// sequential; this only parallelizes across properties.
	DefaultBatchSize = 2

	// DefaultOutputDir is where URL list artifacts are written.
	DefaultOutputDir = "work/discovery"

	// DefaultErrorSampleLimit caps the error samples embedded in the
	// summary document. The full count is always reported.
	DefaultErrorSampleLimit = 200

	// AppName is the application name used for XDG directory paths.
	AppName = "mirrorscan"
)

// Config holds all configuration options for a discovery run.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Targets is the list of start URLs to discover. At least one is
	// required.
	Targets []string

	// DomainSuffix defines which hosts count as internal. When empty, it
	// is derived from each target's hostname with a leading "www." removed.
	DomainSuffix string

	// MaxCrawlPages is the maximum number of pages fetched per property.
	MaxCrawlPages int

	// MaxSitemapFiles is the maximum number of sitemap documents parsed
	// per property.
	MaxSitemapFiles int

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Delay is the pause between requests. Zero disables the pause, which
	// is only appropriate against servers you operate.
	Delay time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default.
	MaxBodySize int64

	// BatchSize is the number of properties discovered concurrently.
	BatchSize int

	// OutputDir is the directory URL list artifacts are written to. Each
	// property gets a subdirectory named after its domain suffix.
	OutputDir string

	// ErrorSampleLimit caps error samples in the summary document.
	ErrorSampleLimit int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches for .mirrorscan in the current directory and then in
	// the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File

	// JSONSummary enables JSON summary output instead of the
	// human-readable format. Mutually exclusive with MarkdownSummary.
	JSONSummary bool

	// MarkdownSummary enables Markdown summary output instead of the
	// human-readable format. Mutually exclusive with JSONSummary.
	MarkdownSummary bool

	// SummaryFile is the output file path for the summary. When set, the
	// summary is written to this file instead of stdout.
	SummaryFile string

	// DBDir is the directory for the run-history SQLite database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to record the run in the database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, caps).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxCrawlPages:    DefaultMaxCrawlPages,
		MaxSitemapFiles:  DefaultMaxSitemapFiles,
		Timeout:          DefaultTimeout,
		Delay:            DefaultDelay,
		UserAgent:        DefaultUserAgent,
		MaxBodySize:      DefaultMaxBodySize,
		BatchSize:        DefaultBatchSize,
		OutputDir:        DefaultOutputDir,
		ErrorSampleLimit: DefaultErrorSampleLimit,
		DBDir:            XDGDataDir(),
		SaveToDB:         true,
	}
}

// XDGDataDir returns the XDG data directory for mirrorscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/mirrorscan
// On macOS: ~/Library/Application Support/mirrorscan
// On Windows: %LOCALAPPDATA%\mirrorscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for mirrorscan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any discovery begins.
//
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoStartURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	if c.MaxCrawlPages <= 0 {
		return ErrInvalidMaxPages
	}

	if c.MaxSitemapFiles <= 0 {
		return ErrInvalidMaxSitemaps
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.JSONSummary && c.MarkdownSummary {
		return ErrConflictingSummaryFormats
	}

	return nil
}

// DeriveDomainSuffix derives the internal-domain suffix from a start URL:
// the lowercased hostname with a leading "www." removed. So
// "https://www.example.com/docs" yields "example.com", which classifies
// both the bare domain and every subdomain as internal.
func DeriveDomainSuffix(startURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(startURL))
	if err != nil {
		return "", fmt.Errorf("derive domain suffix: %w", err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("derive domain suffix: no hostname in %q", startURL)
	}
	return strings.TrimPrefix(host, "www."), nil
}
