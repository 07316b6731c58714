package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mirrorscan/mirrorscan/internal/config"
	"github.com/mirrorscan/mirrorscan/internal/crawler"
	"github.com/mirrorscan/mirrorscan/internal/database"
	"github.com/mirrorscan/mirrorscan/internal/fetch"
	"github.com/mirrorscan/mirrorscan/internal/log"
	"github.com/mirrorscan/mirrorscan/internal/model"
	"github.com/mirrorscan/mirrorscan/internal/report"
	"github.com/mirrorscan/mirrorscan/internal/sitemap"
)

// NewDiscoverCmd creates the discover command.
func NewDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover [start-url...]",
		Short: "Discover the URL graph of a web property",
		Long: `Discover maps a web property's URL graph for mirroring.

It resolves the property's sitemaps (conventional locations plus robots.txt
directives), then crawls breadth-first from the discovered pages, classifying
every link into pages, internal resources, and external assets. The run
produces sorted URL list files and a structured summary for the external
downloader.

Examples:
  # Discover a single property
  mirrorscan discover https://example.com/

  # Discover several properties concurrently
  mirrorscan discover https://example.com/ https://docs.example.org/

  # Read start URLs from a file (one per line, # for comments)
  mirrorscan discover --list properties.txt

  # Emit the summary as JSON for the downloader
  mirrorscan discover --json -f summary.json https://example.com/

Configuration file (.mirrorscan) example:
  defaults:
    delay: 500ms
  sites:
    example.com:
      maxPages: 2000
    slow.example:
      delay: 2s`,
		Args: cobra.ArbitraryArgs,
		RunE: runDiscoverCmd,
	}

	// Crawl behavior flags
	cmd.Flags().StringP("domain-suffix", "s", "",
		"Domain suffix defining internal URLs (default: derived from each start URL)")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxCrawlPages,
		"Maximum number of pages to crawl per property")
	cmd.Flags().IntP("max-sitemaps", "S", config.DefaultMaxSitemapFiles,
		"Maximum number of sitemap files to parse per property")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().DurationP("delay", "d", config.DefaultDelay,
		"Delay between requests (politeness)")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header for all requests")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of properties discovered concurrently")
	cmd.Flags().StringP("list", "l", "",
		"File with start URLs, one per line")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .mirrorscan in current or home directory)")

	// Output flags
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory for URL list artifacts (one subdirectory per property)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON summary (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown summary (mutually exclusive with --json)")
	cmd.Flags().StringP("summary-file", "f", "",
		"Write the summary to the specified file instead of stdout")
	cmd.Flags().Bool("no-db", false,
		"Do not record the run in the history database")

	return cmd
}

// runDiscoverCmd executes the discover command.
func runDiscoverCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runDiscover(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.DomainSuffix, err = cmd.Flags().GetString("domain-suffix")
	if err != nil {
		return nil, err
	}

	cfg.MaxCrawlPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.MaxSitemapFiles, err = cmd.Flags().GetInt("max-sitemaps")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Delay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.OutputDir, err = cmd.Flags().GetString("output-dir")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from the config file.
	// If the user explicitly specified a path, error when it is missing;
	// otherwise an absent file just means no overrides.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONSummary, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownSummary, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.SummaryFile, err = cmd.Flags().GetString("summary-file")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	cfg.Verbose = getVerboseFlag(cmd)

	// Targets come from positional arguments plus the optional list file.
	cfg.Targets = append(cfg.Targets, args...)

	listPath, err := cmd.Flags().GetString("list")
	if err != nil {
		return nil, err
	}
	if listPath != "" {
		listed, err := readTargetList(listPath)
		if err != nil {
			return nil, err
		}
		cfg.Targets = append(cfg.Targets, listed...)
	}

	return cfg, nil
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

// readTargetList reads start URLs from a file, one per line.
// Blank lines and lines starting with '#' are skipped.
func readTargetList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open target list: %w", err)
	}
	defer f.Close()

	var targets []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read target list: %w", err)
	}

	return targets, nil
}

// runDiscover executes the discovery run(s).
func runDiscover(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting discovery",
		"targets", len(cfg.Targets),
		"max_pages", cfg.MaxCrawlPages,
		"batch_size", cfg.BatchSize,
		"save_to_db", cfg.SaveToDB,
	)

	var db *database.DiscoveryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchDiscovery(ctx, cfg, db, logger)
	}
	return runSequentialDiscovery(ctx, cfg, db, logger)
}

// runSequentialDiscovery discovers targets one at a time, applying per-site
// configuration overrides.
func runSequentialDiscovery(ctx context.Context, cfg *config.Config, db *database.DiscoveryDB, logger *slog.Logger) error {
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		suffix, err := targetSuffix(cfg, target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", target, err)
			continue
		}
		site := cfg.SiteConfigs.GetSiteConfig(suffix)
		if site.DomainSuffix != "" {
			suffix = site.DomainSuffix
		}

		c := newCrawlerForSite(cfg, site, logger)

		fmt.Printf("Discovering %s...\n", target)
		startTime := time.Now()

		result, err := c.Discover(ctx, target, suffix)
		if err != nil {
			logger.Error("discovery failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Discovery error for %s: %v\n", target, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Discovery completed in %s\n\n", elapsed.Round(time.Millisecond))

		if err := processResult(ctx, cfg, db, suffix, result, logger); err != nil {
			logger.Error("failed to process result", "target", target, "error", err)
		}
	}

	return nil
}

// runBatchDiscovery discovers multiple targets concurrently.
//
// Batch mode uses the default site configuration only: per-site overrides
// would require one crawler per target, and the concurrency win rarely
// justifies that for overridden sites. Use --batch 1 to apply them.
func runBatchDiscovery(ctx context.Context, cfg *config.Config, db *database.DiscoveryDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch discovery of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	if cfg.SiteConfigs != nil && len(cfg.SiteConfigs.Sites) > 0 {
		logger.Warn("batch discovery uses default site config only; per-site overrides are ignored",
			"site_count", len(cfg.SiteConfigs.Sites))
		fmt.Fprintf(os.Stderr, "Warning: Site-specific configurations are ignored in batch mode. Use --batch 1 to apply per-site settings.\n\n")
	}

	var defaults config.SiteConfig
	if cfg.SiteConfigs != nil {
		defaults = cfg.SiteConfigs.Defaults
	}
	c := newCrawlerForSite(cfg, defaults, logger)

	targets := make([]crawler.Target, 0, len(cfg.Targets))
	for _, target := range cfg.Targets {
		suffix, err := targetSuffix(cfg, target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", target, err)
			continue
		}
		targets = append(targets, crawler.Target{StartURL: target, DomainSuffix: suffix})
	}
	if len(targets) == 0 {
		return fmt.Errorf("no usable targets")
	}

	startTime := time.Now()
	results, err := crawler.NewBatchDiscoverer(c, cfg.BatchSize).Discover(ctx, targets)
	if err != nil {
		return err
	}

	for i, tr := range results {
		if tr.Err != nil {
			logger.Error("discovery failed", "target", tr.Target.StartURL, "error", tr.Err)
			fmt.Fprintf(os.Stderr, "Discovery error for %s: %v\n", tr.Target.StartURL, tr.Err)
			continue
		}
		fmt.Printf("[%d/%d] Discovery completed: %s\n", i+1, len(results), tr.Target.StartURL)
		if err := processResult(ctx, cfg, db, tr.Target.DomainSuffix, tr.Result, logger); err != nil {
			logger.Error("failed to process result", "target", tr.Target.StartURL, "error", err)
		}
	}

	fmt.Printf("\nBatch discovery completed in %s\n", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// targetSuffix resolves the internal-domain suffix for a target: the
// --domain-suffix flag when given, otherwise derived from the target URL.
func targetSuffix(cfg *config.Config, target string) (string, error) {
	if cfg.DomainSuffix != "" {
		return cfg.DomainSuffix, nil
	}
	return config.DeriveDomainSuffix(target)
}

// newCrawlerForSite builds a crawler with global settings merged with
// per-site overrides.
func newCrawlerForSite(cfg *config.Config, site config.SiteConfig, logger *slog.Logger) *crawler.Crawler {
	userAgent := cfg.UserAgent
	if site.UserAgent != "" {
		userAgent = site.UserAgent
	}
	delay := cfg.Delay
	if !site.Delay.IsZero() {
		delay = site.Delay.Duration
	}
	maxPages := cfg.MaxCrawlPages
	if site.MaxPages > 0 {
		maxPages = site.MaxPages
	}
	maxSitemaps := cfg.MaxSitemapFiles
	if site.MaxSitemaps > 0 {
		maxSitemaps = site.MaxSitemaps
	}

	client := fetch.NewClient(cfg.Timeout,
		fetch.WithUserAgent(userAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	)
	resolver := sitemap.NewResolver(client,
		sitemap.WithMaxFiles(maxSitemaps),
		sitemap.WithDelay(delay),
		sitemap.WithLogger(logger),
	)
	return crawler.NewCrawler(client, resolver,
		crawler.WithMaxPages(maxPages),
		crawler.WithDelay(delay),
		crawler.WithLogger(logger),
	)
}

// processResult writes the artifact files, outputs the summary, and records
// the run in the database.
func processResult(ctx context.Context, cfg *config.Config, db *database.DiscoveryDB, suffix string, result *model.DiscoveryResult, logger *slog.Logger) error {
	outDir := filepath.Join(cfg.OutputDir, suffix)
	artifacts, err := report.WriteLists(outDir, result)
	if err != nil {
		return fmt.Errorf("failed to write url lists: %w", err)
	}
	logger.Info("url lists written", "dir", outDir, "files", len(artifacts))

	summary := model.NewSummary(result, artifacts, time.Now(), cfg.ErrorSampleLimit)

	if err := outputSummary(cfg, summary); err != nil {
		return fmt.Errorf("failed to output summary: %w", err)
	}

	if db != nil {
		runID, err := db.SaveRun(ctx, result, summary)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		logger.Info("run saved", "run_id", runID, "domain_suffix", suffix)
	}

	return nil
}

// outputSummary writes the summary in the requested format to stdout or to
// the configured file.
func outputSummary(cfg *config.Config, summary *model.Summary) error {
	var output *os.File
	if cfg.SummaryFile != "" {
		dir := filepath.Dir(cfg.SummaryFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.SummaryFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create summary file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONSummary:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownSummary:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(summary)
	return err
}
