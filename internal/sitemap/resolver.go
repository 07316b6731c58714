package sitemap

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/temoto/robotstxt"

	"github.com/mirrorscan/mirrorscan/internal/fetch"
	"github.com/mirrorscan/mirrorscan/internal/model"
	"github.com/mirrorscan/mirrorscan/internal/urlutil"
)

// defaultSitemapPaths are the conventional sitemap locations probed under
// the property root, in order.
var defaultSitemapPaths = []string{"/sitemap.xml", "/sitemap_index.xml", "/sitemaps.xml"}

// Resolver walks a property's sitemap tree and collects page URLs.
type Resolver struct {
	// client performs all network operations, one at a time.
	client *fetch.Client

	// maxFiles bounds how many sitemap documents are fetched and parsed.
	// Reaching the bound silently stops expansion; it is not an error.
	maxFiles int

	// delay is the politeness pause after each network operation.
	delay time.Duration

	// logger receives per-file progress at debug level.
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxFiles sets the maximum number of sitemap files to process.
func WithMaxFiles(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxFiles = n
		}
	}
}

// WithDelay sets the pause between sitemap fetches.
func WithDelay(d time.Duration) Option {
	return func(r *Resolver) {
		r.delay = d
	}
}

// WithLogger sets the logger for resolution progress.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver using the given client.
func NewResolver(client *fetch.Client, opts ...Option) *Resolver {
	r := &Resolver{
		client:   client,
		maxFiles: 50,
		delay:    150 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// Result holds everything sitemap resolution produced.
type Result struct {
	// PageURLs are the candidate page URLs listed across all processed
	// sitemaps, normalized (tracking parameters kept — sitemap entries
	// are not page navigations), deduplicated, in first-seen order.
	PageURLs []string

	// FilesProcessed counts sitemap documents fetched and parsed.
	FilesProcessed int

	// Errors records sitemap files that failed to fetch or parse.
	Errors []model.FetchError
}

// Resolve discovers sitemap seeds for the start URL and traverses nested
// sitemaps breadth-first, up to the configured file cap. It returns an error
// only when the start URL itself is unusable; per-sitemap failures are
// recorded in the result and traversal continues.
func (r *Resolver) Resolve(ctx context.Context, startURL string) (*Result, error) {
	root, err := propertyRoot(startURL)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	queue := r.seeds(ctx, root, result)
	seen := make(map[string]struct{}, len(queue))
	pageSeen := make(map[string]struct{})

	for len(queue) > 0 && result.FilesProcessed < r.maxFiles {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		sitemapURL := queue[0]
		queue = queue[1:]
		if _, ok := seen[sitemapURL]; ok {
			continue
		}
		seen[sitemapURL] = struct{}{}
		result.FilesProcessed++

		pages, nested, err := r.fetchSitemap(ctx, sitemapURL)
		if err != nil {
			result.Errors = append(result.Errors, model.FetchError{URL: sitemapURL, Error: err.Error()})
			r.sleep(ctx)
			continue
		}

		for _, page := range pages {
			if _, ok := pageSeen[page]; !ok {
				pageSeen[page] = struct{}{}
				result.PageURLs = append(result.PageURLs, page)
			}
		}
		for _, nestedURL := range nested {
			if _, ok := seen[nestedURL]; !ok {
				queue = append(queue, nestedURL)
			}
		}

		r.logger.Debug("sitemap processed",
			"url", sitemapURL,
			"pages", len(pages),
			"nested", len(nested),
		)
		r.sleep(ctx)
	}

	return result, nil
}

// seeds returns the deduplicated, first-seen-ordered sitemap seed list:
// the conventional locations, then any Sitemap directives from robots.txt.
// A failed robots.txt fetch is non-fatal; the defaults remain.
func (r *Resolver) seeds(ctx context.Context, root string, result *Result) []string {
	candidates := make([]string, 0, len(defaultSitemapPaths)+2)
	for _, p := range defaultSitemapPaths {
		candidates = append(candidates, root+p)
	}
	candidates = append(candidates, r.robotsSitemaps(ctx, root)...)

	deduped := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		normalized, ok := urlutil.Normalize(candidate, false)
		if !ok {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		deduped = append(deduped, normalized)
	}
	return deduped
}

// robotsSitemaps fetches robots.txt and returns its Sitemap directive
// values. Any failure returns nil: robots.txt is an optional hint source.
func (r *Resolver) robotsSitemaps(ctx context.Context, root string) []string {
	robotsURL := root + "/robots.txt"
	res, err := r.client.Get(ctx, robotsURL)
	r.sleep(ctx)
	if err != nil {
		r.logger.Debug("robots.txt not fetched", "url", robotsURL, "error", err)
		return nil
	}
	if res.StatusCode >= 400 {
		return nil
	}

	data, err := robotstxt.FromBytes([]byte(res.Body))
	if err != nil {
		r.logger.Debug("robots.txt not parsed", "url", robotsURL, "error", err)
		return nil
	}
	return data.Sitemaps
}

// fetchSitemap retrieves and parses one sitemap document, splitting its
// <loc> entries into page URLs and nested sitemap references.
func (r *Resolver) fetchSitemap(ctx context.Context, sitemapURL string) (pages, nested []string, err error) {
	res, err := r.client.Get(ctx, sitemapURL)
	if err != nil {
		return nil, nil, err
	}
	if res.StatusCode >= 400 {
		return nil, nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	doc, err := xmlquery.Parse(strings.NewReader(res.Body))
	if err != nil {
		return nil, nil, fmt.Errorf("parse sitemap: %w", err)
	}

	// Any element named loc counts, whatever its namespace: urlset/url/loc
	// and sitemapindex/sitemap/loc are both covered.
	xmlquery.FindEach(doc, "//loc", func(_ int, n *xmlquery.Node) {
		text := strings.TrimSpace(n.InnerText())
		if text == "" {
			return
		}
		normalized, ok := urlutil.Normalize(text, false)
		if !ok {
			return
		}
		if strings.HasSuffix(normalized, ".xml") {
			nested = append(nested, normalized)
		} else {
			pages = append(pages, normalized)
		}
	})

	return pages, nested, nil
}

// sleep pauses for the politeness delay, returning early on cancellation.
func (r *Resolver) sleep(ctx context.Context) {
	if r.delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(r.delay):
	}
}

// propertyRoot reduces a start URL to its scheme+host root.
func propertyRoot(startURL string) (string, error) {
	normalized, ok := urlutil.Normalize(startURL, false)
	if !ok {
		return "", fmt.Errorf("start URL %q is not a fetchable http(s) URL", startURL)
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return "", err
	}
	return u.Scheme + "://" + u.Host, nil
}
