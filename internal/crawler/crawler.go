package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mirrorscan/mirrorscan/internal/extract"
	"github.com/mirrorscan/mirrorscan/internal/fetch"
	"github.com/mirrorscan/mirrorscan/internal/model"
	"github.com/mirrorscan/mirrorscan/internal/sitemap"
	"github.com/mirrorscan/mirrorscan/internal/urlutil"
)

// progressInterval is how many processed pages pass between progress logs.
const progressInterval = 50

// Crawler discovers the URL graph of one web property at a time.
type Crawler struct {
	// client performs all page fetches.
	client *fetch.Client

	// resolver seeds the frontier from the property's sitemaps.
	resolver *sitemap.Resolver

	// maxPages bounds how many page URLs get a fetch attempt. Reaching
	// the bound is normal termination, not an error.
	maxPages int

	// delay is the politeness pause after each page fetch.
	delay time.Duration

	// logger receives crawl progress.
	logger *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxPages sets the maximum number of pages to fetch per crawl.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithDelay sets the pause between page fetches.
func WithDelay(d time.Duration) Option {
	return func(c *Crawler) {
		c.delay = d
	}
}

// WithLogger sets the logger for crawl progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// NewCrawler creates a Crawler that fetches with client and seeds from
// resolver. A Crawler is safe for concurrent Discover calls; all per-crawl
// state lives inside Discover.
func NewCrawler(client *fetch.Client, resolver *sitemap.Resolver, opts ...Option) *Crawler {
	c := &Crawler{
		client:   client,
		resolver: resolver,
		maxPages: 1000,
		delay:    150 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Discover crawls the property rooted at startURL breadth-first and returns
// the accumulated URL sets. URLs whose hostname equals domainSuffix, or is a
// subdomain of it, count as internal.
//
// Discover returns an error only when the start URL is unusable or the
// context is cancelled. Per-URL fetch failures are recorded in the result and
// the crawl continues; an unreachable property yields a result whose page set
// contains only the start URL, with every fetch recorded as an error.
func (c *Crawler) Discover(ctx context.Context, startURL, domainSuffix string) (*model.DiscoveryResult, error) {
	start, ok := urlutil.Normalize(startURL, true)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStartURL, startURL)
	}

	result := model.NewDiscoveryResult(start, domainSuffix)

	seeds, err := c.resolver.Resolve(ctx, start)
	if err != nil {
		return nil, err
	}
	result.FetchErrors = append(result.FetchErrors, seeds.Errors...)

	for _, pageURL := range seeds.PageURLs {
		if !urlutil.IsInternal(pageURL, domainSuffix) {
			continue
		}
		result.AddInternal(pageURL)
		if urlutil.LikelyHTML(pageURL) {
			result.AddPage(urlutil.CanonicalPage(pageURL))
		}
	}

	// The start URL always joins the frontier, so a property with no
	// sitemaps still gets crawled.
	result.AddInternal(start)
	result.AddPage(urlutil.CanonicalPage(start))

	frontier := NewFrontier()
	for _, pageURL := range result.Pages() {
		frontier.Push(pageURL)
	}

	c.logger.Info("crawl started",
		"start_url", start,
		"domain_suffix", domainSuffix,
		"sitemap_seeds", frontier.QueueLen(),
		"sitemap_files", seeds.FilesProcessed,
	)

	for frontier.Processed() < c.maxPages {
		pageURL, ok := frontier.Pop()
		if !ok {
			break
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		res, err := c.client.Get(ctx, pageURL)
		c.sleep(ctx)
		if err != nil {
			frontier.MarkErrored(pageURL)
			result.AddFetchError(pageURL, err)
			continue
		}
		frontier.MarkVisited(pageURL)

		if n := frontier.Processed(); n%progressInterval == 0 {
			c.logger.Info("crawl progress",
				"visited", n,
				"queued", frontier.QueueLen(),
				"internal_urls", len(result.InternalURLs),
			)
		}

		c.ingest(res, domainSuffix, result, frontier)
	}

	c.logger.Info("crawl finished",
		"visited", frontier.Processed(),
		"pages", len(result.PageURLs),
		"internal_urls", len(result.InternalURLs),
		"external_assets", len(result.ExternalAssets),
		"fetch_errors", len(result.FetchErrors),
	)

	return result, nil
}

// ingest routes one fetched response into the result sets and frontier:
// the redirect target (if any), then every link extracted from the body.
func (c *Crawler) ingest(res *fetch.Result, domainSuffix string, result *model.DiscoveryResult, frontier *Frontier) {
	if final, ok := urlutil.Normalize(res.FinalURL, true); ok && urlutil.IsInternal(final, domainSuffix) {
		result.AddInternal(final)
		if urlutil.LikelyHTML(final) {
			result.AddPage(urlutil.CanonicalPage(final))
		}
	}

	// Non-markup responses still count as visited, they just yield no
	// links. Error pages are parsed like any other body: even a 404 page
	// can link somewhere useful.
	if !res.IsMarkup() {
		return
	}

	base, err := url.Parse(res.FinalURL)
	if err != nil {
		return
	}

	extracted := extract.Extract(res.Body)

	// Extracted candidates come back as a set; sort them so same-depth
	// links enter the frontier in a stable order. Under the page cap the
	// visit order decides which pages get fetched at all, so two runs over
	// the same site must queue identically.
	candidates := make([]string, 0, len(extracted))
	for raw := range extracted {
		candidates = append(candidates, raw)
	}
	sort.Strings(candidates)

	for _, raw := range candidates {
		ref, err := url.Parse(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		normalized, ok := urlutil.Normalize(base.ResolveReference(ref).String(), true)
		if !ok {
			continue
		}

		if urlutil.IsInternal(normalized, domainSuffix) {
			result.AddInternal(normalized)
			if urlutil.LikelyHTML(normalized) {
				canonical := urlutil.CanonicalPage(normalized)
				result.AddPage(canonical)
				frontier.Push(canonical)
			}
			continue
		}
		if urlutil.LikelyAsset(normalized) {
			result.AddExternalAsset(normalized)
		}
	}
}

// sleep pauses for the politeness delay, returning early on cancellation.
func (c *Crawler) sleep(ctx context.Context) {
	if c.delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(c.delay):
	}
}

