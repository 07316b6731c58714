package crawler

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mirrorscan/mirrorscan/internal/model"
)

// Target names one property to discover.
type Target struct {
	// StartURL is where discovery begins.
	StartURL string

	// DomainSuffix defines which hosts count as internal. When empty,
	// the crawl degenerates to the start page alone.
	DomainSuffix string
}

// TargetResult pairs a target with its discovery outcome. Err is non-nil
// when the crawl failed; on cancellation Result may still hold the partial
// sets accumulated so far.
type TargetResult struct {
	Target Target
	Result *model.DiscoveryResult
	Err    error
}

// BatchDiscoverer runs discovery over several properties at once. Properties
// are crawled concurrently up to the configured limit; each individual crawl
// stays sequential, so the per-property politeness guarantees hold.
type BatchDiscoverer struct {
	crawler *Crawler
	limit   int
}

// NewBatchDiscoverer creates a BatchDiscoverer running at most limit
// concurrent crawls. A limit below one means one at a time.
func NewBatchDiscoverer(c *Crawler, limit int) *BatchDiscoverer {
	if limit < 1 {
		limit = 1
	}
	return &BatchDiscoverer{crawler: c, limit: limit}
}

// Discover crawls every target and returns one TargetResult per target, in
// target order. A failing target does not stop the others; its failure is
// carried in its TargetResult. Context cancellation stops all crawls.
func (b *BatchDiscoverer) Discover(ctx context.Context, targets []Target) ([]TargetResult, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	results := make([]TargetResult, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.limit)
	for i, target := range targets {
		g.Go(func() error {
			result, err := b.crawler.Discover(ctx, target.StartURL, target.DomainSuffix)
			results[i] = TargetResult{Target: target, Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}
