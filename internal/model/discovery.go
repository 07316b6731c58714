package model

import (
	"net/url"
	"sort"
	"strings"
)

// FetchError records a single failed network operation during discovery.
// Errors are appended in the order they occur and never removed.
type FetchError struct {
	// URL is the URL whose fetch failed.
	URL string `json:"url"`

	// Error is the failure message.
	Error string `json:"error"`
}

// DiscoveryResult aggregates everything a discovery run learns about one
// web property. The sets grow monotonically: a URL, once added, is never
// removed. The crawl orchestrator is the only writer during a run; once the
// run ends the result is treated as immutable.
//
// Design decision: We store sets as map[string]struct{} keyed by normalized
// URL rather than slices because membership checks dominate (every extracted
// link is tested against the page set), and the sorted views needed for
// output are computed once at the end.
type DiscoveryResult struct {
	// StartURL is the normalized entry URL of the run.
	StartURL string `json:"start_url"`

	// DomainSuffix defines which hosts count as internal.
	DomainSuffix string `json:"domain_suffix"`

	// InternalURLs is the superset of every in-domain URL seen anywhere:
	// linked, sitemap-listed, or reached via redirect.
	InternalURLs map[string]struct{} `json:"-"`

	// PageURLs holds HTML-classified internal URLs in canonical page form
	// (scheme+host+path, no query or fragment).
	PageURLs map[string]struct{} `json:"-"`

	// ExternalAssets holds out-of-domain URLs classified as static assets
	// (fonts, CDN bundles, stylesheets on third-party hosts).
	ExternalAssets map[string]struct{} `json:"-"`

	// FetchErrors is the ordered log of failed fetches.
	FetchErrors []FetchError `json:"fetch_errors"`
}

// NewDiscoveryResult creates an empty result for the given property.
func NewDiscoveryResult(startURL, domainSuffix string) *DiscoveryResult {
	return &DiscoveryResult{
		StartURL:       startURL,
		DomainSuffix:   domainSuffix,
		InternalURLs:   make(map[string]struct{}),
		PageURLs:       make(map[string]struct{}),
		ExternalAssets: make(map[string]struct{}),
		FetchErrors:    make([]FetchError, 0),
	}
}

// AddInternal records an in-domain URL.
func (r *DiscoveryResult) AddInternal(u string) {
	r.InternalURLs[u] = struct{}{}
}

// AddPage records a canonical page URL.
func (r *DiscoveryResult) AddPage(u string) {
	r.PageURLs[u] = struct{}{}
}

// AddExternalAsset records an out-of-domain asset URL.
func (r *DiscoveryResult) AddExternalAsset(u string) {
	r.ExternalAssets[u] = struct{}{}
}

// AddFetchError appends a failed fetch to the error log.
func (r *DiscoveryResult) AddFetchError(u string, err error) {
	r.FetchErrors = append(r.FetchErrors, FetchError{URL: u, Error: err.Error()})
}

// Pages returns the page URLs sorted lexicographically.
func (r *DiscoveryResult) Pages() []string {
	return sortedKeys(r.PageURLs)
}

// Internal returns the full internal URL superset sorted lexicographically.
func (r *DiscoveryResult) Internal() []string {
	return sortedKeys(r.InternalURLs)
}

// Assets returns the external asset URLs sorted lexicographically.
func (r *DiscoveryResult) Assets() []string {
	return sortedKeys(r.ExternalAssets)
}

// ResourceURLs returns the internal non-page URLs: the set subtraction
// internalUrls − pageUrls, sorted. It is computed from the final sets, not
// maintained incrementally, so the page/resource partition always holds.
func (r *DiscoveryResult) ResourceURLs() []string {
	resources := make([]string, 0, len(r.InternalURLs))
	for u := range r.InternalURLs {
		if _, isPage := r.PageURLs[u]; !isPage {
			resources = append(resources, u)
		}
	}
	sort.Strings(resources)
	return resources
}

// AllDownloadURLs returns the union of pages, internal resources, and
// external assets, sorted and deduplicated. This is the complete input list
// for the downstream downloader.
func (r *DiscoveryResult) AllDownloadURLs() []string {
	union := make(map[string]struct{}, len(r.InternalURLs)+len(r.ExternalAssets))
	for u := range r.PageURLs {
		union[u] = struct{}{}
	}
	for _, u := range r.ResourceURLs() {
		union[u] = struct{}{}
	}
	for u := range r.ExternalAssets {
		union[u] = struct{}{}
	}
	return sortedKeys(union)
}

// Domains returns the distinct hostnames appearing in AllDownloadURLs,
// lowercased and sorted. The downloader uses this to scope its
// allowed-domain set.
func (r *DiscoveryResult) Domains() []string {
	hosts := make(map[string]struct{})
	for _, raw := range r.AllDownloadURLs() {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		if host := strings.ToLower(u.Hostname()); host != "" {
			hosts[host] = struct{}{}
		}
	}
	return sortedKeys(hosts)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
