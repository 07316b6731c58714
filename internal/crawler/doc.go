// Package crawler performs the bounded breadth-first discovery crawl over a
// web property. A Crawler seeds its frontier from sitemap resolution plus the
// start URL, fetches one page at a time with a politeness delay, extracts and
// classifies links, and accumulates everything into a model.DiscoveryResult.
//
// The crawl is strictly sequential: one network operation is outstanding at
// any moment, and the inter-request delay is the rate-limiting mechanism.
// BatchDiscoverer runs independent properties concurrently; each property's
// crawl stays sequential internally.
package crawler
