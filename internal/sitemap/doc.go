// Package sitemap discovers and parses sitemap documents to seed the crawl
// frontier with known page URLs.
//
// Seed candidates come from the conventional locations under the property
// root plus any Sitemap directives in robots.txt. Sitemap indexes (sitemaps
// of sitemaps) are traversed breadth-first, bounded by a maximum file count;
// a sitemap that fails to fetch or parse is recorded and skipped, never
// fatal.
package sitemap
