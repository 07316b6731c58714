// Package main provides the entry point for the mirrorscan CLI.
//
// Mirrorscan discovers the URL graph of a web property - its pages, internal
// resources, and external assets - by combining sitemap traversal with a
// bounded breadth-first crawl. The resulting URL lists feed an external
// mirroring downloader.
//
// Usage:
//
//	mirrorscan discover <start-url>
//	mirrorscan discover --list <file>
//
// See --help for all available options.
package main

// main is the entry point for mirrorscan.
func main() {
	Execute()
}
