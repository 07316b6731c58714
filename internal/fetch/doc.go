// Package fetch provides the HTTP client discipline shared by sitemap
// resolution and page crawling: identifying headers, per-request timeouts,
// size-limited body reads, charset decoding, and final-URL reporting after
// redirects. One network operation is outstanding at a time by construction —
// callers hold a single Client and call it sequentially.
package fetch
