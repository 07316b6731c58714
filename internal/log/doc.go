// Package log provides logging for mirrorscan, built on top of the standard
// slog package.
//
// This package extends slog to provide:
//   - Automatic truncation of oversized attribute values (long URLs,
//     response snippets) so a single record cannot flood the log
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Usage
//
//	// Create a logger writing to stderr
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("sitemap processed",
//	    "url", sitemapURL,
//	    "pages", pageCount,
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
