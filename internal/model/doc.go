// Package model defines the core data structures shared across mirrorscan.
//
// This package contains the following main types:
//   - DiscoveryResult: the URL sets and error log accumulated by a discovery run
//   - FetchError: a single recorded network failure
//   - Summary: the machine-readable run summary consumed by the downloader
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, report, database) need these types,
// so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
