// Package report turns a finished discovery run into the artifacts the
// external downloader consumes: sorted line-delimited URL list files and a
// structured summary document.
//
// This package contains writers for different summary formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for the downstream downloader
//   - MarkdownWriter: Markdown output for documentation and sharing
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) so new output formats can be added
// without touching the core data. The list-file layout (one URL per line,
// lexicographically sorted, trailing newline) is part of the external
// interface and must not change.
package report
