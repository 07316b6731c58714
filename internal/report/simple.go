package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mirrorscan/mirrorscan/internal/model"
)

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display after a run finishes.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables the error sample listing in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with the error sample listing.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.Summary) (int, error) {
	var sb strings.Builder

	sb.WriteString("=== Discovery Summary ===\n")
	fmt.Fprintf(&sb, "Start URL:          %s\n", summary.StartURL)
	generated := time.Unix(summary.GeneratedAtEpoch, 0).UTC()
	fmt.Fprintf(&sb, "Generated:          %s\n", generated.Format("2006-01-02 15:04:05 MST"))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Pages:              %d\n", summary.Counts.Pages)
	fmt.Fprintf(&sb, "Internal URLs:      %d\n", summary.Counts.InternalURLs)
	fmt.Fprintf(&sb, "Internal resources: %d\n", summary.Counts.InternalResources)
	fmt.Fprintf(&sb, "External assets:    %d\n", summary.Counts.ExternalAssets)
	fmt.Fprintf(&sb, "Download domains:   %d\n", summary.Counts.DownloadDomains)
	fmt.Fprintf(&sb, "Fetch errors:       %d\n", summary.Counts.FetchErrors)

	if w.verbose && len(summary.FetchErrors) > 0 {
		sb.WriteString("\nError samples:\n")
		for _, fe := range summary.FetchErrors {
			fmt.Fprintf(&sb, "  %s: %s\n", fe.URL, fe.Error)
		}
	}

	return io.WriteString(w.output, sb.String())
}
