package report

import (
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/mirrorscan/mirrorscan/internal/model"
)

// MarkdownWriter outputs summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeCounts(md, summary)
	w.writeArtifacts(md, summary)
	w.writeErrors(md, summary)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("Discovery Report")
	md.PlainText("")

	generated := time.Unix(summary.GeneratedAtEpoch, 0).UTC()
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Start URL", "`" + summary.StartURL + "`"},
			{"Generated", generated.Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")
}

// writeCounts writes the per-category totals.
func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, summary *model.Summary) {
	md.H2("URL Counts")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Count"},
		Rows: [][]string{
			{"Pages", strconv.Itoa(summary.Counts.Pages)},
			{"Internal URLs", strconv.Itoa(summary.Counts.InternalURLs)},
			{"Internal resources", strconv.Itoa(summary.Counts.InternalResources)},
			{"External assets", strconv.Itoa(summary.Counts.ExternalAssets)},
			{"Download domains", strconv.Itoa(summary.Counts.DownloadDomains)},
			{"Fetch errors", strconv.Itoa(summary.Counts.FetchErrors)},
		},
	})
	md.PlainText("")
}

// writeArtifacts writes the artifact file listing, if any were produced.
func (w *MarkdownWriter) writeArtifacts(md *markdown.Markdown, summary *model.Summary) {
	if len(summary.Artifacts) == 0 {
		return
	}

	names := make([]string, 0, len(summary.Artifacts))
	for name := range summary.Artifacts {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]string, 0, len(names))
	for _, name := range names {
		items = append(items, "`"+summary.Artifacts[name]+"`")
	}

	md.H2("Artifacts")
	md.PlainText("")
	md.BulletList(items...)
	md.PlainText("")
}

// writeErrors writes the capped error samples.
func (w *MarkdownWriter) writeErrors(md *markdown.Markdown, summary *model.Summary) {
	if len(summary.FetchErrors) == 0 {
		return
	}

	rows := make([][]string, 0, len(summary.FetchErrors))
	for _, fe := range summary.FetchErrors {
		rows = append(rows, []string{"`" + fe.URL + "`", fe.Error})
	}

	md.H2("Fetch Error Samples")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Error"},
		Rows:   rows,
	})
}
