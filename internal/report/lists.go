package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mirrorscan/mirrorscan/internal/model"
)

// Artifact file names. The downstream downloader looks these up by name, so
// they are fixed.
const (
	PagesFile          = "pages.txt"
	ResourcesFile      = "resources.txt"
	ExternalAssetsFile = "external_assets.txt"
	InternalURLsFile   = "internal_urls.txt"
	AllDownloadsFile   = "all_download_urls.txt"
	DomainsFile        = "domains.txt"
)

// WriteLists writes the six URL list artifacts for a finished run into dir,
// creating it if needed. It returns a map from artifact name to written file
// path, suitable for embedding in the run summary.
//
// Every list is deduplicated, lexicographically sorted, one entry per line,
// with a trailing newline. The downstream downloader only line-splits these
// files, but the sorted order keeps runs diffable.
func WriteLists(dir string, result *model.DiscoveryResult) (map[string]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	lists := map[string][]string{
		PagesFile:          result.Pages(),
		ResourcesFile:      result.ResourceURLs(),
		ExternalAssetsFile: result.Assets(),
		InternalURLsFile:   result.Internal(),
		AllDownloadsFile:   result.AllDownloadURLs(),
		DomainsFile:        result.Domains(),
	}

	artifacts := make(map[string]string, len(lists))
	for name, lines := range lists {
		path := filepath.Join(dir, name)
		if err := writeSortedLines(path, lines); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
		artifacts[name] = path
	}

	return artifacts, nil
}

// writeSortedLines writes one line per entry with a trailing newline. The
// accessor methods on DiscoveryResult already return sorted, deduplicated
// slices; this function only lays them out on disk. An empty list still gets
// a single newline, so every artifact ends with exactly one.
func writeSortedLines(path string, lines []string) error {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if len(lines) == 0 {
		sb.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(sb.String()), 0o600)
}
