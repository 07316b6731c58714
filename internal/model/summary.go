package model

import "time"

// Summary is the structured run report consumed by the downstream downloader
// and by humans skimming a run. Field names and the error sample cap are part
// of the external interface; downstream tooling parses this document.
//
// Design decision: We create a separate summary rather than serializing
// DiscoveryResult directly because the summary carries counts and artifact
// paths, not the (potentially huge) URL sets, and its JSON shape must stay
// stable independently of internal representation changes.
type Summary struct {
	// StartURL is the entry URL the run was configured with.
	StartURL string `json:"start_url"`

	// GeneratedAtEpoch is the summary generation time in Unix seconds.
	GeneratedAtEpoch int64 `json:"generated_at_epoch"`

	// Counts holds per-category totals.
	Counts SummaryCounts `json:"counts"`

	// Artifacts maps artifact names to the file paths written for this run.
	// Empty when no list files were written.
	Artifacts map[string]string `json:"artifacts,omitempty"`

	// FetchErrors is a capped sample of the run's fetch errors.
	FetchErrors []FetchError `json:"fetch_errors"`
}

// SummaryCounts holds the per-category totals of a discovery run.
type SummaryCounts struct {
	// Pages is the number of canonical page URLs.
	Pages int `json:"pages"`

	// InternalURLs is the size of the full internal superset.
	InternalURLs int `json:"internal_urls"`

	// InternalResources is the number of internal non-page URLs.
	InternalResources int `json:"internal_resources"`

	// ExternalAssets is the number of out-of-domain asset URLs.
	ExternalAssets int `json:"external_assets"`

	// DownloadDomains is the number of distinct hostnames in the
	// download union.
	DownloadDomains int `json:"download_domains"`

	// FetchErrors is the total number of recorded fetch failures,
	// before sampling.
	FetchErrors int `json:"fetch_errors"`
}

// NewSummary builds a Summary from a finished run. maxErrorSamples caps the
// embedded error list; the count in Counts always reflects the full total.
func NewSummary(r *DiscoveryResult, artifacts map[string]string, generatedAt time.Time, maxErrorSamples int) *Summary {
	samples := r.FetchErrors
	if maxErrorSamples >= 0 && len(samples) > maxErrorSamples {
		samples = samples[:maxErrorSamples]
	}
	// Copy so the summary stays stable if the caller keeps appending.
	sampleCopy := make([]FetchError, len(samples))
	copy(sampleCopy, samples)

	return &Summary{
		StartURL:         r.StartURL,
		GeneratedAtEpoch: generatedAt.Unix(),
		Counts: SummaryCounts{
			Pages:             len(r.PageURLs),
			InternalURLs:      len(r.InternalURLs),
			InternalResources: len(r.ResourceURLs()),
			ExternalAssets:    len(r.ExternalAssets),
			DownloadDomains:   len(r.Domains()),
			FetchErrors:       len(r.FetchErrors),
		},
		Artifacts:   artifacts,
		FetchErrors: sampleCopy,
	}
}
