package model

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// TestNewSummary tests summary construction from a finished run.
func TestNewSummary(t *testing.T) {
	t.Parallel()

	generatedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("counts reflect the full sets", func(t *testing.T) {
		t.Parallel()

		r := populatedResult()
		r.AddFetchError("https://example.com/broken", errors.New("timeout"))

		s := NewSummary(r, map[string]string{"pages": "out/pages.txt"}, generatedAt, 10)

		if s.StartURL != "https://example.com/" {
			t.Errorf("StartURL = %q", s.StartURL)
		}
		if s.GeneratedAtEpoch != generatedAt.Unix() {
			t.Errorf("GeneratedAtEpoch = %d, want %d", s.GeneratedAtEpoch, generatedAt.Unix())
		}
		if s.Counts.Pages != 2 {
			t.Errorf("Counts.Pages = %d, want 2", s.Counts.Pages)
		}
		if s.Counts.InternalURLs != 4 {
			t.Errorf("Counts.InternalURLs = %d, want 4", s.Counts.InternalURLs)
		}
		if s.Counts.InternalResources != 2 {
			t.Errorf("Counts.InternalResources = %d, want 2", s.Counts.InternalResources)
		}
		if s.Counts.ExternalAssets != 1 {
			t.Errorf("Counts.ExternalAssets = %d, want 1", s.Counts.ExternalAssets)
		}
		if s.Counts.DownloadDomains != 2 {
			t.Errorf("Counts.DownloadDomains = %d, want 2", s.Counts.DownloadDomains)
		}
		if s.Counts.FetchErrors != 1 {
			t.Errorf("Counts.FetchErrors = %d, want 1", s.Counts.FetchErrors)
		}
		if s.Artifacts["pages"] != "out/pages.txt" {
			t.Errorf("Artifacts = %v", s.Artifacts)
		}
	})

	t.Run("error samples capped but count preserved", func(t *testing.T) {
		t.Parallel()

		r := NewDiscoveryResult("https://example.com/", "example.com")
		for i := 0; i < 5; i++ {
			r.AddFetchError(fmt.Sprintf("https://example.com/%d", i), errors.New("timeout"))
		}

		s := NewSummary(r, nil, generatedAt, 3)

		if len(s.FetchErrors) != 3 {
			t.Errorf("sample length = %d, want 3", len(s.FetchErrors))
		}
		if s.Counts.FetchErrors != 5 {
			t.Errorf("Counts.FetchErrors = %d, want 5", s.Counts.FetchErrors)
		}
		if s.FetchErrors[0].URL != "https://example.com/0" {
			t.Errorf("samples not taken in order: %+v", s.FetchErrors[0])
		}
	})

	t.Run("samples are a copy", func(t *testing.T) {
		t.Parallel()

		r := NewDiscoveryResult("https://example.com/", "example.com")
		r.AddFetchError("https://example.com/a", errors.New("timeout"))

		s := NewSummary(r, nil, generatedAt, 10)
		r.AddFetchError("https://example.com/b", errors.New("timeout"))

		if len(s.FetchErrors) != 1 {
			t.Errorf("sample length = %d, want 1 after later appends", len(s.FetchErrors))
		}
	})

	t.Run("negative cap keeps all samples", func(t *testing.T) {
		t.Parallel()

		r := NewDiscoveryResult("https://example.com/", "example.com")
		for i := 0; i < 3; i++ {
			r.AddFetchError(fmt.Sprintf("https://example.com/%d", i), errors.New("timeout"))
		}

		s := NewSummary(r, nil, generatedAt, -1)
		if len(s.FetchErrors) != 3 {
			t.Errorf("sample length = %d, want 3", len(s.FetchErrors))
		}
	})
}
