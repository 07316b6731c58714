package model

import (
	"errors"
	"reflect"
	"testing"
)

func populatedResult() *DiscoveryResult {
	r := NewDiscoveryResult("https://example.com/", "example.com")
	r.AddInternal("https://example.com/")
	r.AddInternal("https://example.com/about")
	r.AddInternal("https://example.com/logo.png")
	r.AddInternal("https://example.com/app.css")
	r.AddPage("https://example.com/")
	r.AddPage("https://example.com/about")
	r.AddExternalAsset("https://fonts.gstatic.com/s/font.woff2")
	return r
}

// TestResourceURLs tests the internal-minus-pages partition.
func TestResourceURLs(t *testing.T) {
	t.Parallel()

	t.Run("set subtraction", func(t *testing.T) {
		t.Parallel()

		r := populatedResult()
		want := []string{
			"https://example.com/app.css",
			"https://example.com/logo.png",
		}
		if got := r.ResourceURLs(); !reflect.DeepEqual(got, want) {
			t.Errorf("ResourceURLs() = %v, want %v", got, want)
		}
	})

	t.Run("disjoint from pages", func(t *testing.T) {
		t.Parallel()

		r := populatedResult()
		pages := make(map[string]struct{})
		for _, p := range r.Pages() {
			pages[p] = struct{}{}
		}
		for _, u := range r.ResourceURLs() {
			if _, ok := pages[u]; ok {
				t.Errorf("URL %q appears in both pages and resources", u)
			}
		}
	})

	t.Run("late page promotion shrinks resources", func(t *testing.T) {
		t.Parallel()

		r := populatedResult()
		before := len(r.ResourceURLs())

		// An internal URL reclassified as a page must leave the
		// resource set on the next computation.
		r.AddPage("https://example.com/logo.png")

		if got := len(r.ResourceURLs()); got != before-1 {
			t.Errorf("ResourceURLs() length = %d, want %d", got, before-1)
		}
	})

	t.Run("empty result", func(t *testing.T) {
		t.Parallel()

		r := NewDiscoveryResult("https://example.com/", "example.com")
		if got := r.ResourceURLs(); len(got) != 0 {
			t.Errorf("ResourceURLs() = %v, want empty", got)
		}
	})
}

// TestAllDownloadURLs tests the downloader union list.
func TestAllDownloadURLs(t *testing.T) {
	t.Parallel()

	r := populatedResult()
	want := []string{
		"https://example.com/",
		"https://example.com/about",
		"https://example.com/app.css",
		"https://example.com/logo.png",
		"https://fonts.gstatic.com/s/font.woff2",
	}
	if got := r.AllDownloadURLs(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllDownloadURLs() = %v, want %v", got, want)
	}
}

// TestDomains tests hostname extraction for the downloader domain scope.
func TestDomains(t *testing.T) {
	t.Parallel()

	t.Run("distinct sorted hostnames", func(t *testing.T) {
		t.Parallel()

		r := populatedResult()
		want := []string{"example.com", "fonts.gstatic.com"}
		if got := r.Domains(); !reflect.DeepEqual(got, want) {
			t.Errorf("Domains() = %v, want %v", got, want)
		}
	})

	t.Run("lowercased and deduplicated", func(t *testing.T) {
		t.Parallel()

		r := NewDiscoveryResult("https://example.com/", "example.com")
		r.AddInternal("https://EXAMPLE.com/a")
		r.AddInternal("https://example.com/b")
		want := []string{"example.com"}
		if got := r.Domains(); !reflect.DeepEqual(got, want) {
			t.Errorf("Domains() = %v, want %v", got, want)
		}
	})
}

// TestSortedAccessors tests that every list view is sorted.
func TestSortedAccessors(t *testing.T) {
	t.Parallel()

	r := NewDiscoveryResult("https://example.com/", "example.com")
	r.AddPage("https://example.com/z")
	r.AddPage("https://example.com/a")
	r.AddInternal("https://example.com/z")
	r.AddInternal("https://example.com/a")
	r.AddExternalAsset("https://cdn.example.net/z.js")
	r.AddExternalAsset("https://cdn.example.net/a.js")

	if got := r.Pages(); got[0] != "https://example.com/a" {
		t.Errorf("Pages() not sorted: %v", got)
	}
	if got := r.Internal(); got[0] != "https://example.com/a" {
		t.Errorf("Internal() not sorted: %v", got)
	}
	if got := r.Assets(); got[0] != "https://cdn.example.net/a.js" {
		t.Errorf("Assets() not sorted: %v", got)
	}
}

// TestAddFetchError tests the ordered error log.
func TestAddFetchError(t *testing.T) {
	t.Parallel()

	r := NewDiscoveryResult("https://example.com/", "example.com")
	r.AddFetchError("https://example.com/a", errors.New("timeout"))
	r.AddFetchError("https://example.com/b", errors.New("connection refused"))

	if len(r.FetchErrors) != 2 {
		t.Fatalf("FetchErrors length = %d, want 2", len(r.FetchErrors))
	}
	if r.FetchErrors[0].URL != "https://example.com/a" || r.FetchErrors[0].Error != "timeout" {
		t.Errorf("FetchErrors[0] = %+v", r.FetchErrors[0])
	}
	if r.FetchErrors[1].Error != "connection refused" {
		t.Errorf("FetchErrors[1] = %+v", r.FetchErrors[1])
	}
}
