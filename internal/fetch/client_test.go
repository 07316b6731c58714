package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestClientGet tests header discipline, redirects, and body limits.
func TestClientGet(t *testing.T) {
	t.Parallel()

	t.Run("sends identifying headers", func(t *testing.T) {
		t.Parallel()

		var gotUA, gotAccept string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotAccept = r.Header.Get("Accept")
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		}))
		defer srv.Close()

		client := NewClient(5*time.Second, WithUserAgent("test-agent/1.0"))
		result, err := client.Get(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotUA != "test-agent/1.0" {
			t.Errorf("User-Agent = %q, want %q", gotUA, "test-agent/1.0")
		}
		if !strings.Contains(gotAccept, "text/html") {
			t.Errorf("Accept header %q does not request HTML", gotAccept)
		}
		if result.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", result.StatusCode)
		}
	})

	t.Run("reports final URL after redirect", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>moved</html>"))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		client := NewClient(5 * time.Second)
		result, err := client.Get(context.Background(), srv.URL+"/old")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.FinalURL != srv.URL+"/new" {
			t.Errorf("FinalURL = %q, want %q", result.FinalURL, srv.URL+"/new")
		}
	})

	t.Run("truncates oversized bodies", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte(strings.Repeat("x", 1000)))
		}))
		defer srv.Close()

		client := NewClient(5*time.Second, WithMaxBodySize(100))
		result, err := client.Get(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.Body) != 100 {
			t.Errorf("body length = %d, want 100", len(result.Body))
		}
	})

	t.Run("zero body size keeps the default cap", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte(strings.Repeat("x", 1000)))
		}))
		defer srv.Close()

		client := NewClient(5*time.Second, WithMaxBodySize(0))
		result, err := client.Get(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.Body) != 1000 {
			t.Errorf("body length = %d, want the full 1000 bytes", len(result.Body))
		}
	})

	t.Run("non-2xx responses still return a result", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<a href="/still-useful">link</a>`))
		}))
		defer srv.Close()

		client := NewClient(5 * time.Second)
		result, err := client.Get(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", result.StatusCode)
		}
		if !strings.Contains(result.Body, "still-useful") {
			t.Errorf("body of error page was not returned: %q", result.Body)
		}
	})

	t.Run("context cancellation aborts the request", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		client := NewClient(5 * time.Second)
		if _, err := client.Get(ctx, srv.URL); err == nil {
			t.Error("expected error from cancelled context, got nil")
		}
	})
}

// TestResultIsMarkup tests the content-type gate for link extraction.
func TestResultIsMarkup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		want        bool
	}{
		{"text/html; charset=utf-8", true},
		{"application/xhtml+xml", true},
		{"application/xml", true},
		{"text/xml", true},
		{"application/octet-stream", false},
		{"image/png", false},
		{"", false},
	}

	for _, tt := range tests {
		r := &Result{ContentType: tt.contentType}
		if got := r.IsMarkup(); got != tt.want {
			t.Errorf("IsMarkup(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}
