package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// Client performs single HTTP GETs with the crawl's politeness headers.
//
// Design decision: We wrap *http.Client in a struct rather than passing one
// around because the identifying User-Agent, Accept headers, and body-size
// cap must be consistent across every request of a run, and a custom
// transport can be injected for tests.
type Client struct {
	// httpClient is the underlying client. Redirects are followed; the
	// final resolved URL is reported in Result.FinalURL.
	httpClient *http.Client

	// userAgent identifies the crawler to the target site.
	userAgent string

	// maxBodySize caps how many body bytes are read. Responses past the
	// cap are truncated, not failed: a truncated HTML page still yields
	// its early links.
	maxBodySize int64
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum number of response body bytes to read.
// Non-positive sizes are ignored and the default cap stays in effect.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests to
// inject custom transports; the configured timeout is preserved only if the
// replacement sets its own.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Client whose requests time out after the given
// duration.
func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		userAgent:   "mirrorscan/1.0",
		maxBodySize: 4_000_000,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Result is the outcome of a successful fetch. "Successful" means a response
// arrived: non-2xx statuses still produce a Result, since error pages often
// contain useful links.
type Result struct {
	// FinalURL is the URL the response actually came from, after any
	// redirects.
	FinalURL string

	// StatusCode is the HTTP status of the final response.
	StatusCode int

	// ContentType is the lowercased Content-Type header value.
	ContentType string

	// Body is the response body decoded to UTF-8, truncated at the
	// configured size cap.
	Body string
}

// IsMarkup reports whether the response body is worth scanning for links:
// HTML-like or XML-like content types only.
func (r *Result) IsMarkup() bool {
	return strings.Contains(r.ContentType, "html") || strings.Contains(r.ContentType, "xml")
}

// Get fetches one URL. Network failures and timeouts return an error; any
// received response, whatever its status, returns a Result.
func (c *Client) Get(ctx context.Context, rawURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))

	limited := io.LimitReader(resp.Body, c.maxBodySize)
	decoded, err := charset.NewReader(limited, contentType)
	if err != nil {
		// Undecodable charset declarations fall back to the raw bytes;
		// link extraction on mostly-ASCII markup still works.
		decoded = limited
	}
	body, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", rawURL, err)
	}

	return &Result{
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        string(body),
	}, nil
}
