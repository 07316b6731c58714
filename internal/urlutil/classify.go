package urlutil

import (
	"net/url"
	"path"
	"strings"
)

// assetExtensions are file extensions of static resources worth mirroring.
var assetExtensions = map[string]struct{}{
	".avif": {}, ".bmp": {}, ".css": {}, ".csv": {}, ".eot": {}, ".gif": {},
	".ico": {}, ".jpeg": {}, ".jpg": {}, ".js": {}, ".json": {}, ".m3u8": {},
	".map": {}, ".mjs": {}, ".mp3": {}, ".mp4": {}, ".otf": {}, ".pdf": {},
	".png": {}, ".svg": {}, ".ttf": {}, ".txt": {}, ".wav": {}, ".webm": {},
	".webp": {}, ".woff": {}, ".woff2": {}, ".xml": {}, ".zip": {},
}

// nonHTMLExtensions are extensions that rule a URL out as a page: every
// asset extension plus document and archive formats that are downloadable
// but not worth fetching as assets of the page graph.
var nonHTMLExtensions = func() map[string]struct{} {
	m := map[string]struct{}{
		".7z": {}, ".bz2": {}, ".doc": {}, ".docx": {}, ".epub": {},
		".gz": {}, ".ppt": {}, ".pptx": {}, ".rar": {}, ".tar": {},
		".xls": {}, ".xlsx": {}, ".xz": {},
	}
	for ext := range assetExtensions {
		m[ext] = struct{}{}
	}
	return m
}()

// ignoredExternalHostSuffixes are social and video platforms whose deep
// links show up on almost every site. They are neither pages of the target
// property nor assets it needs, so classification drops them outright.
var ignoredExternalHostSuffixes = []string{
	"twitter.com",
	"x.com",
	"linkedin.com",
	"youtube.com",
	"discord.com",
	"facebook.com",
	"instagram.com",
	"tiktok.com",
}

// bundleMarkers are path segments typical of framework static bundles.
var bundleMarkers = []string{"/_next/", "/static/", "/assets/", "/cdn/"}

// IsInternal reports whether the normalized URL's host belongs to the
// property defined by domainSuffix: either the host equals the suffix or is
// a subdomain of it.
func IsInternal(normalized, domainSuffix string) bool {
	u, err := url.Parse(normalized)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	suffix := strings.ToLower(domainSuffix)
	return host == suffix || strings.HasSuffix(host, "."+suffix)
}

// LikelyHTML reports whether the normalized URL plausibly serves an HTML
// page. API and edge-function routes are excluded, as are known non-HTML
// extensions.
//
// A URL with no extension (or an unrecognized one) is assumed to be a page
// route. This is a heuristic about how sites shape their URLs, not a
// guarantee the server returns HTML; the crawl tolerates misclassification
// because non-HTML responses are skipped after fetching.
func LikelyHTML(normalized string) bool {
	u, err := url.Parse(normalized)
	if err != nil {
		return false
	}
	p := strings.ToLower(u.EscapedPath())
	if strings.Contains(p, "/api/") {
		return false
	}
	if strings.HasPrefix(p, "/cdn-cgi/") {
		return false
	}
	ext := path.Ext(p)
	if ext == "" {
		return true
	}
	_, nonHTML := nonHTMLExtensions[ext]
	return !nonHTML
}

// LikelyAsset reports whether the normalized URL looks like a static
// resource. It is consulted only for out-of-domain URLs: an asset extension
// always qualifies; ignored social/video platforms never do; otherwise
// framework bundle paths, known font CDNs, and .css/.js query hints qualify.
func LikelyAsset(normalized string) bool {
	u, err := url.Parse(normalized)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	p := strings.ToLower(u.EscapedPath())

	if _, ok := assetExtensions[path.Ext(p)]; ok {
		return true
	}
	for _, ignored := range ignoredExternalHostSuffixes {
		if host == ignored || strings.HasSuffix(host, "."+ignored) {
			return false
		}
	}
	for _, marker := range bundleMarkers {
		if strings.Contains(p, marker) {
			return true
		}
	}
	if strings.Contains(host, "fonts.googleapis.com") || strings.Contains(host, "fonts.gstatic.com") {
		return true
	}
	query := strings.ToLower(u.RawQuery)
	if strings.Contains(query, ".css") || strings.Contains(query, ".js") {
		return true
	}
	return false
}
