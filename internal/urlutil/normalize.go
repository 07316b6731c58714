package urlutil

import (
	"net/url"
	"strings"
)

// trackingParams are query keys stripped during normalization. These are
// advertising and analytics trackers that do not affect page content, so
// URLs differing only in these keys are the same resource.
var trackingParams = map[string]struct{}{
	"utm_campaign": {},
	"utm_content":  {},
	"utm_id":       {},
	"utm_medium":   {},
	"utm_source":   {},
	"utm_term":     {},
	"gclid":        {},
	"fbclid":       {},
	"mc_cid":       {},
	"mc_eid":       {},
}

// rejectedSchemes are URL schemes that can never be fetched over HTTP.
var rejectedSchemes = []string{"javascript:", "mailto:", "tel:", "data:", "about:"}

// defaultPorts maps schemes to the port implied when none is given.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// Normalize reduces a raw URL string to canonical form and reports whether
// the URL is fetchable at all. It trims surrounding whitespace and quotes,
// rewrites protocol-relative forms to https, rejects non-HTTP(S) schemes and
// host-less URLs, lowercases scheme and host, strips default ports and the
// fragment, defaults an empty path to "/", and, when dropTracking is set,
// removes tracking query parameters while preserving the relative order of
// the remaining pairs.
//
// Normalize is idempotent: feeding its output back in returns the same
// string. Callers rely on this for set membership, so any change here must
// keep that property.
func Normalize(raw string, dropTracking bool) (string, bool) {
	candidate := strings.Trim(strings.TrimSpace(raw), `"'`)
	if candidate == "" {
		return "", false
	}
	if strings.HasPrefix(candidate, "//") {
		candidate = "https:" + candidate
	}

	lower := strings.ToLower(candidate)
	for _, scheme := range rejectedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return "", false
		}
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}
	if port := u.Port(); port != "" && port != defaultPorts[u.Scheme] {
		host += ":" + port
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	query := u.RawQuery
	if dropTracking && query != "" {
		query = stripTracking(query)
	}

	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(host)
	b.WriteString(path)
	if query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}
	return b.String(), true
}

// CanonicalPage reduces a normalized URL to its page identity: scheme, host,
// and path only. Page-set membership uses this form so that query variants
// of the same route collapse to one page.
func CanonicalPage(normalized string) string {
	u, err := url.Parse(normalized)
	if err != nil {
		return normalized
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return u.Scheme + "://" + u.Host + path
}

// stripTracking removes tracking keys from a raw query string, keeping the
// remaining pairs in their original relative order. Pairs are re-encoded
// with canonical escaping so the result is stable under repetition.
func stripTracking(rawQuery string) string {
	pairs := strings.Split(rawQuery, "&")
	kept := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			decodedKey = key
		}
		if _, tracked := trackingParams[strings.ToLower(decodedKey)]; tracked {
			continue
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			decodedValue = value
		}
		kept = append(kept, url.QueryEscape(decodedKey)+"="+url.QueryEscape(decodedValue))
	}
	return strings.Join(kept, "&")
}
