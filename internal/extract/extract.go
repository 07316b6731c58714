package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// urlAttrs is the attribute allow-list inspected on every opening tag.
var urlAttrs = map[string]struct{}{
	"href":        {},
	"src":         {},
	"srcset":      {},
	"poster":      {},
	"data":        {},
	"action":      {},
	"imagesrcset": {},
}

var (
	// cssURLRe matches url(...) references in CSS text.
	cssURLRe = regexp.MustCompile(`(?i)url\(([^)]+)\)`)

	// absoluteURLRe is the broad net for absolute URLs embedded in script
	// bodies, JSON blobs, and other non-attribute contexts.
	absoluteURLRe = regexp.MustCompile(`(?i)https?://[^\s"'<>)]+`)

	// metaRefreshRe matches the target of a meta refresh content value.
	metaRefreshRe = regexp.MustCompile(`(?i)url=([^;]+)`)
)

// textState tracks which raw-text element the tokenizer is currently inside.
// Style blocks are scanned for url(...) references; script bodies are swept
// with the absolute-URL pattern since they are not parsed as code.
type textState int

const (
	stateDefault textState = iota
	stateInStyle
	stateInScript
)

// Extract returns every raw URL-shaped substring found in the given HTML
// document's text. Candidates are unresolved: relative references come back
// as written and must be resolved against the document's final URL by the
// caller.
func Extract(markup string) map[string]struct{} {
	urls := make(map[string]struct{})

	z := html.NewTokenizer(strings.NewReader(markup))
	state := stateDefault

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// End of input, or markup the tokenizer cannot continue
			// past. Either way the document-wide sweep below still
			// catches absolute URLs in whatever the tokenizer missed.
			for _, match := range absoluteURLRe.FindAllString(markup, -1) {
				urls[match] = struct{}{}
			}
			return urls

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			name := strings.ToLower(tok.Data)
			if tt == html.StartTagToken {
				switch name {
				case "style":
					state = stateInStyle
				case "script":
					state = stateInScript
				}
			}
			collectAttrs(name, tok.Attr, urls)

		case html.EndTagToken:
			tok := z.Token()
			switch strings.ToLower(tok.Data) {
			case "style", "script":
				state = stateDefault
			}

		case html.TextToken:
			switch state {
			case stateInStyle:
				collectCSSURLs(string(z.Text()), urls)
			case stateInScript:
				for _, match := range absoluteURLRe.FindAllString(string(z.Text()), -1) {
					urls[match] = struct{}{}
				}
			}
		}
	}
}

// collectAttrs inspects one tag's attributes for URL candidates.
func collectAttrs(tag string, attrs []html.Attribute, urls map[string]struct{}) {
	for _, attr := range attrs {
		value := attr.Val
		if value == "" {
			continue
		}
		key := strings.ToLower(attr.Key)

		switch {
		case key == "style":
			collectCSSURLs(value, urls)

		case key == "content" && tag == "meta":
			if m := metaRefreshRe.FindStringSubmatch(value); m != nil {
				urls[strings.TrimSpace(m[1])] = struct{}{}
			} else if looksLikeURLCandidate(value) {
				urls[value] = struct{}{}
			}

		case key == "srcset" || key == "imagesrcset":
			// Comma-separated candidate descriptors; only the URL token
			// of each candidate counts, not the width/density suffix.
			for _, candidate := range strings.Split(value, ",") {
				fields := strings.Fields(candidate)
				if len(fields) > 0 {
					urls[fields[0]] = struct{}{}
				}
			}

		default:
			if _, ok := urlAttrs[key]; ok {
				urls[value] = struct{}{}
			}
		}
	}
}

// collectCSSURLs adds every url(...) reference in the given CSS text.
func collectCSSURLs(text string, urls map[string]struct{}) {
	for _, m := range cssURLRe.FindAllStringSubmatch(text, -1) {
		candidate := strings.Trim(strings.TrimSpace(m[1]), `"'`)
		if candidate != "" {
			urls[candidate] = struct{}{}
		}
	}
}

// looksLikeURLCandidate reports whether a bare attribute value is plausibly
// a URL reference rather than free text.
func looksLikeURLCandidate(value string) bool {
	candidate := strings.ToLower(strings.Trim(strings.TrimSpace(value), `"'`))
	if candidate == "" {
		return false
	}
	for _, prefix := range []string{"http://", "https://", "//", "/", "./", "../", "?"} {
		if strings.HasPrefix(candidate, prefix) {
			return true
		}
	}
	return false
}
