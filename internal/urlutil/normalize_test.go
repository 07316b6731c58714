package urlutil

import "testing"

// TestNormalize tests canonical-form reduction of raw URL strings.
func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		raw          string
		dropTracking bool
		want         string
		wantOK       bool
	}{
		{
			name:         "plain URL is unchanged",
			raw:          "https://example.com/pricing",
			dropTracking: true,
			want:         "https://example.com/pricing",
			wantOK:       true,
		},
		{
			name:         "host and scheme are lowercased",
			raw:          "HTTPS://Example.COM/About",
			dropTracking: true,
			want:         "https://example.com/About",
			wantOK:       true,
		},
		{
			name:         "surrounding whitespace and quotes are trimmed",
			raw:          `  "https://example.com/a"  `,
			dropTracking: true,
			want:         "https://example.com/a",
			wantOK:       true,
		},
		{
			name:         "protocol-relative form becomes https",
			raw:          "//cdn.example.com/app.js",
			dropTracking: true,
			want:         "https://cdn.example.com/app.js",
			wantOK:       true,
		},
		{
			name:         "default https port is stripped",
			raw:          "https://example.com:443/a",
			dropTracking: true,
			want:         "https://example.com/a",
			wantOK:       true,
		},
		{
			name:         "default http port is stripped",
			raw:          "http://example.com:80/a",
			dropTracking: true,
			want:         "http://example.com/a",
			wantOK:       true,
		},
		{
			name:         "non-default port is kept",
			raw:          "https://example.com:8443/a",
			dropTracking: true,
			want:         "https://example.com:8443/a",
			wantOK:       true,
		},
		{
			name:         "empty path defaults to slash",
			raw:          "https://example.com",
			dropTracking: true,
			want:         "https://example.com/",
			wantOK:       true,
		},
		{
			name:         "fragment is dropped",
			raw:          "https://example.com/docs#install",
			dropTracking: true,
			want:         "https://example.com/docs",
			wantOK:       true,
		},
		{
			name:         "tracking keys are removed",
			raw:          "https://ex.com/p?utm_source=x&id=1",
			dropTracking: true,
			want:         "https://ex.com/p?id=1",
			wantOK:       true,
		},
		{
			name:         "tracking keys are case-insensitive",
			raw:          "https://ex.com/p?UTM_Source=x&GCLID=y&id=1",
			dropTracking: true,
			want:         "https://ex.com/p?id=1",
			wantOK:       true,
		},
		{
			name:         "remaining pair order is preserved",
			raw:          "https://ex.com/p?b=2&utm_medium=m&a=1",
			dropTracking: true,
			want:         "https://ex.com/p?b=2&a=1",
			wantOK:       true,
		},
		{
			name:         "tracking keys survive when dropTracking is off",
			raw:          "https://ex.com/p?utm_source=x",
			dropTracking: false,
			want:         "https://ex.com/p?utm_source=x",
			wantOK:       true,
		},
		{
			name:         "javascript scheme is rejected",
			raw:          "javascript:void(0)",
			dropTracking: true,
			wantOK:       false,
		},
		{
			name:         "mailto scheme is rejected",
			raw:          "mailto:team@example.com",
			dropTracking: true,
			wantOK:       false,
		},
		{
			name:         "tel scheme is rejected",
			raw:          "tel:+15551234567",
			dropTracking: true,
			wantOK:       false,
		},
		{
			name:         "data scheme is rejected",
			raw:          "data:image/png;base64,AAAA",
			dropTracking: true,
			wantOK:       false,
		},
		{
			name:         "unknown scheme is rejected",
			raw:          "ftp://example.com/file",
			dropTracking: true,
			wantOK:       false,
		},
		{
			name:         "relative URL has no host and is rejected",
			raw:          "/pricing",
			dropTracking: true,
			wantOK:       false,
		},
		{
			name:         "empty string is rejected",
			raw:          "   ",
			dropTracking: true,
			wantOK:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Normalize(tt.raw, tt.dropTracking)
			if ok != tt.wantOK {
				t.Fatalf("Normalize(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// TestNormalizeIdempotent verifies that normalizing a normalized URL yields
// the same string. Set membership across the whole engine depends on this.
func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	raws := []string{
		"https://Example.com:443/a b/c?q=1&utm_source=x#frag",
		"//fonts.gstatic.com/s/font.woff2",
		"http://example.com:8080/?b=2&a=%20space",
		"https://example.com",
		"https://ex.com/p?flag&empty=&id=3",
	}

	for _, raw := range raws {
		for _, dropTracking := range []bool{true, false} {
			first, ok := Normalize(raw, dropTracking)
			if !ok {
				t.Fatalf("Normalize(%q, %v) unexpectedly rejected", raw, dropTracking)
			}
			second, ok := Normalize(first, dropTracking)
			if !ok {
				t.Fatalf("Normalize(%q, %v) rejected its own output %q", raw, dropTracking, first)
			}
			if first != second {
				t.Errorf("normalization not idempotent for %q: %q -> %q", raw, first, second)
			}
		}
	}
}

// TestCanonicalPage tests reduction to page identity.
func TestCanonicalPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"query is stripped", "https://example.com/p?id=1", "https://example.com/p"},
		{"path alone is kept", "https://example.com/docs/intro", "https://example.com/docs/intro"},
		{"empty path becomes slash", "https://example.com", "https://example.com/"},
		{"port is kept", "https://example.com:8443/p?x=1", "https://example.com:8443/p"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CanonicalPage(tt.in); got != tt.want {
				t.Errorf("CanonicalPage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
