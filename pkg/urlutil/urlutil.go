// Package urlutil normalizes destination URLs and derives file-name-safe
// fragments from them. These are plain string transforms with no network
// access; the pipeline accepts any payload, so callers use this package only
// to improve the common URL case.
package urlutil

import (
	"net/url"
	"strings"
	"unicode"
)

// Normalize trims the input and prepends "https://" when it carries no
// scheme, so that "example.com" encodes as a browsable URL.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		return raw
	}
	return "https://" + raw
}

// IsLikelyValid reports whether s parses as an http(s) URL with a host.
// This is a plausibility check, not validation: payloads that fail it are
// still encodable.
func IsLikelyValid(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Host returns the host of the normalized URL, or "" when it has none.
func Host(raw string) string {
	u, err := url.Parse(Normalize(raw))
	if err != nil {
		return ""
	}
	return u.Host
}

// SanitizeFilename maps a string to a form safe inside a file name: letters,
// digits, '-' and '_' pass through, every other rune becomes '-'.
func SanitizeFilename(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	return b.String()
}
