// Package urlkey derives canonical deduplication keys from article URLs.
package urlkey

import (
	"net/url"
	"strings"
)

// Normalize canonicalizes a raw URL into a stable dedup key: host + path,
// lower-cased, scheme-insensitive, with a single trailing slash removed.
// It never fails; unparseable input degrades to a trimmed lower-case string.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)

	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimSuffix(trimmed, "/"))
	}

	key := u.Host + strings.TrimSuffix(u.Path, "/")
	return strings.ToLower(key)
}
