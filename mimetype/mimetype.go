// Package mimetype compares MIME types of the form "type/subtype". Either
// half of either side may be the wildcard "*", which matches anything on
// that side. Comparison is case-insensitive. A value without a slash is
// malformed and matches nothing rather than causing an error.
package mimetype

import "strings"

// split breaks a MIME type into its lowercased type and subtype halves. The
// second return is false if the value has no slash.
func split(mimeType string) (string, string, bool) {
	ix := strings.IndexByte(mimeType, '/')
	if ix < 0 {
		return "", "", false
	}
	return strings.ToLower(mimeType[:ix]), strings.ToLower(mimeType[ix+1:]), true
}

// Match returns true if the given MIME type matches the given pattern. The
// pattern may use "*" for its type or subtype (or both) to match anything on
// that side, and so may the type being tested. Malformed inputs lacking a
// slash never match.
func Match(mimeType, pattern string) bool {
	t, s, ok := split(mimeType)
	if !ok {
		return false
	}

	pt, ps, ok := split(pattern)
	if !ok {
		return false
	}

	typeOk := t == pt || t == "*" || pt == "*"
	subOk := s == ps || s == "*" || ps == "*"

	return typeOk && subOk
}

// MatchAny returns true if the given MIME type matches any pattern in the
// given list, tested in order via Match. An empty list matches nothing.
func MatchAny(mimeType string, patterns []string) bool {
	for _, pattern := range patterns {
		if Match(mimeType, pattern) {
			return true
		}
	}
	return false
}
