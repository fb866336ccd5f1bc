package field

import "strings"

// DefaultFoldLength is the maximum width of a physical header line. Folding
// keeps every line at or under this width whenever a whitespace break point
// allows it.
const DefaultFoldLength = 76

// Fold re-wraps a long header field body into folded continuation lines. It
// breaks only at whitespace, writing a CRLF before the whitespace so that
// the break point itself becomes the continuation indent. The given
// usedCharacters count is the room already consumed on the first line by the
// header name and colon.
//
// A value that already fits within the remaining width of the first line is
// returned as-is without a copy. A single token longer than the fold width
// with no whitespace to break at is left intact rather than mangled.
func Fold(s string, usedCharacters int) string {
	budget := DefaultFoldLength - usedCharacters
	if budget < 1 {
		budget = 1
	}

	if len(s) <= budget {
		return s
	}

	var out strings.Builder
	out.Grow(len(s) + 8)

	for len(s) > budget {
		cut := lastFoldPoint(s, budget)
		if cut < 0 {
			cut = nextFoldPoint(s, budget)
		}
		if cut < 0 {
			break
		}

		out.WriteString(s[:cut])
		out.WriteString("\r\n")

		// the whitespace at the cut leads the continuation line
		s = s[cut:]
		budget = DefaultFoldLength
	}

	out.WriteString(s)
	return out.String()
}

// lastFoldPoint finds the last whitespace break point before the line
// budget, or -1 if the first line has none.
func lastFoldPoint(s string, before int) int {
	if before > len(s) {
		before = len(s)
	}
	for i := before - 1; i > 0; i-- {
		if s[i] == ' ' || s[i] == '\t' {
			return i
		}
	}
	return -1
}

// nextFoldPoint finds the first whitespace break point at or beyond the line
// budget, used when a line has no break point within its budget and must run
// long until one appears.
func nextFoldPoint(s string, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '\t' {
			return i
		}
	}
	return -1
}
