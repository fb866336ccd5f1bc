package field

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// wordPrefix is the lead-in for the encoded words this package produces. We
// always emit b-type (base64) words with a UTF-8 charset. The uppercase
// spelling matches what the rest of the mail ecosystem emits.
const (
	wordPrefix = "=?UTF-8?B?"
	wordSuffix = "?="
)

// Unfold removes RFC 2822 folding from a header field body, producing a
// single logical line. If the input contains no fold break at all, the input
// string is returned as-is without a copy. Callers rely on that: unfolding
// every header of every message on display is the hot path.
func Unfold(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}

	uf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\r' && s[i] != '\n' {
			uf = append(uf, s[i])
		}
	}
	return string(uf)
}

// Decode transforms a header field body by decoding any RFC 2047 encoded
// words (=?charset?enc?text?=) found in it. Encoded words separated only by
// linear whitespace are joined with the whitespace dropped, per the
// encoded-word folding rule. Content that merely looks like an encoded word
// but does not parse, and words naming a charset we cannot decode, are left
// in place untouched: mail display must degrade, not fail.
//
// Input in which nothing decodes, including input with no "=?" sequence at
// all, is returned as-is without a copy.
func Decode(s string) string {
	if !strings.Contains(s, "=?") {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))

	i := 0
	lastWasWord := false
	decodedAny := false
	for i < len(s) {
		ix := strings.Index(s[i:], "=?")
		if ix < 0 {
			out.WriteString(s[i:])
			break
		}
		ix += i

		decoded, end, ok := decodeWord(s, ix)
		if !ok {
			// not a decodable word, pass the lead-in through verbatim
			out.WriteString(s[i : ix+2])
			i = ix + 2
			lastWasWord = false
			continue
		}

		between := s[i:ix]
		if !lastWasWord || !isLinearWhitespace(between) {
			out.WriteString(between)
		}

		out.WriteString(decoded)
		i = end
		lastWasWord = true
		decodedAny = true
	}

	// every lead-in was passed through verbatim, so the copy is the input
	if !decodedAny {
		return s
	}

	return out.String()
}

// UnfoldAndDecode unfolds the given header field body and then decodes any
// encoded words in it. When neither transform applies, the input is returned
// as-is, a single reference, not two copies.
func UnfoldAndDecode(s string) string {
	return Decode(Unfold(s))
}

// Encode produces RFC 2047 encoded words for a string containing non-ASCII
// text, using the UTF-8 charset and base64 transfer encoding. The content is
// split across multiple encoded words as needed to keep each physical line
// within the folding width, with each word independently decodable. Words
// are joined by a CRLF plus a single space, so the result is already folded.
//
// Pure ASCII input needs no encoding and is returned as-is without a copy.
//
// Decode(Encode(s)) == s holds for any unicode string s.
func Encode(s string) string {
	return FoldAndEncode(s, 0)
}

// FoldAndEncode is Encode with the first line's budget reduced by the given
// number of characters already consumed by a preceding header name. Pure
// ASCII input is handed to Fold, which returns it as-is when it fits.
func FoldAndEncode(s string, usedCharacters int) string {
	if isASCII(s) {
		return Fold(s, usedCharacters)
	}

	var out strings.Builder

	budget := DefaultFoldLength - usedCharacters
	first := true
	for len(s) > 0 {
		if !first {
			out.WriteString("\r\n ")
			budget = DefaultFoldLength - 1
		}

		chunk := splitWord(s, budget)
		out.WriteString(wordPrefix)
		out.WriteString(base64.StdEncoding.EncodeToString([]byte(s[:chunk])))
		out.WriteString(wordSuffix)

		s = s[chunk:]
		first = false
	}

	return out.String()
}

// splitWord returns the length of the longest prefix of s, cut at a rune
// boundary, whose base64 encoded word fits within the given budget. It
// always takes at least one rune so that progress is made even against an
// absurdly small budget.
func splitWord(s string, budget int) int {
	// base64 grows 3 input bytes into 4 output characters
	max := (budget - len(wordPrefix) - len(wordSuffix)) / 4 * 3
	if max < 1 {
		max = 1
	}

	if len(s) <= max {
		return len(s)
	}

	cut := 0
	for i := range s {
		if i > max {
			break
		}
		cut = i
	}
	if cut == 0 {
		_, sz := utf8.DecodeRuneInString(s)
		cut = sz
	}
	return cut
}

// decodeWord attempts to parse and decode an encoded word starting at the
// "=?" found at start. It returns the decoded text and the index just past
// the closing "?=". The second return is false when the text at start is not
// a well-formed encoded word or cannot be decoded.
func decodeWord(s string, start int) (string, int, bool) {
	rest := s[start+2:]

	q1 := strings.IndexByte(rest, '?')
	if q1 <= 0 {
		return "", 0, false
	}
	charset := rest[:q1]

	if len(rest) < q1+3 || rest[q1+2] != '?' {
		return "", 0, false
	}
	enc := rest[q1+1]

	q3 := strings.Index(rest[q1+3:], "?=")
	if q3 < 0 {
		return "", 0, false
	}
	text := rest[q1+3 : q1+3+q3]
	end := start + 2 + q1 + 3 + q3 + 2

	// encoded-text never contains whitespace
	if strings.ContainsAny(text, " \t\r\n") {
		return "", 0, false
	}

	var raw []byte
	switch enc {
	case 'B', 'b':
		var err error
		raw, err = base64.StdEncoding.DecodeString(text)
		if err != nil {
			return "", 0, false
		}
	case 'Q', 'q':
		var ok bool
		raw, ok = decodeQ(text)
		if !ok {
			return "", 0, false
		}
	default:
		return "", 0, false
	}

	decoded, err := CharsetDecoder(charset, raw)
	if err != nil {
		return "", 0, false
	}

	return decoded, end, true
}

// decodeQ decodes the quoted-printable header variant used inside encoded
// words: underscore stands for space and =XX is a hex escape. A malformed
// escape makes the whole word undecodable, which leaves it displayed raw.
func decodeQ(text string) ([]byte, bool) {
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '_':
			out = append(out, ' ')
		case '=':
			if i+2 >= len(text) {
				return nil, false
			}
			hi, ok1 := unhex(text[i+1])
			lo, ok2 := unhex(text[i+2])
			if !ok1 || !ok2 {
				return nil, false
			}
			out = append(out, hi<<4|lo)
			i += 2
		default:
			out = append(out, c)
		}
	}
	return out, true
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}

func isLinearWhitespace(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
		default:
			return false
		}
	}
	return true
}
