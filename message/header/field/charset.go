package field

import (
	"fmt"
	"strings"

	_ "golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// CharsetDecoder is the decoder used to transform encoded-word payloads and
// body text from their declared charset into native unicode. It may be
// replaced to customize charset handling globally.
var CharsetDecoder = DecodeCharset

// DecodeCharset decodes the given bytes from the named IANA charset into a
// unicode string. US-ASCII, UTF-8, and an absent charset are passed through
// unchanged. Every other charset is looked up via the MIME index of
// golang.org/x/text. An unknown charset results in an error, which callers
// here always treat as "leave the raw text alone".
func DecodeCharset(charset string, b []byte) (string, error) {
	switch strings.ToLower(charset) {
	case "", "us-ascii", "ascii", "utf-8", "utf8":
		return string(b), nil
	}

	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return "", err
	}

	if e == nil {
		return "", fmt.Errorf("no encoding found for charset %q", charset)
	}

	db, err := e.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}

	return string(db), nil
}
