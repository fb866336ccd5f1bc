package walk

import (
	"errors"
	"io"

	"github.com/quillmail/go-mimeutil/message"
	"github.com/quillmail/go-mimeutil/message/header/field"
	"github.com/quillmail/go-mimeutil/message/transfer"
	"github.com/quillmail/go-mimeutil/mimetype"
)

// ErrNotText is returned by TextFromPart when the given part is not a
// text/* leaf.
var ErrNotText = errors.New("part does not contain text content")

// TextFromPart extracts the displayable text of a text/* leaf part. The
// body has its Content-transfer-encoding decoded if the part still carries
// it, and the bytes are then decoded from the charset declared on the
// Content-type into a unicode string. A missing charset is treated as
// UTF-8/US-ASCII and an unsupported charset falls back to the raw bytes,
// since some text beats no text when displaying mail.
//
// Every text subtype is handled identically: text/plain, text/html, or any
// other text/* type. A branch part or a leaf of any other type returns
// ErrNotText. A failure decoding the transfer encoding or reading the body
// is returned as-is.
//
// The part's reader is consumed by this call.
func TextFromPart(part message.Part) (string, error) {
	mt, err := part.GetHeader().GetMediaType()
	if err != nil || !mimetype.Match(mt, "text/*") {
		return "", ErrNotText
	}

	r := part.GetReader()
	if r == nil {
		return "", ErrNotText
	}

	if part.IsEncoded() {
		r = transfer.ApplyTransferDecoding(part.GetHeader(), r)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	charset, err := part.GetHeader().GetCharset()
	if err != nil {
		charset = ""
	}

	text, err := field.CharsetDecoder(charset, body)
	if err != nil {
		// unsupported charset, show the raw bytes instead
		return string(body), nil
	}

	return text, nil
}
