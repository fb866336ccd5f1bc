// Package transfer decodes and encodes the Content-transfer-encoding of a
// message body. Decoders wrap a caller-supplied io.Reader and never close
// it: the stream's lifetime belongs to the caller on every exit path,
// including decode failure.
//
// The error policy follows what mail display needs. Malformed content in a
// lenient encoding (quoted-printable) is recovered locally and never
// surfaces. Structural failures, a base64 payload that cannot be
// interpreted at all or an I/O failure on the underlying stream, surface as
// an error, and callers are expected to fall back to showing the raw
// content rather than aborting display.
package transfer

import (
	"fmt"
	"io"
	"strings"

	"github.com/quillmail/go-mimeutil/message/header"
)

// Tokens for the supported Content-transfer-encodings, compared
// case-insensitively by the header accessor that produces them.
const (
	None            = ""                 // bytes will be left as-is
	Bit7            = "7bit"             // bytes will be left as-is
	Bit8            = "8bit"             // bytes will be left as-is
	Binary          = "binary"           // bytes will be left as-is
	QuotedPrintable = "quoted-printable" // =XX hex escapes and soft line breaks
	Base64          = "base64"           // standard-alphabet base64
)

// DecodeError is returned by reads from a decoder when the byte stream
// itself cannot be interpreted in the declared encoding, as opposed to
// merely containing sloppy content.
type DecodeError struct {
	// Encoding is the transfer encoding token that failed.
	Encoding string

	cause error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s content: %v", e.Encoding, e.cause)
}

// Unwrap returns the underlying decode failure.
func (e *DecodeError) Unwrap() error {
	return e.cause
}

// writer is an internal helper to make wrapping easier.
type writer struct {
	io.Writer
	io.Closer
}

// Close will close the nested writer if there is one to close.
func (w *writer) Close() error {
	if w.Closer != nil {
		return w.Closer.Close()
	}
	return nil
}

// closers closes each io.Closer in order and reports the first failure.
type closers []io.Closer

func (cs closers) Close() error {
	var first error
	for _, c := range cs {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Transcoding is a pair of functions that transform to and from a transfer
// encoding.
type Transcoding struct {
	// Encoder returns an io.WriteCloser, which will encode binary data and
	// write the encoded form to the given io.Writer. You must call Close()
	// on the returned io.WriteCloser when you are finished.
	Encoder func(io.Writer) io.WriteCloser

	// Decoder returns an io.Reader, which will read from the given
	// io.Reader and decode the encoded data back into binary form.
	Decoder func(io.Reader) io.Reader
}

// AsIsTranscoder is just a shortcut to a no-op encoder/decoder.
var AsIsTranscoder = Transcoding{NewAsIsEncoder, NewAsIsDecoder}

// Transcodings defines the supported Content-transfer-encodings and how to
// handle them. An encoding token absent from this map is passed through
// as-is, the tolerant choice for unrecognized tokens in real-world mail.
var Transcodings = map[string]Transcoding{
	None:            AsIsTranscoder,
	Bit7:            AsIsTranscoder,
	Bit8:            AsIsTranscoder,
	Binary:          AsIsTranscoder,
	QuotedPrintable: {NewQuotedPrintableEncoder, NewQuotedPrintableDecoder},
	Base64:          {NewBase64Encoder, NewBase64Decoder},
}

// Decode returns an io.Reader that decodes the given stream per the given
// transfer encoding token. Unrecognized tokens read the bytes unchanged.
func Decode(r io.Reader, cte string) io.Reader {
	if tc, hasCode := Transcodings[cte]; hasCode {
		return tc.Decoder(r)
	}
	return r
}

// ApplyTransferEncoding is a helper that will check the given header to see
// if transfer encoding ought to be performed. It returns an io.WriteCloser
// that will write the encoding (or just pass data through if no encoding is
// necessary).
//
// You must call Close() on the returned io.WriteCloser when you are
// finished writing.
func ApplyTransferEncoding(h *header.Header, w io.Writer) io.WriteCloser {
	cte, err := h.GetTransferEncoding()
	if err != nil {
		return &writer{w, nil}
	}

	if tc, hasCode := Transcodings[cte]; hasCode {
		return tc.Encoder(w)
	}

	return &writer{w, nil}
}

// ApplyTransferDecoding returns an io.Reader that will modify incoming
// bytes according to the transfer encoding declared in the given header. A
// multipart part never has its own transfer encoding applied, so those read
// as-is, as do parts with no or an unrecognized encoding.
func ApplyTransferDecoding(h *header.Header, r io.Reader) io.Reader {
	if mt, err := h.GetMediaType(); err == nil &&
		strings.HasPrefix(strings.ToLower(mt), "multipart/") {
		return r
	}

	cte, err := h.GetTransferEncoding()
	if err != nil {
		return r
	}

	return Decode(r, cte)
}
