package message

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/quillmail/go-mimeutil/message/header"
	"github.com/quillmail/go-mimeutil/message/transfer"
)

// Constants related to Parse() options.
const (
	// DefaultMaxMultipartDepth is the default depth the parser will recurse
	// into a message.
	DefaultMaxMultipartDepth = 10

	// DefaultChunkSize is the default size of chunks to read from the input
	// while splitting the message into header and body.
	DefaultChunkSize = 16_384

	// DefaultMaxHeaderLength is the default maximum byte length to scan
	// before giving up on finding the end of the header.
	DefaultMaxHeaderLength = bufio.MaxScanTokenSize

	// DefaultMaxPartLength is the default maximum byte length allowed for a
	// single part at any given level.
	DefaultMaxPartLength = bufio.MaxScanTokenSize
)

// Errors that occur during parsing.
var (
	// ErrNoBoundary is returned by Parse when the boundary parameter is not
	// set on the Content-type field of a multipart message header.
	ErrNoBoundary = errors.New("the boundary parameter is missing from Content-type")

	// ErrLargeHeader is returned by Parse when the header is longer than
	// the configured WithMaxHeaderLength option (or the default,
	// DefaultMaxHeaderLength).
	ErrLargeHeader = errors.New("the header exceeds the maximum parse length")

	// ErrLargePart is returned by Parse when a part is longer than the
	// configured WithMaxPartLength option (or the default,
	// DefaultMaxPartLength).
	ErrLargePart = errors.New("a message part exceeds the maximum parse length")
)

// splits lists the header/body split sequences to try, most likely first.
var splits = [][]byte{
	[]byte("\x0d\x0a\x0d\x0a"), // \r\n\r\n
	[]byte("\x0a\x0d\x0a\x0d"), // \n\r\n\r, extremely unlikely, possibly never
	[]byte("\x0a\x0a"),         // \n\n
	[]byte("\x0d\x0d"),         // \r\r
}

type parser struct {
	maxHeaderLen int
	maxPartLen   int
	maxDepth     int
	chunkSize    int
	decode       bool
}

func (pr *parser) clone() *parser {
	p := *pr
	return &p
}

var defaultParser = &parser{
	maxHeaderLen: DefaultMaxHeaderLength,
	maxPartLen:   DefaultMaxPartLength,
	maxDepth:     DefaultMaxMultipartDepth,
	chunkSize:    DefaultChunkSize,
	decode:       false,
}

// ParseOption refers to options that may be passed to the Parse function to
// modify how the parser works.
type ParseOption func(pr *parser)

// WithMaxHeaderLength is a ParseOption that sets the maximum size the
// header is allowed to reach before parsing exits with ErrLargeHeader. This
// prevents bad input from producing an out of memory error. A value less
// than or equal to 0 means no limit. The default is DefaultMaxHeaderLength.
func WithMaxHeaderLength(n int) ParseOption {
	return func(pr *parser) { pr.maxHeaderLen = n }
}

// WithMaxPartLength is a ParseOption that sets the maximum size any single
// part at any level of the message is allowed to reach. If a part gets too
// large, Parse fails with ErrLargePart. A value less than or equal to 0
// means no limit. The default is DefaultMaxPartLength.
func WithMaxPartLength(n int) ParseOption {
	return func(pr *parser) { pr.maxPartLen = n }
}

// DecodeTransferEncoding is a ParseOption that enables the decoding of
// Content-transfer-encoding. By default, Content-transfer-encoding will not
// be decoded, which allows for safer round-tripping of messages. However,
// if you want to display or process the message body, you will want to
// enable this.
func DecodeTransferEncoding() ParseOption {
	return func(pr *parser) { pr.decode = true }
}

// WithChunkSize is a ParseOption that controls how many bytes to read at a
// time while searching for the end of the header. The default chunk size is
// DefaultChunkSize.
func WithChunkSize(chunkSize int) ParseOption {
	return func(pr *parser) { pr.chunkSize = chunkSize }
}

// WithMaxDepth is a ParseOption that controls how deep the parser will go
// in recursively parsing a multipart message. This is set to
// DefaultMaxMultipartDepth by default.
func WithMaxDepth(maxDepth int) ParseOption {
	return func(pr *parser) { pr.maxDepth = maxDepth }
}

// WithoutMultipart is a ParseOption that will not allow parsing of any
// multipart messages. The message returned from Parse() will always be
// *Opaque.
//
// Use this option if all you are interested in is the top-level header. It
// prevents any multipart processing, so only the header and a single chunk
// of the body will have been read; the rest of the input io.Reader is left
// unread.
func WithoutMultipart() ParseOption {
	return func(pr *parser) { pr.maxDepth = 0 }
}

// WithoutRecursion is a ParseOption that will only allow a single level of
// multipart parsing.
func WithoutRecursion() ParseOption {
	return func(pr *parser) { pr.maxDepth = 1 }
}

// WithUnlimitedRecursion is a ParseOption that will allow the parser to
// parse sub-parts of any depth.
func WithUnlimitedRecursion() ParseOption {
	return func(pr *parser) { pr.maxDepth = -1 }
}

// searchForSplit looks for a header/body split. Returns -1, nil if none is
// found. If the header/body split is found, it returns the position just
// past the split newlines and the line break the header is using.
func searchForSplit(buf []byte, subpart bool) (pos int, crlf []byte) {
	if subpart {
		// a sub-part may have an empty header, in which case its first
		// bytes are a lone line break
		for _, s := range splits {
			half := s[:len(s)/2]
			if bytes.HasPrefix(buf, half) {
				return len(half), half
			}
		}
	}

	pos = -1
	for _, s := range splits {
		if testPos := bytes.Index(buf, s); testPos > -1 {
			return testPos + len(s), s[:len(s)/2]
		}
	}
	return
}

// splitHeadFromBody reads from the input until the blank line dividing the
// header from the body is found. It returns the raw header bytes, the line
// break in use, and a reader for the body.
func (pr *parser) splitHeadFromBody(r io.Reader, subpart bool) ([]byte, []byte, io.Reader, error) {
	p := make([]byte, pr.chunkSize)
	buf := &bytes.Buffer{}
	searched := 0
	for {
		n, err := r.Read(p)

		if pr.maxHeaderLen > 0 && n+buf.Len() > pr.maxHeaderLen {
			return nil, nil, nil, ErrLargeHeader
		}

		isEOF := false
		if errors.Is(err, io.EOF) {
			isEOF = true
		} else if err != nil {
			return nil, nil, nil, err
		}

		buf.Write(p[:n])

		// check the unsearched tail of the buffer for the end of header
		pos, crlf := searchForSplit(buf.Bytes()[searched:], subpart)
		if pos >= 0 {
			pos += searched
			all := buf.Bytes()
			hdr := make([]byte, pos)
			copy(hdr, all[:pos])

			// the rest of the buffer plus the unread input is the body
			body := &remainder{all[pos:], r}
			return hdr, crlf, body, nil
		}

		if isEOF {
			break
		}

		// the last 3 bytes might be the prefix to the split point
		searched = buf.Len() - 3
		if searched < 0 {
			searched = 0
		}
	}

	// No header/body split found: treat the whole message as header. See if
	// we can find what to use as a break.
	for _, s := range splits {
		crlf := s[:len(s)/2]
		if bytes.Contains(buf.Bytes(), crlf) {
			return buf.Bytes(), crlf, nil, nil
		}
	}

	// Or the ultimate fallback is...
	return buf.Bytes(), []byte("\x0d"), nil, nil
}

// parseToOpaque turns a reader into an Opaque.
func (pr *parser) parseToOpaque(r io.Reader, subpart bool) (*Opaque, error) {
	hdr, crlf, body, err := pr.splitHeadFromBody(r, subpart)
	if err != nil {
		return nil, err
	}

	head := header.Parse(hdr, header.Break(crlf))

	if pr.decode && body != nil {
		body = transfer.ApplyTransferDecoding(head, body)
	}

	return &Opaque{*head, body, !pr.decode}, nil
}

// Parse will consume input from the given reader and return a Generic
// message containing the parsed content.
//
// First, the input is read a chunk at a time, as set by the WithChunkSize()
// option, until the double line break dividing the header from the body is
// found. That line break also determines how the header is broken into
// fields. If the accumulated header grows past the WithMaxHeaderLength()
// option, Parse fails with ErrLargeHeader and the io.Reader may be left in
// a partial read state.
//
// Then, if the Content-type of the message is a multipart/* MIME type and
// the depth options permit, the body is split into parts on the boundary
// parameter of the Content-type and each part is parsed the same way,
// recursively, producing a *Multipart. A part larger than the
// WithMaxPartLength() option fails the parse with ErrLargePart. A multipart
// Content-type without a boundary parameter fails with ErrNoBoundary.
// Whenever possible, the partially parsed message is returned alongside the
// error with the failing level left as an unparsed *Opaque.
//
// If the DecodeTransferEncoding() option is passed, leaf parts with a
// Content-transfer-encoding header also have their content decoded. This is
// not the default because decoding and then re-encoding is very likely to
// make trivial modifications to the original bytes, which would break
// byte-for-byte round-tripping.
//
// The given io.Reader may or may not be completely consumed upon return.
// Reading all the body contents of all sub-parts or using the WriteTo()
// method on the returned message will consume it completely.
func Parse(r io.Reader, opts ...ParseOption) (Generic, error) {
	pr := defaultParser.clone()
	for _, opt := range opts {
		opt(pr)
	}

	msg, err := pr.parseToOpaque(r, false)
	if err != nil {
		return msg, err
	}

	return pr.parse(msg, 0)
}

// boundarySplit is the result of dividing a multipart body on its
// boundaries while keeping every byte accounted for, so the original can be
// reconstructed exactly.
type boundarySplit struct {
	prefix, suffix []byte
	parts          [][]byte
}

// splitOnBoundaries divides a multipart body into its raw parts.
//
// Boundary lines look like "--boundary" with the final one being
// "--boundary--". Every boundary but the first is preceded by a line break,
// which belongs to the boundary, not to the part before it. The bytes
// before the first boundary become the prefix and the bytes after the final
// boundary become the suffix; a missing initial or final boundary is
// recorded as a nil prefix or suffix so serialization can omit it too.
func splitOnBoundaries(body []byte, boundary string, br header.Break) *boundarySplit {
	sb := []byte(fmt.Sprintf("--%s%s", boundary, br))
	mb := []byte(fmt.Sprintf("%s--%s%s", br, boundary, br))
	eb := []byte(fmt.Sprintf("%s--%s--%s", br, boundary, br))
	fb := []byte(fmt.Sprintf("%s--%s--", br, boundary))

	sp := &boundarySplit{}

	// locate the initial boundary and whatever precedes it
	if bytes.HasPrefix(body, sb) {
		sp.prefix = []byte{}
		body = body[len(sb):]
	} else if ix := bytes.Index(body, mb); ix >= 0 {
		sp.prefix = body[:ix+len(br)]
		body = body[ix+len(mb):]
	}
	// else: no initial boundary at all, prefix stays nil and everything up
	// to the final boundary is treated as a single part

	for {
		ix := bytes.Index(body, mb)
		if ix < 0 {
			break
		}
		sp.parts = append(sp.parts, body[:ix])
		body = body[ix+len(mb):]
	}

	// the remaining bytes hold the last part and, usually, the final
	// boundary
	if ix := bytes.Index(body, eb); ix >= 0 {
		sp.parts = append(sp.parts, body[:ix])
		// the line break after "--boundary--" belongs to the suffix
		sp.suffix = body[ix+len(fb):]
	} else if ix := bytes.Index(body, fb); ix >= 0 && ix == len(body)-len(fb) {
		sp.parts = append(sp.parts, body[:ix])
		sp.suffix = []byte{}
	} else {
		sp.parts = append(sp.parts, body)
	}

	return sp
}

// parse implements the multipart phase of Parse.
func (pr *parser) parse(msg *Opaque, depth int) (Generic, error) {
	// we're too deep: stop here and just return the original
	if pr.maxDepth >= 0 && depth >= pr.maxDepth {
		return msg, nil
	}

	pv, err := msg.GetParamValue(header.ContentType)
	if err != nil {
		return msg, nil
	}

	// only a multipart body is divided on boundaries
	if pv.Type() != "multipart" {
		return msg, nil
	}

	if pv.Boundary() == "" {
		return msg, ErrNoBoundary
	}

	if msg.Reader == nil {
		return msg, nil
	}

	body, err := io.ReadAll(msg.Reader)
	if err != nil {
		return msg, err
	}

	// this function recovers the original message if parsing a sub-part
	// fails partway through
	originalMessage := func() *Opaque {
		return &Opaque{
			Header: msg.Header,
			Reader: bytes.NewReader(body),
		}
	}

	sp := splitOnBoundaries(body, pv.Boundary(), msg.Break())

	msgParts := make([]Part, 0, len(sp.parts))
	for _, part := range sp.parts {
		if pr.maxPartLen > 0 && len(part) > pr.maxPartLen {
			return originalMessage(), ErrLargePart
		}

		opMsg, err := pr.parseToOpaque(bytes.NewReader(part), true)
		if err != nil {
			return originalMessage(), err
		}

		sub, err := pr.parse(opMsg, depth+1)
		if err != nil {
			return originalMessage(), err
		}

		msgParts = append(msgParts, sub)
	}

	return &Multipart{
		Header: msg.Header,
		prefix: sp.prefix,
		suffix: sp.suffix,
		parts:  msgParts,
	}, nil
}
