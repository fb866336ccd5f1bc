package message

import (
	"fmt"
	"io"

	"github.com/quillmail/go-mimeutil/message/header"
)

// Multipart is a multipart MIME message: a header and a list of sub-parts.
// The MIME type set in the Content-type header should always be a
// multipart/* type.
type Multipart struct {
	// Header is the header for the message.
	header.Header

	// prefix and suffix preserve the bytes before the first boundary and
	// after the final boundary so a parsed message round-trips
	// byte-for-byte.
	//
	// A nil prefix means the input had no initial boundary at all and none
	// will be output. A nil suffix means the input had no final boundary
	// and none will be output. A non-empty prefix must end in a line break
	// and a non-empty suffix must start with one or the serialized message
	// will not be correct.
	prefix, suffix []byte

	// parts holds this layer's parts
	parts []Part
}

// WriteTo writes the header, boundaries, and all sub-parts to the
// destination io.Writer. It fails with an error if the header has no
// Content-type boundary parameter set.
//
// This may only be safely called one time because it consumes the readers
// of all the leaf parts within.
func (mm *Multipart) WriteTo(w io.Writer) (int64, error) {
	boundary, err := mm.GetBoundary()
	if err != nil {
		return 0, err
	}

	br := mm.Break()

	n, err := mm.Header.WriteTo(w)
	if err != nil {
		return n, err
	}

	pn, err := w.Write(mm.prefix)
	n += int64(pn)
	if err != nil {
		return n, err
	}

	if len(mm.parts) > 0 {
		for i, part := range mm.parts {
			if i > 0 {
				bn, err := fmt.Fprint(w, br)
				n += int64(bn)
				if err != nil {
					return n, err
				}
			}

			bn, err := fmt.Fprintf(w, "--%s%s", boundary, br)
			n += int64(bn)
			if err != nil {
				return n, err
			}

			wn, err := part.WriteTo(w)
			n += wn
			if err != nil {
				return n, err
			}
		}

		if mm.suffix != nil {
			bn, err := fmt.Fprintf(w, "%s--%s--", br, boundary)
			n += int64(bn)
			if err != nil {
				return n, err
			}
		}
	}

	sn, err := w.Write(mm.suffix)
	n += int64(sn)
	if err != nil {
		return n, err
	}

	return n, nil
}

// IsMultipart always returns true.
func (mm *Multipart) IsMultipart() bool {
	return true
}

// IsEncoded always returns false.
func (mm *Multipart) IsEncoded() bool {
	return false
}

// GetHeader returns the header for the message.
func (mm *Multipart) GetHeader() *header.Header {
	return &mm.Header
}

// GetReader always returns nil.
func (mm *Multipart) GetReader() io.Reader {
	return nil
}

// GetParts returns the sub-parts of this message or nil if there aren't
// any.
func (mm *Multipart) GetParts() []Part {
	return mm.parts
}

func newMultipart(mt string, parts []Part) *Multipart {
	m := &Multipart{
		prefix: []byte{},
		suffix: []byte{},
		parts:  parts,
	}
	m.SetMediaType(mt)
	return m
}

// MultipartAlternative returns a Multipart with a Content-type header set
// to multipart/alternative and the given parts attached.
func MultipartAlternative(parts ...Part) *Multipart {
	return newMultipart("multipart/alternative", parts)
}

// MultipartMixed returns a Multipart with a Content-type header set to
// multipart/mixed and the given parts attached.
func MultipartMixed(parts ...Part) *Multipart {
	return newMultipart("multipart/mixed", parts)
}

// MultipartRelated returns a Multipart with a Content-type header set to
// multipart/related and the given parts attached. This is the usual
// container for an HTML part together with the inline images it references
// by content-id.
func MultipartRelated(parts ...Part) *Multipart {
	return newMultipart("multipart/related", parts)
}
