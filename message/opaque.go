package message

import (
	"io"
	"os"
	"path/filepath"

	"github.com/quillmail/go-mimeutil/message/header"
	"github.com/quillmail/go-mimeutil/message/transfer"
)

// Opaque is the base-level message object: a header and an uninterpreted
// body, very similar to the net/mail message implementation.
type Opaque struct {
	// Header contains the header of the message or part.
	header.Header

	// Reader contains the body content of the message. A bodiless message
	// has this set to nil.
	io.Reader

	// encoded tracks whether the bytes behind Reader still carry the
	// Content-transfer-encoding. Parsing leaves the encoding in place unless
	// the DecodeTransferEncoding() option is given; a Buffer produces
	// decoded content unless OpaqueAlreadyEncoded() is used.
	encoded bool
}

// WriteTo writes the Opaque header and body to the destination io.Writer.
//
// If the body bytes have had the Content-transfer-encoding decoded, this
// will encode the data as it is being written, so the output is always a
// valid serialized message.
//
// This can only be safely called once as it will consume the io.Reader.
func (m *Opaque) WriteTo(w io.Writer) (int64, error) {
	var tw io.WriteCloser
	if !m.encoded {
		tw = transfer.ApplyTransferEncoding(&m.Header, w)
		defer func() { _ = tw.Close() }()
	}

	total, err := m.Header.WriteTo(w)
	if err != nil {
		return total, err
	}

	if tw != nil {
		w = tw
	}

	if m.Reader != nil {
		bn, err := io.Copy(w, m.Reader)
		total += bn
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// IsMultipart always returns false.
func (m *Opaque) IsMultipart() bool {
	return false
}

// IsEncoded returns true if the Content-transfer-encoding has not been
// decoded for the bytes returned by the associated io.Reader. When this
// returns true, reading the body returns exactly the bytes WriteTo() would
// produce for it.
func (m *Opaque) IsEncoded() bool {
	return m.encoded
}

// GetHeader returns the header for the message.
func (m *Opaque) GetHeader() *header.Header {
	return &m.Header
}

// GetReader returns the reader containing the body of the message.
func (m *Opaque) GetReader() io.Reader {
	return m.Reader
}

// GetParts always returns nil.
func (m *Opaque) GetParts() []Part {
	return nil
}

// SetReader replaces the body of the message with the given reader. The
// new content is assumed to be in decoded form, so WriteTo() will apply
// whatever Content-transfer-encoding the header declares.
func (m *Opaque) SetReader(r io.Reader) {
	m.Reader = r
	m.encoded = false
}

// AttachmentFile is a constructor that will create an Opaque attachment
// from the given file path and MIME type. The base name of the path becomes
// the attachment filename. It returns an error if the file cannot be
// opened.
//
// The last argument is the transfer encoding to use. Use transfer.None if
// you do not want to set a transfer encoding.
func AttachmentFile(fn, mt, te string) (*Opaque, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}

	m := &Opaque{}
	m.Reader = f
	m.SetMediaType(mt)
	m.SetDisposition("attachment")
	m.SetFilename(filepath.Base(fn))

	if te != transfer.None {
		m.SetTransferEncoding(te)
	}

	return m, nil
}
