package message

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/quillmail/go-mimeutil/message/header"
)

// DefaultMultipartContentType is the Content-type to use with a multipart
// message when no explicit Content-type header has been set.
const DefaultMultipartContentType = "multipart/mixed"

// BufferMode describes how a Buffer has been used so far.
type BufferMode int

const (
	// ModeUnset indicates that the Buffer has not yet been modified.
	ModeUnset BufferMode = iota

	// ModeSingle indicates that the Buffer has been used as an io.Writer.
	ModeSingle

	// ModeMultipart indicates that the Buffer has had parts added.
	ModeMultipart
)

var (
	// ErrPartsBuffer is returned by Write() if that method is called after
	// calling the Add() method.
	ErrPartsBuffer = errors.New("message buffer is in parts mode")

	// ErrOpaqueBuffer is returned by Add() if that method is called after
	// calling the Write() method.
	ErrOpaqueBuffer = errors.New("message buffer is in opaque mode")

	// ErrModeUnset is returned by Opaque() and Multipart() when they are
	// called before anything has been written to the current buffer.
	ErrModeUnset = errors.New("no message has been built")

	// ErrParsesAsNotMultipart is returned by Multipart() when the Buffer is
	// in ModeSingle and the written message is not a multipart message.
	ErrParsesAsNotMultipart = errors.New("cannot parse non-multipart message as multipart")
)

// Buffer provides tools for constructing messages. It operates in one of
// two modes, depending on how you start using it.
//
// In single mode, entered by using the Buffer as an io.Writer, the message
// body is treated as a plain collection of bytes.
//
// In multipart mode, entered by calling Add(), the message is treated as a
// collection of sub-parts.
//
// The two modes are exclusive: Write() after Add() panics with
// ErrPartsBuffer and Add() after Write() panics with ErrOpaqueBuffer. The
// current mode may be checked with Mode().
//
// Whatever the mode, call either Opaque() or Multipart() to get the
// constructed message at the end.
type Buffer struct {
	header.Header
	parts []Part
	buf   *bytes.Buffer
}

// Mode returns a constant indicating how this Buffer has been used.
// Until a modification method is called, this returns ModeUnset.
func (b *Buffer) Mode() BufferMode {
	switch {
	case b.parts != nil:
		return ModeMultipart
	case b.buf != nil:
		return ModeSingle
	}
	return ModeUnset
}

// SetMultipart sets the Mode of the buffer to ModeMultipart and
// pre-allocates capacity for the given number of parts. This is useful
// during message transformation or when the multipart message is expected
// to be empty. It panics if the mode is already ModeSingle.
func (b *Buffer) SetMultipart(capacity int) {
	if err := b.initParts(capacity); err != nil {
		panic(err)
	}
}

// SetSingle sets the Mode of the buffer to ModeSingle. This is useful
// during message transformation, especially if the message content is to
// be empty. It panics if the mode is already ModeMultipart.
func (b *Buffer) SetSingle() {
	if err := b.initBuffer(); err != nil {
		panic(err)
	}
}

func (b *Buffer) initBuffer() error {
	if b.parts != nil {
		return ErrPartsBuffer
	}
	if b.buf == nil {
		b.buf = &bytes.Buffer{}
	}
	return nil
}

func (b *Buffer) initParts(capacity int) error {
	if capacity == 0 {
		capacity = 10
	}
	if b.buf != nil {
		return ErrOpaqueBuffer
	}
	if b.parts == nil {
		b.parts = make([]Part, 0, capacity)
	}
	return nil
}

// Add will add one or more parts to the message. It panics if called after
// the Buffer has been used as an io.Writer.
func (b *Buffer) Add(msgs ...Part) {
	if err := b.initParts(0); err != nil {
		panic(err)
	}
	b.parts = append(b.parts, msgs...)
}

// Write implements io.Writer so you can write the message body to this
// buffer. It panics if called after Add().
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.initBuffer(); err != nil {
		panic(err)
	}
	return b.buf.Write(p)
}

// prepareForMultipartOutput fills in the Content-type and boundary when the
// caller has not set them.
func (b *Buffer) prepareForMultipartOutput() {
	if _, err := b.GetMediaType(); errors.Is(err, header.ErrNoSuchField) {
		b.SetMediaType(DefaultMultipartContentType)
	}

	if _, err := b.GetBoundary(); errors.Is(err, header.ErrNoSuchFieldParameter) {
		_ = b.SetBoundary(GenerateBoundary())
	}
}

// Opaque will return an Opaque message based upon the content written to
// the Buffer. It panics if the BufferMode is ModeUnset.
//
// In ModeSingle, the Header and the bytes written to the internal buffer
// are returned in the *Opaque as-is.
//
// In ModeMultipart, the parts are serialized into a byte buffer and that is
// attached with the Header to the returned *Opaque. In this case you should
// set the Content-type header to one of the multipart/* types yourself; if
// you do not, it is set to DefaultMultipartContentType, and a random
// boundary is generated if the Content-type has none.
//
// After this method is called, the Buffer should be disposed of and no
// longer used.
func (b *Buffer) Opaque() *Opaque {
	switch b.Mode() {
	case ModeSingle:
		return &Opaque{
			Header: b.Header,
			Reader: b.buf,
		}
	case ModeMultipart:
		b.prepareForMultipartOutput()
		boundary, _ := b.GetBoundary()

		buf := &bytes.Buffer{}
		if len(b.parts) > 0 {
			for _, part := range b.parts {
				_, _ = fmt.Fprintf(buf, "--%s%s", boundary, b.Break())
				_, _ = part.WriteTo(buf)
				_, _ = fmt.Fprint(buf, b.Break())
			}
			_, _ = fmt.Fprintf(buf, "--%s--", boundary)
		}

		return &Opaque{
			Header: b.Header,
			Reader: buf,
		}
	case ModeUnset:
		panic(ErrModeUnset)
	}
	panic("unknown buffer mode")
}

// OpaqueAlreadyEncoded works just like Opaque(), but marks the object as
// already having the Content-transfer-encoding applied. Use this when you
// have written the message body in encoded form.
//
// NOTE: This does not perform any encoding! If you want the output to be
// automatically encoded, call Opaque() instead and WriteTo() on the
// returned object will perform the encoding.
func (b *Buffer) OpaqueAlreadyEncoded() *Opaque {
	msg := b.Opaque()
	if msg != nil {
		msg.encoded = true
	}
	return msg
}

// Multipart will return a Multipart message based upon the content written
// to the Buffer. It panics if the BufferMode is ModeUnset.
//
// In ModeSingle, the written bytes must themselves parse as a multipart
// message, which this method attempts with a single level of recursion.
// Errors from that parse are returned. If the content parses but is not
// multipart, this returns nil with ErrParsesAsNotMultipart.
//
// In ModeMultipart, the Header and collected parts are returned in the
// *Multipart directly. As with Opaque(), a missing Content-type or
// boundary is filled in first.
//
// After this method is called, the Buffer should be disposed of and no
// longer used.
func (b *Buffer) Multipart() (*Multipart, error) {
	b.prepareForMultipartOutput()
	switch b.Mode() {
	case ModeSingle:
		msg := &Opaque{b.Header, b.buf, false}
		pr := defaultParser.clone()
		WithoutRecursion()(pr)
		gmsg, err := pr.parse(msg, 0)
		switch vmsg := gmsg.(type) {
		case *Opaque:
			if err != nil {
				return nil, err
			}
			return nil, ErrParsesAsNotMultipart
		case *Multipart:
			return vmsg, err
		}
		return nil, errors.New("generic message came back as something other than Opaque or Multipart")
	case ModeMultipart:
		return &Multipart{
			Header: b.Header,
			prefix: []byte{},
			suffix: []byte{},
			parts:  b.parts,
		}, nil
	case ModeUnset:
		panic(ErrModeUnset)
	}
	panic("unknown buffer mode")
}
