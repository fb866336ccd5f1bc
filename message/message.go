package message

import (
	"io"

	"github.com/quillmail/go-mimeutil/message/header"
)

// Part is the interface for one node of a message tree. Each Part is either
// a branch or a leaf.
//
// A branch Part has sub-parts: IsMultipart() returns true, GetParts()
// returns the sub-parts, and GetReader() returns nil.
//
// A leaf Part carries content: IsMultipart() returns false, GetReader()
// returns a reader for the content, and GetParts() returns nil.
//
// Note that a leaf can still contain a serialized multipart message as
// content, when the input was parsed with a depth limit or the sub-parts
// were never broken out. That is perfectly legal.
type Part interface {
	io.WriterTo

	// IsMultipart returns true if this Part is a branch with nested parts.
	// Call GetParts() only when this returns true and GetReader() only when
	// it returns false. Checking the return values of those methods for nil
	// works just as well.
	IsMultipart() bool

	// IsEncoded returns true if the reader returned from GetReader() still
	// carries the Content-transfer-encoding, and false if that encoding has
	// been decoded. A false value does not mean the bytes actually changed:
	// an encoding like "8bit" passes the data through either way. A branch
	// Part always returns false, transfer encodings do not apply to parts
	// with sub-parts.
	IsEncoded() bool

	// GetHeader is available on all Part objects.
	GetHeader() *header.Header

	// GetReader provides the content of a leaf Part. It returns nil when
	// IsMultipart() returns true.
	GetReader() io.Reader

	// GetParts provides the sub-parts of a branch Part. It returns nil when
	// IsMultipart() returns false.
	GetParts() []Part
}

// Generic is just an alias for Part, which is intended to convey additional
// semantics:
//
// 1. The message returned is not necessarily a sub-part of a message.
//
// 2. The returned message is guaranteed to either be a *Opaque or a
// *Multipart. Therefore, it is safe to use this in a type-switch and only
// look for either of those two objects.
type Generic = Part
