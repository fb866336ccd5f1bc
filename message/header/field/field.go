// Package field implements a single header field and the text transforms
// that apply to one: RFC 2822 unfolding and folding, and RFC 2047 encoded
// word decoding and encoding. Each transform has an identity fast path that
// returns its input untouched when there is nothing to do, so callers can
// run every header through these without paying for copies of plain ASCII
// values.
package field

import "fmt"

// Field is a single header field, a name and an unfolded body stored as an
// opaque string. Decoding of the body is always a read-time transform and
// never changes what is stored.
type Field struct {
	name string
	body string
}

// New constructs a field with the given name and body.
func New(name, body string) *Field {
	return &Field{name, body}
}

// Name returns the name of the header field.
func (f *Field) Name() string {
	return f.name
}

// SetName updates the name of the header field.
func (f *Field) SetName(name string) {
	f.name = name
}

// Body returns the raw value of the header field as stored. It may contain
// encoded words.
func (f *Field) Body() string {
	return f.body
}

// SetBody updates the body of the header field.
func (f *Field) SetBody(body string) {
	f.body = body
}

// String returns the complete header field, folded and encoded for the wire.
func (f *Field) String() string {
	return fmt.Sprintf("%s: %s", f.name, FoldAndEncode(f.body, len(f.name)+2))
}

// Bytes returns the complete header field as a slice of bytes.
func (f *Field) Bytes() []byte {
	return []byte(f.String())
}
