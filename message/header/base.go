package header

import (
	"io"
	"strings"

	"github.com/quillmail/go-mimeutil/message/header/field"
)

// Base provides the low-level storage of header fields: an ordered list of
// name/body pairs with case-insensitive lookup by name. A name may appear
// more than once; document order is preserved for all operations.
type Base struct {
	lbr    Break
	fields []*field.Field
}

// Break returns the line break used by this header, defaulting to CRLF when
// none has been set.
func (b *Base) Break() Break {
	if b.lbr == Meh {
		return CRLF
	}
	return b.lbr
}

// SetBreak changes the line break to use with this header.
func (b *Base) SetBreak(lbr Break) {
	b.lbr = lbr
}

// Len returns the number of header fields.
func (b *Base) Len() int {
	return len(b.fields)
}

// GetField returns the nth field or nil if there is no such field.
func (b *Base) GetField(n int) *field.Field {
	if n < 0 || n >= len(b.fields) {
		return nil
	}
	return b.fields[n]
}

// GetIndexesNamed returns the indexes of all fields with the given name,
// matched case-insensitively, in document order.
func (b *Base) GetIndexesNamed(name string) []int {
	ixs := make([]int, 0, 1)
	for i, f := range b.fields {
		if strings.EqualFold(f.Name(), name) {
			ixs = append(ixs, i)
		}
	}
	return ixs
}

// GetAllFieldsNamed returns all fields with the given name, matched
// case-insensitively, in document order.
func (b *Base) GetAllFieldsNamed(name string) []*field.Field {
	fs := make([]*field.Field, 0, 1)
	for _, f := range b.fields {
		if strings.EqualFold(f.Name(), name) {
			fs = append(fs, f)
		}
	}
	return fs
}

// Add appends a field with the given name and body to the end of the
// header.
func (b *Base) Add(name, body string) {
	b.fields = append(b.fields, field.New(name, body))
}

// Set replaces the body of the first field with the given name. Any other
// fields with that name are removed. If no field with the name exists, a new
// field is appended.
func (b *Base) Set(name, body string) {
	ixs := b.GetIndexesNamed(name)
	if len(ixs) == 0 {
		b.Add(name, body)
		return
	}

	b.fields[ixs[0]].SetBody(body)
	for i := len(ixs) - 1; i >= 1; i-- {
		b.fields = append(b.fields[:ixs[i]], b.fields[ixs[i]+1:]...)
	}
}

// Delete removes all fields with the given name. It is not an error to
// delete a name that is not present.
func (b *Base) Delete(name string) {
	keep := b.fields[:0]
	for _, f := range b.fields {
		if !strings.EqualFold(f.Name(), name) {
			keep = append(keep, f)
		}
	}
	b.fields = keep
}

// Clone returns a deep copy of the header storage.
func (b *Base) Clone() *Base {
	fields := make([]*field.Field, len(b.fields))
	for i, f := range b.fields {
		nf := *f
		fields[i] = &nf
	}
	return &Base{b.lbr, fields}
}

// WriteTo serializes the header to the given io.Writer, each field folded
// and encoded for the wire, followed by the blank line that ends a header.
func (b *Base) WriteTo(w io.Writer) (int64, error) {
	lbr := b.Break().String()

	var total int64
	for _, f := range b.fields {
		n, err := io.WriteString(w, f.String()+lbr)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	n, err := io.WriteString(w, lbr)
	total += int64(n)
	return total, err
}
