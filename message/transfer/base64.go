package transfer

import (
	"encoding/base64"
	"errors"
	"io"
)

const defaultBase64LineLength = 76

var defaultBase64LineBreak = []byte{'\n'}

// newlineWriter inserts a line break every N bytes of encoded output so
// encoded bodies stay within conventional line lengths.
type newlineWriter struct {
	every int
	acc   int
	lbr   []byte
	w     io.Writer
}

func (nw *newlineWriter) Write(b []byte) (int, error) {
	ix, n := 0, 0
	for len(b[ix:])+nw.acc >= nw.every {
		ln, err := nw.w.Write(b[ix : ix+(nw.every-nw.acc)])
		n += ln
		if err != nil {
			return n, err
		}

		// break as soon as the line fills, even when a write ends exactly
		// at the line boundary
		_, err = nw.w.Write(nw.lbr)
		if err != nil {
			return n, err
		}

		ix += nw.every - nw.acc
		nw.acc = 0
	}

	ln, err := nw.w.Write(b[ix:])
	n += ln
	if err != nil {
		return n, err
	}

	nw.acc += len(b[ix:])

	return n, nil
}

// Close terminates a partial final line with a line break. The underlying
// writer stays open, its lifetime belongs to the caller.
func (nw *newlineWriter) Close() error {
	if nw.acc == 0 {
		return nil
	}
	_, err := nw.w.Write(nw.lbr)
	return err
}

// NewBase64Encoder will translate all bytes written to the returned
// io.WriteCloser into base64 encoding and write those to the given
// io.Writer. Close flushes the final partial block and terminates the last
// line.
func NewBase64Encoder(w io.Writer) io.WriteCloser {
	nw := &newlineWriter{
		every: defaultBase64LineLength,
		lbr:   defaultBase64LineBreak,
		w:     w,
	}
	enc := base64.NewEncoder(base64.StdEncoding, nw)
	return &writer{enc, closers{enc, nw}}
}

// lwspFilter strips linear whitespace from the stream so that the line
// breaks conventionally embedded in encoded bodies do not corrupt the
// decode.
type lwspFilter struct {
	r io.Reader
}

func (f *lwspFilter) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := f.r.Read(p)

		w := 0
		for i := 0; i < n; i++ {
			switch p[i] {
			case ' ', '\t', '\r', '\n':
			default:
				p[w] = p[i]
				w++
			}
		}

		if w > 0 || err != nil {
			return w, err
		}
		// everything read was whitespace, go around again
	}
}

// base64Reader converts corruption errors from the underlying base64
// decoder into *DecodeError so callers can tell "this payload is not
// base64" apart from a plain I/O failure, which passes through unchanged.
type base64Reader struct {
	r io.Reader
}

func (br *base64Reader) Read(p []byte) (int, error) {
	n, err := br.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		var corrupt base64.CorruptInputError
		if errors.As(err, &corrupt) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = &DecodeError{Encoding: Base64, cause: err}
		}
	}
	return n, err
}

// NewBase64Decoder will read bytes from the given io.Reader, skipping any
// embedded whitespace, and return the decoded binary data from the returned
// io.Reader. After whitespace stripping, the payload must be valid
// standard-alphabet base64 with acceptable padding; anything else fails the
// read with a *DecodeError.
func NewBase64Decoder(r io.Reader) io.Reader {
	return &base64Reader{
		base64.NewDecoder(base64.StdEncoding, &lwspFilter{r}),
	}
}
