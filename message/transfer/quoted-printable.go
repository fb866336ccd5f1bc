package transfer

import (
	"bufio"
	"io"
	"mime/quotedprintable"
)

// NewQuotedPrintableEncoder will transform all bytes written to the
// returned io.WriteCloser into quoted-printable form and write them to the
// given io.Writer.
func NewQuotedPrintableEncoder(w io.Writer) io.WriteCloser {
	qpw := quotedprintable.NewWriter(w)
	return &writer{qpw, qpw}
}

// NewQuotedPrintableDecoder will read bytes from the given io.Reader and
// return them decoded from quoted-printable form.
//
// The decoder is a three-state machine over the input bytes. Outside an
// escape, bytes pass through unchanged. An "=" begins an escape: "=" CR LF
// is a soft line break and emits nothing, joining the wrapped physical
// lines; "=" followed by two hex digits emits the encoded byte. A malformed
// escape never fails the stream. The literal "=" is emitted and processing
// resumes in the normal state at the byte after it, so sloppy real-world
// content still displays. (The stdlib mime/quotedprintable reader is not
// used here precisely because it reports malformed escapes as errors.)
//
// Only a failure of the underlying stream can error a read.
func NewQuotedPrintableDecoder(r io.Reader) io.Reader {
	return &qpReader{r: bufio.NewReader(r)}
}

type qpReader struct {
	r    *bufio.Reader
	pend []byte // bytes pushed back for reprocessing after a malformed escape
	err  error  // sticky stream error
}

func (q *qpReader) readByte() (byte, bool) {
	if len(q.pend) > 0 {
		b := q.pend[0]
		q.pend = q.pend[1:]
		return b, true
	}

	if q.err != nil {
		return 0, false
	}

	b, err := q.r.ReadByte()
	if err != nil {
		q.err = err
		return 0, false
	}
	return b, true
}

func (q *qpReader) pushBack(bs ...byte) {
	q.pend = append(bs, q.pend...)
}

func (q *qpReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		b, ok := q.readByte()
		if !ok {
			if n > 0 {
				return n, nil
			}
			return 0, q.err
		}

		if b != '=' {
			p[n] = b
			n++
			continue
		}

		// saw "=", read the first escape byte
		b1, ok := q.readByte()
		if !ok {
			p[n] = '='
			n++
			continue
		}

		if b1 == '\r' {
			// a soft line break is exactly "=" CR LF
			b2, ok := q.readByte()
			if ok && b2 == '\n' {
				continue
			}
			if ok {
				q.pushBack('\r', b2)
			} else {
				q.pushBack('\r')
			}
			p[n] = '='
			n++
			continue
		}

		hi, hiOK := unhex(b1)
		if !hiOK {
			q.pushBack(b1)
			p[n] = '='
			n++
			continue
		}

		// saw "=" plus one hex digit, read the second
		b2, ok := q.readByte()
		if !ok {
			q.pushBack(b1)
			p[n] = '='
			n++
			continue
		}

		lo, loOK := unhex(b2)
		if !loOK {
			q.pushBack(b1, b2)
			p[n] = '='
			n++
			continue
		}

		p[n] = hi<<4 | lo
		n++
	}
	return n, nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
