package header

import (
	"bytes"

	"github.com/quillmail/go-mimeutil/message/header/field"
)

// Parse reads the given bytes as an email header using the given line
// break. Folded field bodies are stored as-is, fold breaks included, so the
// original header can round-trip; unfolding and decoding happen at read
// time.
//
// Parsing is lenient: a line that does not look like a header field at all
// (no colon) is dropped rather than failing the whole header, because a
// message with a slightly mangled header still has to be displayed.
func Parse(m []byte, lb Break) *Header {
	lines := bytes.Split(m, lb.Bytes())

	// rejoin continuation lines with their break so bodies stay raw
	logical := make([][]byte, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		isFold := line[0] == ' ' || line[0] == '\t'
		if isFold && len(logical) > 0 {
			prev := logical[len(logical)-1]
			prev = append(prev, lb.Bytes()...)
			logical[len(logical)-1] = append(prev, line...)
			continue
		}
		dup := make([]byte, len(line))
		copy(dup, line)
		logical = append(logical, dup)
	}

	h := &Header{}
	h.SetBreak(lb)

	for _, line := range logical {
		colon := bytes.IndexByte(line, ':')
		if colon < 0 {
			continue
		}

		name := string(bytes.TrimSpace(line[:colon]))
		body := line[colon+1:]
		if len(body) > 0 && body[0] == ' ' {
			body = body[1:]
		}

		if name == "" {
			continue
		}

		h.Base.fields = append(h.Base.fields, field.New(name, string(body)))
	}

	return h
}
