package transfer

import "io"

// NewAsIsEncoder returns an io.WriteCloser that passes bytes through
// untouched. The 7bit, 8bit, and binary transfer encodings all carry the
// body verbatim, so they share this transcoder, as does any encoding token
// we do not recognize.
func NewAsIsEncoder(w io.Writer) io.WriteCloser {
	return &writer{w, nil}
}

// NewAsIsDecoder returns the given io.Reader unchanged. Identity encodings
// have nothing to undo.
func NewAsIsDecoder(r io.Reader) io.Reader {
	return r
}
