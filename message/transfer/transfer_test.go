package transfer_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillmail/go-mimeutil/message/header"
	"github.com/quillmail/go-mimeutil/message/transfer"
)

func decodeAll(t *testing.T, cte, in string) (string, error) {
	t.Helper()
	out, err := io.ReadAll(transfer.Decode(strings.NewReader(in), cte))
	return string(out), err
}

func TestAsIsDecoding(t *testing.T) {
	t.Parallel()

	for _, cte := range []string{
		transfer.None, transfer.Bit7, transfer.Bit8, transfer.Binary,
		"x-unknown-encoding",
	} {
		out, err := decodeAll(t, cte, "bytes pass through\x00\xff")
		assert.NoError(t, err)
		assert.Equal(t, "bytes pass through\x00\xff", out)
	}
}

func TestBase64Decoding(t *testing.T) {
	t.Parallel()

	out, err := decodeAll(t, transfer.Base64, "aGVsbG8gd29ybGQ=")
	assert.NoError(t, err)
	assert.Equal(t, "hello world", out)

	// embedded line breaks and whitespace are tolerated
	out, err = decodeAll(t, transfer.Base64, "aGVs\r\nbG8g\n d2  9y\tbGQ=\r\n")
	assert.NoError(t, err)
	assert.Equal(t, "hello world", out)
}

func TestBase64DecodingCorrupt(t *testing.T) {
	t.Parallel()

	_, err := decodeAll(t, transfer.Base64, "!!!not base64!!!")
	require.Error(t, err)

	var derr *transfer.DecodeError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, transfer.Base64, derr.Encoding)

	// truncated payload, not a multiple of four after whitespace strip
	_, err = decodeAll(t, transfer.Base64, "aGVsbG8gd29ybGQ")
	assert.Error(t, err)
}

func TestBase64RoundTrip(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte{0x00, 0x01, 0xfe, 0xff, 'q'}, 50)

	buf := &bytes.Buffer{}
	w := transfer.NewBase64Encoder(buf)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// encoded output is wrapped into conventional line lengths
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len(line), 76)
	}

	got, err := io.ReadAll(transfer.NewBase64Decoder(buf))
	assert.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestBase64EncoderBreaksFilledLines(t *testing.T) {
	t.Parallel()

	// 57 payload bytes encode to exactly one 76-character line, so two
	// such writes must still come out as two lines, with the break
	// emitted the moment the first line fills
	chunk := bytes.Repeat([]byte{'x', 'y', 'z'}, 19)

	buf := &bytes.Buffer{}
	w := transfer.NewBase64Encoder(buf)
	_, err := w.Write(chunk)
	require.NoError(t, err)
	_, err = w.Write(chunk)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Len(t, line, 76)
	}

	got, err := io.ReadAll(transfer.NewBase64Decoder(buf))
	assert.NoError(t, err)
	assert.Equal(t, append(append([]byte{}, chunk...), chunk...), got)
}

func TestQuotedPrintableDecoding(t *testing.T) {
	t.Parallel()

	out, err := decodeAll(t, transfer.QuotedPrintable, "foo=20bar")
	assert.NoError(t, err)
	assert.Equal(t, "foo bar", out)

	// lowercase hex works too
	out, err = decodeAll(t, transfer.QuotedPrintable, "caf=e9")
	assert.NoError(t, err)
	assert.Equal(t, "caf\xe9", out)

	// a soft line break joins wrapped physical lines
	out, err = decodeAll(t, transfer.QuotedPrintable, "foo=\r\nbar")
	assert.NoError(t, err)
	assert.Equal(t, "foobar", out)

	// a hard line break is content
	out, err = decodeAll(t, transfer.QuotedPrintable, "foo\r\nbar")
	assert.NoError(t, err)
	assert.Equal(t, "foo\r\nbar", out)
}

func TestQuotedPrintableMalformed(t *testing.T) {
	t.Parallel()

	// a malformed escape emits the literal "=" and processing resumes at
	// the next byte, it never fails the stream
	for in, want := range map[string]string{
		"foo=XYbar":  "foo=XYbar",
		"foo=4Zbar":  "foo=4Zbar",
		"foo=\rbar":  "foo=\rbar",
		"foo=\nbar":  "foo=\nbar",
		"trailing=":  "trailing=",
		"trailing=4": "trailing=4",
		"=3D=41":     "=A",
		// the pushed-back "=" is reprocessed and starts a fresh escape
		"==41": "=A",
	} {
		out, err := decodeAll(t, transfer.QuotedPrintable, in)
		assert.NoError(t, err, "input %q", in)
		assert.Equal(t, want, out, "input %q", in)
	}
}

func TestQuotedPrintableRoundTrip(t *testing.T) {
	t.Parallel()

	text := "héllo wörld, this = that\r\nand a second line"

	buf := &bytes.Buffer{}
	w := transfer.NewQuotedPrintableEncoder(buf)
	_, err := io.WriteString(w, text)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, err := io.ReadAll(transfer.NewQuotedPrintableDecoder(buf))
	assert.NoError(t, err)
	assert.Equal(t, text, string(got))
}

// failReader returns an I/O error after the leading bytes are consumed.
type failReader struct {
	r   io.Reader
	err error
}

func (fr *failReader) Read(p []byte) (int, error) {
	n, err := fr.r.Read(p)
	if err == io.EOF {
		err = fr.err
	}
	return n, err
}

func TestStreamErrorsPropagate(t *testing.T) {
	t.Parallel()

	cause := errors.New("socket closed")

	src := &failReader{strings.NewReader("foo=20bar"), cause}
	out, err := io.ReadAll(transfer.NewQuotedPrintableDecoder(src))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "foo bar", string(out))

	src = &failReader{strings.NewReader("aGVsbG8g"), cause}
	_, err = io.ReadAll(transfer.NewBase64Decoder(src))
	assert.ErrorIs(t, err, cause)
}

func TestApplyTransferDecoding(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.SetMediaType("text/plain")
	h.Set(header.ContentTransferEncoding, "Quoted-Printable")

	out, err := io.ReadAll(transfer.ApplyTransferDecoding(h, strings.NewReader("a=20b")))
	assert.NoError(t, err)
	assert.Equal(t, "a b", string(out))

	// a multipart part never has its own transfer encoding applied
	mh := &header.Header{}
	mh.SetMediaType("multipart/mixed")
	mh.Set(header.ContentTransferEncoding, "base64")

	out, err = io.ReadAll(transfer.ApplyTransferDecoding(mh, strings.NewReader("not base64")))
	assert.NoError(t, err)
	assert.Equal(t, "not base64", string(out))

	// no declared encoding reads as-is
	nh := &header.Header{}
	out, err = io.ReadAll(transfer.ApplyTransferDecoding(nh, strings.NewReader("plain")))
	assert.NoError(t, err)
	assert.Equal(t, "plain", string(out))
}

// closeTracker records whether the decoder ever closed the caller's stream.
type closeTracker struct {
	io.Reader
	closed bool
}

func (ct *closeTracker) Close() error {
	ct.closed = true
	return nil
}

func TestDecodersNeverCloseCallerStream(t *testing.T) {
	t.Parallel()

	for _, cte := range []string{
		transfer.Base64, transfer.QuotedPrintable, transfer.Bit7,
	} {
		ct := &closeTracker{Reader: strings.NewReader("aGVsbG8=")}
		_, _ = io.ReadAll(transfer.Decode(ct, cte))
		assert.False(t, ct.closed, "decoder for %q closed the stream", cte)
	}
}
