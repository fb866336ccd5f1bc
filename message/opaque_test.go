package message_test

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillmail/go-mimeutil/message"
	"github.com/quillmail/go-mimeutil/message/transfer"
)

func makeSimple() (*message.Buffer, string, error) {
	buf := &message.Buffer{}

	buf.SetSubject("test simple")
	buf.SetMediaType("text/plain")

	const expect = "Subject: test simple\r\n" +
		"Content-type: text/plain\r\n" +
		"\r\n" +
		"This is a simple message.\r\n"

	_, err := fmt.Fprint(buf, "This is a simple message.\r\n")

	return buf, expect, err
}

func TestOpaque(t *testing.T) {
	t.Parallel()

	buf, expect, err := makeSimple()
	assert.NoError(t, err)

	m := buf.Opaque()

	assert.Equal(t, &m.Header, m.GetHeader())
	assert.Nil(t, m.GetParts())
	assert.NotNil(t, m.GetReader())
	assert.False(t, m.IsMultipart())
	assert.False(t, m.IsEncoded())

	out := &bytes.Buffer{}
	n, err := m.WriteTo(out)
	assert.NoError(t, err)
	assert.Equal(t, int64(len(expect)), n)
	assert.Equal(t, expect, out.String())
}

func makeSimpleWithEncoding() (*message.Buffer, string, string, error) {
	buf := &message.Buffer{}

	buf.SetSubject("test simple")
	buf.SetTransferEncoding("quoted-printable")
	buf.SetMediaType("text/plain")

	const (
		expect = "Subject: test simple\r\n" +
			"Content-transfer-encoding: quoted-printable\r\n" +
			"Content-type: text/plain\r\n" +
			"\r\n"
		encoded = "I =E2=9D=A4 email!\r\n"
		decoded = "I ❤ email!\r\n"
	)

	_, err := fmt.Fprint(buf, decoded)

	return buf, expect + encoded, expect + decoded, err
}

func TestOpaque_TransferEncodingEncoded(t *testing.T) {
	t.Parallel()

	buf, expectEnc, _, err := makeSimpleWithEncoding()
	assert.NoError(t, err)

	m := buf.Opaque()

	assert.False(t, m.IsEncoded())

	// WriteTo applies the declared transfer encoding on the way out
	out := &bytes.Buffer{}
	_, err = m.WriteTo(out)
	assert.NoError(t, err)
	assert.Equal(t, expectEnc, out.String())
}

func TestOpaque_TransferEncodingAlreadyEncoded(t *testing.T) {
	t.Parallel()

	buf, _, expectDec, err := makeSimpleWithEncoding()
	assert.NoError(t, err)

	// The content is not actually encoded, but that is the point: marking
	// it already-encoded means WriteTo must not touch it.
	m := buf.OpaqueAlreadyEncoded()

	assert.True(t, m.IsEncoded())

	out := &bytes.Buffer{}
	_, err = m.WriteTo(out)
	assert.NoError(t, err)
	assert.Equal(t, expectDec, out.String())
}

func TestOpaque_SetReader(t *testing.T) {
	t.Parallel()

	buf, _, err := makeSimple()
	assert.NoError(t, err)

	m := buf.Opaque()
	m.SetReader(strings.NewReader("replacement body\r\n"))

	body, err := io.ReadAll(m.GetReader())
	assert.NoError(t, err)
	assert.Equal(t, "replacement body\r\n", string(body))
}

func TestAttachmentFile(t *testing.T) {
	t.Parallel()

	fn := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(fn, []byte("attachment content"), 0o644))

	m, err := message.AttachmentFile(fn, "text/plain", transfer.Base64)
	require.NoError(t, err)

	mt, err := m.GetMediaType()
	assert.NoError(t, err)
	assert.Equal(t, "text/plain", mt)

	d, err := m.GetDisposition()
	assert.NoError(t, err)
	assert.Equal(t, "attachment", d)

	gfn, err := m.GetFilename()
	assert.NoError(t, err)
	assert.Equal(t, "notes.txt", gfn)

	cte, err := m.GetTransferEncoding()
	assert.NoError(t, err)
	assert.Equal(t, transfer.Base64, cte)

	body, err := io.ReadAll(m.GetReader())
	assert.NoError(t, err)
	assert.Equal(t, "attachment content", string(body))
}
