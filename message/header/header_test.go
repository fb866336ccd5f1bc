package header_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillmail/go-mimeutil/message/header"
)

func TestBasicStorage(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.Add("To", "alice@example.com")
	h.Add("Received", "from a.example.com")
	h.Add("Received", "from b.example.com")

	v, err := h.Get("to")
	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", v)

	_, err = h.Get("Received")
	assert.ErrorIs(t, err, header.ErrManyFields)

	vs, err := h.GetAll("RECEIVED")
	assert.NoError(t, err)
	assert.Equal(t, []string{"from a.example.com", "from b.example.com"}, vs)

	_, err = h.Get("Cc")
	assert.ErrorIs(t, err, header.ErrNoSuchField)

	h.Set("Received", "replaced")
	vs, err = h.GetAll("Received")
	assert.NoError(t, err)
	assert.Equal(t, []string{"replaced"}, vs)

	h.Delete("Received")
	_, err = h.Get("Received")
	assert.ErrorIs(t, err, header.ErrNoSuchField)
}

func TestContentTypeAccessors(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.Set(header.ContentType, `text/html; charset="iso-8859-1"; boundary=abc123`)

	mt, err := h.GetMediaType()
	assert.NoError(t, err)
	assert.Equal(t, "text/html", mt)

	cs, err := h.GetCharset()
	assert.NoError(t, err)
	assert.Equal(t, "iso-8859-1", cs)

	b, err := h.GetBoundary()
	assert.NoError(t, err)
	assert.Equal(t, "abc123", b)

	empty := &header.Header{}
	_, err = empty.GetMediaType()
	assert.ErrorIs(t, err, header.ErrNoSuchField)

	h2 := &header.Header{}
	h2.SetMediaType("text/plain")
	_, err = h2.GetCharset()
	assert.ErrorIs(t, err, header.ErrNoSuchFieldParameter)

	require.NoError(t, h2.SetBoundary("xyz"))
	b, err = h2.GetBoundary()
	assert.NoError(t, err)
	assert.Equal(t, "xyz", b)
}

func TestContentID(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.Set(header.ContentID, "<cid.1@quillmail.example>")

	cid, err := h.GetContentID()
	assert.NoError(t, err)
	assert.Equal(t, "cid.1@quillmail.example", cid)

	// stored without brackets, same normalized result
	h.Set(header.ContentID, "cid.1@quillmail.example")
	cid, err = h.GetContentID()
	assert.NoError(t, err)
	assert.Equal(t, "cid.1@quillmail.example", cid)

	h2 := &header.Header{}
	h2.SetContentID("cid.2@quillmail.example")
	raw, err := h2.Get(header.ContentID)
	assert.NoError(t, err)
	assert.Equal(t, "<cid.2@quillmail.example>", raw)
}

func TestUnwrapContentID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a@b", header.UnwrapContentID("<a@b>"))
	assert.Equal(t, "a@b", header.UnwrapContentID("a@b"))
	assert.Equal(t, "a@b", header.UnwrapContentID("  <a@b> "))
	assert.Equal(t, "", header.UnwrapContentID(""))
}

func TestSubjectDecoding(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.Set(header.Subject, "=?UTF-8?B?4oaR4oaT4oaQ4oaS?=")

	s, err := h.GetSubject()
	assert.NoError(t, err)
	assert.Equal(t, "↑↓←→", s)

	// the stored value is untouched by the read-time decode
	raw, err := h.Get(header.Subject)
	assert.NoError(t, err)
	assert.Equal(t, "=?UTF-8?B?4oaR4oaT4oaQ4oaS?=", raw)
}

func TestGetTransferEncoding(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.Set(header.ContentTransferEncoding, " Base64 ")

	cte, err := h.GetTransferEncoding()
	assert.NoError(t, err)
	assert.Equal(t, "base64", cte)

	empty := &header.Header{}
	_, err = empty.GetTransferEncoding()
	assert.ErrorIs(t, err, header.ErrNoSuchField)
}

func TestGetTime(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.Set(header.Date, "Sat, 31 Jan 2015 03:23:09 +0000")

	d, err := h.GetDate()
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2015, 1, 31, 3, 23, 9, 0, time.UTC), d.UTC())

	// a format RFC 5322 parsers reject but the fallback chain accepts
	h.Set(header.Date, "2015-01-31 03:23:09")
	d, err = h.GetDate()
	assert.NoError(t, err)
	assert.Equal(t, 2015, d.Year())
}

func TestGetAddressList(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.Set(header.To, `"Alice Example" <alice@example.com>, bob@example.com`)

	al, err := h.GetAddressList(header.To)
	assert.NoError(t, err)
	require.Len(t, al, 2)
	assert.Equal(t, "alice@example.com", al[0].Address())
	assert.Equal(t, "Alice Example", al[0].DisplayName())
}

func TestParse(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"Subject: folded",
		" subject value",
		"Content-Type: multipart/mixed;",
		" boundary=\"b1\"",
		"X-Junk-Line-Without-A-Colon",
		"To: alice@example.com",
	}, "\r\n")

	h := header.Parse([]byte(raw), header.CRLF)

	// the folded body is stored raw and unfolded at read time
	s, err := h.Get("Subject")
	assert.NoError(t, err)
	assert.Equal(t, "folded\r\n subject value", s)

	s, err = h.GetDecoded("Subject")
	assert.NoError(t, err)
	assert.Equal(t, "folded subject value", s)

	b, err := h.GetBoundary()
	assert.NoError(t, err)
	assert.Equal(t, "b1", b)

	// junk is dropped, later fields survive
	v, err := h.Get("To")
	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", v)
	assert.Equal(t, 3, h.Len())
}

func TestWriteTo(t *testing.T) {
	t.Parallel()

	h := &header.Header{}
	h.Set(header.Subject, "Hello")
	h.Set(header.MIMEVersion, "1.0")

	var buf strings.Builder
	n, err := h.WriteTo(&buf)
	assert.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "Subject: Hello\r\nMIME-version: 1.0\r\n\r\n", buf.String())
}
