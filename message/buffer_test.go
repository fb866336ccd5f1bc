package message_test

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillmail/go-mimeutil/message"
)

func TestBufferMode(t *testing.T) {
	t.Parallel()

	b := &message.Buffer{}
	assert.Equal(t, message.ModeUnset, b.Mode())

	_, err := fmt.Fprint(b, "some bytes")
	assert.NoError(t, err)
	assert.Equal(t, message.ModeSingle, b.Mode())

	assert.Panics(t, func() {
		b.Add(message.MultipartMixed())
	})
}

func TestBufferMode_Multipart(t *testing.T) {
	t.Parallel()

	b := &message.Buffer{}
	b.Add(textPart("one"))
	assert.Equal(t, message.ModeMultipart, b.Mode())

	assert.Panics(t, func() {
		_, _ = fmt.Fprint(b, "some bytes")
	})
}

func TestBufferMode_Unset(t *testing.T) {
	t.Parallel()

	b := &message.Buffer{}
	assert.Panics(t, func() { _ = b.Opaque() })
}

func TestBuffer_Multipart(t *testing.T) {
	t.Parallel()

	b := &message.Buffer{}
	b.SetSubject("parts")
	b.Add(textPart("one"), textPart("two"))

	m, err := b.Multipart()
	require.NoError(t, err)

	// unset Content-type and boundary are filled in
	mt, err := m.GetMediaType()
	assert.NoError(t, err)
	assert.Equal(t, message.DefaultMultipartContentType, mt)

	boundary, err := m.GetBoundary()
	assert.NoError(t, err)
	assert.NotEmpty(t, boundary)

	assert.Len(t, m.GetParts(), 2)
}

func TestBuffer_OpaqueFromParts(t *testing.T) {
	t.Parallel()

	b := &message.Buffer{}
	b.SetMediaType("multipart/alternative")
	b.Add(textPart("one"), textPart("two"))

	m := b.Opaque()

	boundary, err := m.GetBoundary()
	require.NoError(t, err)

	body, err := io.ReadAll(m.GetReader())
	assert.NoError(t, err)

	// the serialized parts are delimited by the generated boundary
	assert.True(t, strings.HasPrefix(string(body), "--"+boundary+"\r\n"))
	assert.True(t, strings.HasSuffix(string(body), "--"+boundary+"--"))
	assert.Contains(t, string(body), "one")
	assert.Contains(t, string(body), "two")
}

func TestBuffer_MultipartFromSingle(t *testing.T) {
	t.Parallel()

	b := &message.Buffer{}
	b.Set("Content-type", "multipart/mixed; boundary=\"mark\"")
	_, err := fmt.Fprint(b, "--mark\r\n"+
		"Content-type: text/plain\r\n"+
		"\r\n"+
		"written as bytes\r\n"+
		"--mark--\r\n")
	assert.NoError(t, err)

	m, err := b.Multipart()
	require.NoError(t, err)
	require.Len(t, m.GetParts(), 1)

	body, err := io.ReadAll(m.GetParts()[0].GetReader())
	assert.NoError(t, err)
	assert.Equal(t, "written as bytes", string(body))
}

func TestBuffer_MultipartFromSingleNotMultipart(t *testing.T) {
	t.Parallel()

	b := &message.Buffer{}
	b.SetMediaType("text/plain")
	_, err := fmt.Fprint(b, "just text")
	assert.NoError(t, err)

	_, err = b.Multipart()
	assert.ErrorIs(t, err, message.ErrParsesAsNotMultipart)
}

func TestBuffer_RoundTripThroughParse(t *testing.T) {
	t.Parallel()

	b := &message.Buffer{}
	b.SetSubject("assembled")
	b.SetMediaType("multipart/alternative")
	b.Add(textPart("plain form"), textPart("fancy form"))

	out := &bytes.Buffer{}
	_, err := b.Opaque().WriteTo(out)
	require.NoError(t, err)

	m, err := message.Parse(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)

	mm, isMultipart := m.(*message.Multipart)
	require.True(t, isMultipart)
	require.Len(t, mm.GetParts(), 2)

	body, err := io.ReadAll(mm.GetParts()[1].GetReader())
	assert.NoError(t, err)
	assert.Equal(t, "fancy form", string(body))
}
