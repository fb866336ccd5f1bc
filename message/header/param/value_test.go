package param_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillmail/go-mimeutil/message/header/param"
)

const (
	headerNoParameter    = "header"
	headerMultiParameter = "header; Param1Name=Param1Value; Param2Name=Param2Value"
)

func TestGet(t *testing.T) {
	t.Parallel()

	// empty header yields nothing
	assert.Equal(t, "", param.Get("", "name"))

	// empty name yields the primary value, not the first parameter
	assert.Equal(t, "header", param.Get(headerMultiParameter, ""))
	assert.Equal(t, "header", param.Get(headerNoParameter, ""))

	// named lookup
	assert.Equal(t, "Param1Value", param.Get(headerMultiParameter, "Param1Name"))
	assert.Equal(t, "Param2Value", param.Get(headerMultiParameter, "Param2Name"))
	assert.Equal(t, "", param.Get(headerMultiParameter, "Param3Name"))

	// parameter names are case-insensitive
	assert.Equal(t, "Param2Value", param.Get(headerMultiParameter, "param2name"))
	assert.Equal(t, "Param2Value", param.Get(headerMultiParameter, "PARAM2NAME"))
}

func TestGetQuoted(t *testing.T) {
	t.Parallel()

	h := `multipart/mixed; boundary="----E5UGTXUQQJV80DR8SJ88F79BRA4S8K"`
	assert.Equal(t, "multipart/mixed", param.Get(h, ""))
	assert.Equal(t, "----E5UGTXUQQJV80DR8SJ88F79BRA4S8K", param.Get(h, "boundary"))
}

func TestParse(t *testing.T) {
	t.Parallel()

	pv := param.Parse(`text/html; charset="utf-8"; format=flowed`)
	assert.Equal(t, "text/html", pv.MediaType())
	assert.Equal(t, "text", pv.Type())
	assert.Equal(t, "html", pv.Subtype())
	assert.Equal(t, "utf-8", pv.Charset())
	assert.Equal(t, "flowed", pv.Parameter("Format"))
	assert.Equal(t, "", pv.Parameter("boundary"))
	assert.Equal(t, "", pv.Boundary())
}

func TestParseLenient(t *testing.T) {
	t.Parallel()

	// malformed segments are skipped, never an error
	pv := param.Parse("inline; ; garbage; filename=a.txt")
	assert.Equal(t, "inline", pv.Disposition())
	assert.Equal(t, "a.txt", pv.Filename())

	pv = param.Parse("")
	assert.Equal(t, "", pv.Value())
	assert.Equal(t, "", pv.Type())
	assert.Equal(t, "", pv.Subtype())

	// surrounding whitespace is trimmed off the primary value
	pv = param.Parse("  text/plain  ; charset=utf-8")
	assert.Equal(t, "text/plain", pv.Value())

	// first occurrence wins when a parameter repeats
	pv = param.Parse("text/plain; charset=utf-8; charset=latin1")
	assert.Equal(t, "utf-8", pv.Charset())
}
