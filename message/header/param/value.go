// Package param parses parameterized header field bodies, such as the
// Content-type and Content-disposition headers, of the form:
//
//	type/subtype; name1=value1; name2="quoted value"
//
// Parsing here is deliberately lenient. Header values in real-world mail are
// frequently non-conformant and the client still has to display the
// message, so every function in this package is total: absence is signaled
// by an empty string, never by an error.
package param

import "strings"

// Parameter names that commonly appear in parameterized headers.
const (
	// Charset is the charset parameter of the Content-type header.
	Charset = "charset"

	// Boundary is the boundary parameter of the Content-type header.
	Boundary = "boundary"

	// Filename is the filename parameter of the Content-disposition header.
	Filename = "filename"
)

// Value is a parsed parameterized header field body: a primary value plus
// named parameters with case-insensitive names.
type Value struct {
	v  string
	ps map[string]string
}

// Parse splits a header field body into its primary value and parameters.
// It cannot fail: a malformed segment without an equals sign is skipped, an
// empty body yields an empty primary value.
func Parse(v string) *Value {
	segments := strings.Split(v, ";")

	pv := &Value{
		v:  strings.TrimSpace(segments[0]),
		ps: make(map[string]string, len(segments)-1),
	}

	for _, segment := range segments[1:] {
		eq := strings.IndexByte(segment, '=')
		if eq < 0 {
			continue
		}

		name := strings.ToLower(strings.TrimSpace(segment[:eq]))
		if name == "" {
			continue
		}

		value := strings.TrimSpace(segment[eq+1:])
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}

		// first occurrence wins when a parameter repeats
		if _, seen := pv.ps[name]; !seen {
			pv.ps[name] = value
		}
	}

	return pv
}

// New creates a new parameterized header field body with no parameters.
func New(v string) *Value {
	return &Value{v, map[string]string{}}
}

// Value returns the primary value, the part before the first semi-colon,
// trimmed of surrounding whitespace.
func (pv *Value) Value() string {
	return pv.v
}

// MediaType is a synonym for Value() for use with the Content-type header,
// e.g., "text/html" or "multipart/mixed".
func (pv *Value) MediaType() string {
	return pv.v
}

// Disposition is a synonym for Value() for use with the Content-disposition
// header, either "inline" or "attachment".
func (pv *Value) Disposition() string {
	return pv.v
}

// Type returns the part of the media type before the slash, or an empty
// string when there is no slash.
func (pv *Value) Type() string {
	if ix := strings.IndexByte(pv.v, '/'); ix >= 0 {
		return pv.v[:ix]
	}
	return ""
}

// Subtype returns the part of the media type after the slash, or an empty
// string when there is no slash.
func (pv *Value) Subtype() string {
	if ix := strings.IndexByte(pv.v, '/'); ix >= 0 {
		return pv.v[ix+1:]
	}
	return ""
}

// Parameter returns the value of the parameter with the given name, matched
// case-insensitively, or an empty string when the parameter is absent.
func (pv *Value) Parameter(name string) string {
	return pv.ps[strings.ToLower(name)]
}

// Charset returns the value of the "charset" parameter.
func (pv *Value) Charset() string {
	return pv.ps[Charset]
}

// Boundary returns the value of the "boundary" parameter.
func (pv *Value) Boundary() string {
	return pv.ps[Boundary]
}

// Filename returns the value of the "filename" parameter.
func (pv *Value) Filename() string {
	return pv.ps[Filename]
}

// Get extracts a single parameter from a raw header field body without
// building a Value. Its contract mirrors the behavior mail clients have
// depended on for years:
//
//   - an empty header yields an empty string;
//   - an empty name yields the primary value, the trimmed text before the
//     first semi-colon (not the first parameter, despite what a naive
//     reading of some related documentation suggests);
//   - otherwise the named parameter is matched case-insensitively, with
//     surrounding quotes stripped, and an empty string is returned when no
//     parameter matches.
func Get(header, name string) string {
	if header == "" {
		return ""
	}

	pv := Parse(header)
	if name == "" {
		return pv.Value()
	}

	return pv.Parameter(name)
}
