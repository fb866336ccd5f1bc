// Package mimeutil is the MIME text-processing core used by the quillmail
// client to interpret message headers and bodies. It is a pure library
// surface: no network transport, no persistence, and no rendering lives
// here.
//
// The code is split according to the part of a message it works with. The
// message package holds the part model, either a message.Opaque leaf with an
// io.Reader body or a message.Multipart with ordered sub-parts. The
// message/header package stores and interprets header fields, with
// message/header/field handling RFC 2047 encoded words and header folding
// and message/header/param handling Content-type style parameter lists. The
// message/transfer package decodes and encodes Content-transfer-encoding
// (base64, quoted-printable, and the as-is family). The message/walk package
// searches and partitions a message's part tree. The mimetype package
// compares MIME types with wildcard support.
//
// Real-world mail is frequently malformed, so the guiding policy throughout
// is that display must degrade rather than fail: header and MIME-type
// functions never return errors, decode problems fall back to the raw text,
// and only body-stream decoding can report a failure.
package mimeutil
