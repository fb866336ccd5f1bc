// Package message provides objects for parsing and reading MIME email
// messages (which survive even when the input is not strictly correct) and
// for generating new messages that are strictly correct.
//
// Any message can be handled as an Opaque, a header paired with an
// uninterpreted body stream. Parse() will promote a message with a
// multipart Content-type into a Multipart whose sub-parts can be examined
// individually. New messages are built with a Buffer and turned into either
// form at the end.
package message
