package walk

import (
	"errors"
	"strings"

	"github.com/quillmail/go-mimeutil/message"
	"github.com/quillmail/go-mimeutil/message/header"
	"github.com/quillmail/go-mimeutil/mimetype"
)

// errFound terminates a search walk early once a match is in hand.
var errFound = errors.New("found")

// FindPartByContentID returns the first part of the message whose
// Content-id matches the given content-id, searching the whole tree in
// document order. Angle-bracket wrapping is stripped from both sides
// before comparing, so "<cid>" and "cid" refer to the same part. It
// returns nil when no part matches.
func FindPartByContentID(msg message.Part, contentID string) message.Part {
	want := header.UnwrapContentID(contentID)
	if want == "" {
		return nil
	}

	var found message.Part
	_ = AndProcess(func(part message.Part, _ []message.Part) error {
		cid, err := part.GetHeader().GetContentID()
		if err == nil && cid == want {
			found = part
			return errFound
		}
		return nil
	}, msg)

	return found
}

// FindFirstPartByMimeType returns the first part of the message whose
// Content-type matches the given MIME type, searching the whole tree in
// document order. The MIME type may use "*" wildcards as in
// mimetype.Match. It returns nil when no part matches.
func FindFirstPartByMimeType(msg message.Part, mimeType string) message.Part {
	var found message.Part
	_ = AndProcess(func(part message.Part, _ []message.Part) error {
		mt, err := part.GetHeader().GetMediaType()
		if err == nil && mimetype.Match(mt, mimeType) {
			found = part
			return errFound
		}
		return nil
	}, msg)

	return found
}

// viewableTypes are the leaf types a mail client renders inline.
var viewableTypes = []string{"text/plain", "text/html", "image/*"}

// isViewable reports whether a leaf part is content to render inline
// rather than an attachment to list. A part explicitly marked with an
// attachment disposition is never viewable, whatever its type.
func isViewable(part message.Part) bool {
	if d, err := part.GetHeader().GetDisposition(); err == nil &&
		strings.EqualFold(d, "attachment") {
		return false
	}

	mt, err := part.GetHeader().GetMediaType()
	if err != nil {
		// an untyped part defaults to text/plain per RFC 2045
		mt = "text/plain"
	}

	return mimetype.MatchAny(mt, viewableTypes)
}

// CollectParts walks the message and divides its leaf parts into viewable
// content and attachments, both in document order. Branch parts are
// descended into but not collected themselves, whatever their multipart
// subtype. A leaf is viewable when its type is text/plain, text/html, or
// image/* and it is not explicitly marked as an attachment; every other
// leaf is an attachment.
func CollectParts(msg message.Part) (viewables, attachments []message.Part, err error) {
	err = AndProcess(func(part message.Part, _ []message.Part) error {
		if part.IsMultipart() {
			return nil
		}

		if isViewable(part) {
			viewables = append(viewables, part)
		} else {
			attachments = append(attachments, part)
		}
		return nil
	}, msg)
	if err != nil {
		return nil, nil, err
	}

	return viewables, attachments, nil
}
