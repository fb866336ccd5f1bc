// Package walk provides tools for traversing the part tree of a message
// and answering the questions a mail display layer asks of one: find the
// part a content-id refers to, find the first part of a given type, pull
// displayable text out of a part, and sort leaves into viewable content
// versus attachments.
package walk

import (
	"errors"

	"github.com/quillmail/go-mimeutil/message"
)

// MaxDepth is the deepest part nesting AndProcess will descend into.
// Legitimate mail nests a handful of levels; anything past this is treated
// as malformed input rather than walked forever.
const MaxDepth = 100

// ErrTooDeep is returned by AndProcess when the part tree nests more than
// MaxDepth levels.
var ErrTooDeep = errors.New("message part tree exceeds the maximum depth")

// Processor is a callback that can be passed to the AndProcess() function
// to do any kind of generic processing of a message and its sub-parts.
//
// The Processor is given a part and the ancestry of the part. If
// len(parents) is zero, this is the part AndProcess() was called upon,
// which might not be the root message.
//
// The Processor may return an error to cause AndProcess() to terminate
// immediately and return that error.
type Processor func(part message.Part, parents []message.Part) error

// AndProcess walks the part tree of a message (or a part of a message) in
// document order and calls the given Processor function for each part
// found, branches included. It terminates once all parts have been
// processed and returns nil. If the Processor function returns an error, it
// terminates early and returns that error. A tree nested deeper than
// MaxDepth terminates the walk with ErrTooDeep.
func AndProcess(processor Processor, msg message.Part) error {
	type frame struct {
		part    message.Part
		parents []message.Part
	}

	stack := make([]frame, 0, 10)
	stack = append(stack, frame{msg, nil})

	for len(stack) > 0 {
		end := len(stack) - 1
		f := stack[end]
		stack = stack[:end]

		if len(f.parents) >= MaxDepth {
			return ErrTooDeep
		}

		if err := processor(f.part, f.parents); err != nil {
			return err
		}

		if f.part.IsMultipart() {
			// full-capacity slice so sibling frames cannot share appends
			parents := append(f.parents[:len(f.parents):len(f.parents)], f.part)

			// push in reverse so parts pop in document order
			subs := f.part.GetParts()
			for i := len(subs) - 1; i >= 0; i-- {
				stack = append(stack, frame{subs[i], parents})
			}
		}
	}

	return nil
}
