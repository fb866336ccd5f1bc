package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillmail/go-mimeutil/message"
	"github.com/quillmail/go-mimeutil/message/walk"
)

var (
	partsCmd = &cobra.Command{
		Use:   "parts [file]",
		Short: "parse a message and list its part tree",
		Long: "Parse a message from the given file (or stdin) and print its\n" +
			"part tree: one line per part with its MIME type, content-id and\n" +
			"filename when present, and whether a leaf would be displayed\n" +
			"inline or listed as an attachment.",
		Args: cobra.MaximumNArgs(1),
		Run:  Parts,
	}
)

func Parts(_ *cobra.Command, args []string) {
	var in io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to open message: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	msg, err := message.Parse(in)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to parse message: %v\n", err)
		os.Exit(1)
	}

	viewables, _, err := walk.CollectParts(msg)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to walk message: %v\n", err)
		os.Exit(1)
	}

	viewable := make(map[message.Part]bool, len(viewables))
	for _, p := range viewables {
		viewable[p] = true
	}

	err = walk.AndProcess(func(part message.Part, parents []message.Part) error {
		h := part.GetHeader()

		mt, err := h.GetMediaType()
		if err != nil {
			mt = "text/plain"
		}

		line := strings.Repeat("  ", len(parents)) + mt

		if cid, err := h.GetContentID(); err == nil {
			line += fmt.Sprintf(" cid=%s", cid)
		}
		if fn, err := h.GetFilename(); err == nil {
			line += fmt.Sprintf(" filename=%q", fn)
		}

		if !part.IsMultipart() {
			if viewable[part] {
				line += " (viewable)"
			} else {
				line += " (attachment)"
			}
		}

		fmt.Println(line)
		return nil
	}, msg)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to walk message: %v\n", err)
		os.Exit(1)
	}
}
