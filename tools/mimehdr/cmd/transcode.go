package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillmail/go-mimeutil/message/header/field"
)

var (
	decodeCmd = &cobra.Command{
		Use:   "decode [value...]",
		Short: "unfold a header value and decode its encoded words",
		Run:   Decode,
	}

	encodeCmd = &cobra.Command{
		Use:   "encode [value...]",
		Short: "encode a header value into folded, 7-bit safe form",
		Run:   Encode,
	}

	unfoldCmd = &cobra.Command{
		Use:   "unfold [value...]",
		Short: "remove the fold breaks from a header value",
		Run:   Unfold,
	}

	foldCmd = &cobra.Command{
		Use:   "fold [value...]",
		Short: "fold a header value into continuation lines",
		Run:   Fold,
	}

	foldUsed int
)

func init() {
	foldCmd.Flags().IntVarP(&foldUsed, "used", "u", 0,
		"characters already used on the first line, e.g. by the field name")
}

func transcode(args []string, f func(string) string) {
	in, err := inputText(args)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(f(in))
}

func Decode(_ *cobra.Command, args []string) {
	transcode(args, field.UnfoldAndDecode)
}

func Encode(_ *cobra.Command, args []string) {
	transcode(args, field.Encode)
}

func Unfold(_ *cobra.Command, args []string) {
	transcode(args, field.Unfold)
}

func Fold(_ *cobra.Command, args []string) {
	transcode(args, func(s string) string {
		return field.Fold(s, foldUsed)
	})
}
