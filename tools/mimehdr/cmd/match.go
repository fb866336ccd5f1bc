package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillmail/go-mimeutil/mimetype"
)

var (
	matchCmd = &cobra.Command{
		Use:   "match <mime-type> <pattern>...",
		Short: "test a MIME type against one or more wildcard patterns",
		Args:  cobra.MinimumNArgs(2),
		Run:   Match,
	}
)

func Match(_ *cobra.Command, args []string) {
	if !mimetype.MatchAny(args[0], args[1:]) {
		fmt.Println("no match")
		os.Exit(1)
	}
	fmt.Println("match")
}
