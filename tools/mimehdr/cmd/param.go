package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillmail/go-mimeutil/message/header/param"
)

var (
	paramCmd = &cobra.Command{
		Use:   "param <header-value> [name]",
		Short: "extract a parameter from a parameterized header value",
		Long: "Extract the named parameter from a parameterized header value\n" +
			"such as a Content-type or Content-disposition body. With no name,\n" +
			"the primary value before the first semicolon is printed.",
		Args: cobra.RangeArgs(1, 2),
		Run:  Param,
	}
)

func Param(_ *cobra.Command, args []string) {
	name := ""
	if len(args) > 1 {
		name = args[1]
	}

	v := param.Get(args[0], name)
	if v == "" {
		os.Exit(1)
	}
	fmt.Println(v)
}
