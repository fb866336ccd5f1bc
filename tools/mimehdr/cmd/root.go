package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "mimehdr",
		Short: "Inspect and transform MIME headers and messages",
	}
)

func init() {
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(unfoldCmd)
	rootCmd.AddCommand(foldCmd)
	rootCmd.AddCommand(paramCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(partsCmd)
}

func Execute() {
	err := rootCmd.Execute()
	cobra.CheckErr(err)
}

// inputText returns the joined arguments or, with no arguments, a line
// break trimmed read of stdin, so values can be piped in.
func inputText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
