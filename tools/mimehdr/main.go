package main

import "github.com/quillmail/go-mimeutil/tools/mimehdr/cmd"

func main() {
	cmd.Execute()
}
