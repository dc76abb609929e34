package main

import (
	"os"

	"csmerge/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
