// Package main is the entry point for the laketrace CLI binary.
package main

import (
	"os"

	cli "laketrace/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
