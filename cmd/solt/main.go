// Package main provides the entry point for the solt CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/solt/cmd/solt/commands"
	"github.com/Sumatoshi-tech/solt/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := commands.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
