// Package main is the entry point for the structapp CLI.
package main

import (
	"os"

	"github.com/abaelde/structure-application/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
