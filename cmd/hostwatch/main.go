// Package main is the entry point for the hostwatch CLI.
package main

import (
	"os"

	"github.com/hostwatch-io/hostwatch/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
