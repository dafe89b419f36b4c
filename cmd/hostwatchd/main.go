// Package main is the entry point for the hostwatchd agent.
package main

import (
	"log"
	"os"

	"github.com/hostwatch-io/hostwatch/internal/daemon/cmd"
)

func main() {
	log.SetPrefix("[hostwatchd] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
