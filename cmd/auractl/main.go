// Package main is the entry point for the auractl CLI.
//
// auractl provisions groups of Neo4j Aura instances for workshops: a
// seeded primary instance plus any number of clones carrying the same
// dataset, one instance per attendee.
//
// Commands: init, add, delete.
//
// For detailed usage information, run:
//
//	auractl --help
package main

import (
	"fmt"
	"os"

	"auractl/cmd/auractl/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
