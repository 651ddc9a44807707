// Command cspx is the thin CLI front-end the engine is reached through:
// argument parsing, IR loading, config resolution, invoking
// internal/cspx/engine, and writing the result document and summary
// record. It contains no verification logic of its own.
package main

import (
	"fmt"
	"os"

	"github.com/itdojp/cspx/cmd/cspx/commands"
)

// Build-time variables injected via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
