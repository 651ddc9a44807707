// Package commands implements cspx's CLI command tree: the thin external
// orchestrator sitting outside the engine's scope. Every command here
// loads configuration and IR, calls into internal/cspx/engine, and writes
// the result document and summary record; it holds no verification
// logic of its own.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/itdojp/cspx/cmd/cspx/commands/config"
)

var (
	// Version information injected at build time via -ldflags.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global persistent flags.
	cfgFile     string
	inputFile   string
	outputFile  string
	summaryFile string
	format      string
)

var rootCmd = &cobra.Command{
	Use:   "cspx",
	Short: "cspx - a CSP process-algebra model checker",
	Long: `cspx verifies deadlock freedom, divergence freedom, determinism, and
trace/failures/failures-divergences refinement over a CSP process
specification, producing a stable, machine-readable result document.

Use "cspx [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it. Called
// once by main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/cspx/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&inputFile, "input", "i", "", "IR document to verify (*.ir.json)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "result document output path (default: stdout)")
	rootCmd.PersistentFlags().StringVar(&summaryFile, "summary", "", "summary record output path (optional)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "json", "result rendering: json or table (alongside the JSON document)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(refineCmd)
	rootCmd.AddCommand(allAssertionsCmd)
	rootCmd.AddCommand(config.Cmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// GetConfigFile returns the config file path from the global flag.
func GetConfigFile() string {
	return cfgFile
}

// Exit prints an error and exits with code 2 (the result document's "error" exit code),
// used for failures that occur before a result document can be built at
// all (bad flags, unreadable IR file).
func Exit(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
	os.Exit(2)
}
