// Package config implements the "cspx config" command group.
package config

import "github.com/spf13/cobra"

// Cmd is the "config" command group, added to the root command by
// commands.init.
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect cspx's resolved configuration",
}

func init() {
	Cmd.AddCommand(showCmd)
}
