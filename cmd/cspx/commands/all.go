package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var allAssertionsCmd = &cobra.Command{
	Use:   "all-assertions",
	Short: "Run every assertion in the IR document's declared order",
	Long: `all-assertions runs every property and refinement assertion the IR
document declares, in its single global assertion order, and
aggregates their statuses under the document's status precedence.

Example:
  cspx all-assertions --input spec.ir.json --output result.json`,
	RunE: runAllAssertions,
}

func runAllAssertions(cmd *cobra.Command, args []string) error {
	mod, err := loadModule()
	if err != nil {
		Exit("%v", err)
		return nil
	}

	exitCode, err := runAssertions(cmd, mod, inputFile, mod.Assertions)
	if err != nil {
		Exit("%v", err)
		return nil
	}
	os.Exit(exitCode)
	return nil
}
