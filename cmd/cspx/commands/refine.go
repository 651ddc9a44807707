package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/itdojp/cspx/internal/cspx/ir"
)

var (
	specFlag  string
	implFlag  string
	modelFlag string
)

var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Check trace/failures/failures-divergences refinement between two processes",
	Long: `refine verifies Traces(impl) subset-of Traces(spec) (model T), plus
failures (model F) and divergences (model FD).

Examples:
  cspx refine --spec P --impl Q --model T --input spec.ir.json
  cspx refine --spec P --impl Q --model FD --input spec.ir.json --output result.json`,
	RunE: runRefine,
}

func init() {
	refineCmd.Flags().StringVar(&specFlag, "spec", "", "specification process name")
	refineCmd.Flags().StringVar(&implFlag, "impl", "", "implementation process name")
	refineCmd.Flags().StringVar(&modelFlag, "model", "T", "refinement model: T, F, or FD")
}

func runRefine(cmd *cobra.Command, args []string) error {
	if specFlag == "" || implFlag == "" {
		return fmt.Errorf("--spec and --impl are required")
	}
	model, ok := ir.ParseModel(modelFlag)
	if !ok {
		return fmt.Errorf("unknown --model %q (valid: T, F, FD)", modelFlag)
	}

	mod, err := loadModule()
	if err != nil {
		Exit("%v", err)
		return nil
	}

	assertion := ir.Assertion{Kind: ir.AssertionRefinement, Spec: specFlag, Impl: implFlag, Model: model}
	for _, a := range mod.Assertions {
		if a.Kind == ir.AssertionRefinement && a.Spec == specFlag && a.Impl == implFlag && a.Model == model {
			assertion = a
			break
		}
	}

	exitCode, err := runAssertions(cmd, mod, inputFile, []ir.Assertion{assertion})
	if err != nil {
		Exit("%v", err)
		return nil
	}
	os.Exit(exitCode)
	return nil
}
