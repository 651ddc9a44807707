package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/itdojp/cspx/internal/cspx/ir"
)

var propertyFlag string

var checkCmd = &cobra.Command{
	Use:   "check <process>",
	Short: "Check a single-process property (deadlock-free, divergence-free, deterministic)",
	Long: `check verifies one property assertion against a named process: deadlock
freedom, divergence freedom, or determinism.

Examples:
  cspx check P --input spec.ir.json --property deadlock-free
  cspx check P --input spec.ir.json --property deterministic --output result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&propertyFlag, "property", "", "deadlock-free | divergence-free | deterministic")
}

func parseProperty(s string) (ir.PropertyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deadlock-free", "deadlock_free":
		return ir.PropertyDeadlockFree, nil
	case "divergence-free", "divergence_free":
		return ir.PropertyDivergenceFree, nil
	case "deterministic":
		return ir.PropertyDeterministic, nil
	default:
		return 0, fmt.Errorf("unknown --property %q (valid: deadlock-free, divergence-free, deterministic)", s)
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]
	if propertyFlag == "" {
		return fmt.Errorf("--property is required")
	}
	prop, err := parseProperty(propertyFlag)
	if err != nil {
		return err
	}

	mod, err := loadModule()
	if err != nil {
		Exit("%v", err)
		return nil
	}

	assertion := ir.Assertion{Kind: ir.AssertionProperty, Target: target, Property: prop}
	for _, a := range mod.Assertions {
		if a.Kind == ir.AssertionProperty && a.Target == target && a.Property == prop {
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
