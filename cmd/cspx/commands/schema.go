package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/itdojp/cspx/internal/cli/output"
	"github.com/itdojp/cspx/internal/cspx/result"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema of the result document",
	Long: `schema prints the JSON Schema every result document cspx emits
validates against (additionalProperties:false throughout).

The schema can be used for:
  - validating captured result documents in a CI pipeline
  - IDE autocompletion when inspecting stored results
  - documentation generation

Examples:
  cspx schema
  cspx schema --output result.schema.json`,
	RunE: runSchema,
}

func runSchema(cmd *cobra.Command, args []string) error {
	schema := result.Schema()
	if outputFile == "" {
		return output.PrintJSON(os.Stdout, schema)
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("writing schema: %w", err)
	}
	defer f.Close()
	return output.PrintJSON(f, schema)
}
