package config

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/itdojp/cspx/internal/cli/output"
	"github.com/itdojp/cspx/pkg/config"
)

// showFormat uses its own flag name (not --output/--format) because the
// root command's persistent --output and --format flags already cover
// those shorthands for the verification commands' result document.
var showFormat string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display cspx's resolved configuration",
	Long: `Display the fully-resolved cspx configuration (flags > CSPX_*
environment variables > config file > defaults), formatted as YAML or
JSON.

Examples:
  cspx config show
  cspx config show --show-format json
  cspx config show --config /etc/cspx/config.yaml`,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().StringVar(&showFormat, "show-format", "yaml", "output format (yaml|json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath, nil)
	if err != nil {
		return err
	}

	switch showFormat {
	case "json":
		return output.PrintJSON(os.Stdout, cfg)
	default:
		return output.PrintYAML(os.Stdout, cfg)
	}
}
