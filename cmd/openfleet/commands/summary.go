package commands

import (
	"github.com/spf13/cobra"

	"github.com/openfleet/openfleet/cmd/openfleet/handlers"
)

// Summary returns the command for cluster utilization summaries.
func Summary() *cobra.Command {
	var configPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show per-cluster capacity and utilization",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Summary(cmd.Context(), configPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: openfleet.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
