package commands

import (
	"github.com/spf13/cobra"

	"github.com/openfleet/openfleet/cmd/openfleet/handlers"
)

// Cost returns the command for fleet cost reports.
func Cost() *cobra.Command {
	var configPath string
	var clusterName string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Show monthly cost by project",
		Long: `Report monthly costs derived from the synced inventory.

Host costs combine hardware amortization with a power model (average watts,
electricity price, PUE); instance costs split the host cost per vCPU using
the synced flavor definitions. Without --cluster the report covers the
whole fleet grouped by project.
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Cost(cmd.Context(), configPath, clusterName, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: openfleet.yaml)")
	cmd.Flags().StringVar(&clusterName, "cluster", "", "Report a single cluster instead of the fleet")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
