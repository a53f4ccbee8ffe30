package commands

import (
	"github.com/spf13/cobra"

	"github.com/openfleet/openfleet/cmd/openfleet/handlers"
)

// Hardware returns the command that polls BMC hardware health.
func Hardware() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "hardware",
		Short: "Poll BMCs over Redfish and raise hardware alerts",
		Long: `Check every host with a known BMC address over Redfish.

The reported system health is stored on the host record; hosts reporting
Warning or Critical raise an active alert. Unreachable BMCs are skipped
and the host keeps its previous health.
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Hardware(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: openfleet.yaml)")

	return cmd
}
