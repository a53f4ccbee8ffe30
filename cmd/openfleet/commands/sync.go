package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/openfleet/openfleet/cmd/openfleet/handlers"
)

// Sync returns the command that runs inventory sync cycles.
func Sync() *cobra.Command {
	var configPath string
	var jsonOutput bool
	var interval time.Duration
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync inventory from all configured clusters",
		Long: `Run one inventory sync cycle for every configured cluster.

Each cluster is synced independently: a failing cluster is marked offline
and reported in the outcome, without affecting the other clusters. With
--interval the command keeps running and syncs on a timer, serving
Prometheus metrics when --metrics-addr is set.
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Sync(cmd.Context(), handlers.SyncOptions{
				ConfigPath:  configPath,
				JSONOutput:  jsonOutput,
				Interval:    interval,
				MetricsAddr: metricsAddr,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: openfleet.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output outcomes in JSON format")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Keep syncing on this interval (0 = run once)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9120)")

	return cmd
}
