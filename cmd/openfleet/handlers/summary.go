package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openfleet/openfleet/internal/summary"
)

// Summary reports per-cluster capacity and utilization.
func Summary(ctx context.Context, configPath string, jsonOutput bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	fleet, err := summary.NewService(st).FleetStats(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		b, err := json.MarshalIndent(fleet, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		fmt.Println(string(b))
		return nil
	}

	fmt.Print(renderSummary(fleet))
	return nil
}
