package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openfleet/openfleet/internal/cost"
)

// Cost reports monthly costs from the synced inventory.
func Cost(ctx context.Context, configPath, clusterName string, jsonOutput bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	calc := cost.NewCalculator(st, cfg.Cost)
	formatter := cost.NewFormatter()

	if clusterName != "" {
		cluster, err := findCluster(ctx, st, clusterName)
		if err != nil {
			return err
		}
		report, err := calc.ClusterCost(ctx, *cluster)
		if err != nil {
			return err
		}
		if jsonOutput {
			b, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode JSON: %w", err)
			}
			fmt.Println(string(b))
			return nil
		}
		fmt.Print(formatter.FormatCluster(report))
		return nil
	}

	report, err := calc.ProjectCosts(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		fmt.Println(formatter.FormatJSON(report))
		return nil
	}
	fmt.Print(formatter.Format(report))
	return nil
}
