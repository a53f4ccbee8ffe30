package handlers

import (
	"context"
	"fmt"

	"github.com/openfleet/openfleet/internal/hardware"
	"github.com/openfleet/openfleet/internal/logging"
	"github.com/openfleet/openfleet/internal/platform/redfish"
)

// Hardware polls every host's BMC over Redfish and raises alerts for
// degraded systems.
func Hardware(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	poller := hardware.NewPoller(st, redfish.NewClient(), redfish.Credentials{
		Username: cfg.BMC.Username,
		Password: cfg.BMC.Password,
	}, log)

	res, err := poller.Poll(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Polled %d BMCs (%d without address, %d unreachable)\n", res.Polled, res.Skipped, res.Unreachable)
	if res.Degraded > 0 {
		fmt.Println(redStyle.Render(fmt.Sprintf("%d hosts report degraded hardware health", res.Degraded)))
	} else {
		fmt.Println(greenStyle.Render("All polled hosts report healthy hardware"))
	}
	return nil
}
