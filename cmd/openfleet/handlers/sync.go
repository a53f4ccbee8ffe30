package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openfleet/openfleet/internal/config"
	"github.com/openfleet/openfleet/internal/logging"
	"github.com/openfleet/openfleet/internal/metrics"
	"github.com/openfleet/openfleet/internal/orchestration"
	"github.com/openfleet/openfleet/internal/platform/s3"
	"github.com/openfleet/openfleet/internal/store"
)

// SyncOptions carries the sync command's flags.
type SyncOptions struct {
	ConfigPath  string
	JSONOutput  bool
	Interval    time.Duration
	MetricsAddr string
}

// Sync runs inventory sync cycles, once or on an interval.
func Sync(ctx context.Context, opts SyncOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	if _, err := ensureClusters(ctx, st, cfg); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	rec := metrics.NewRecorder(registry)
	if opts.MetricsAddr != "" {
		serveMetrics(opts.MetricsAddr, registry, log)
	}

	orch := orchestration.NewOrchestrator(st, newConnectFunc(log), log,
		orchestration.WithConcurrency(cfg.Sync.Concurrency),
		orchestration.WithMetrics(rec),
	)

	snapshotter, err := newSnapshotter(cfg, st, log)
	if err != nil {
		return err
	}

	if opts.Interval <= 0 {
		return runOnce(ctx, orch, snapshotter, opts.JSONOutput, log)
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()
	for {
		if err := runOnce(ctx, orch, snapshotter, opts.JSONOutput, log); err != nil {
			log.Error(err, "sync run failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func runOnce(ctx context.Context, orch *orchestration.Orchestrator, snapshotter *orchestration.Snapshotter, jsonOutput bool, log logr.Logger) error {
	outcomes, err := orch.SyncAll(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		b, err := json.MarshalIndent(outcomeViews(outcomes), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		fmt.Println(string(b))
	} else {
		fmt.Print(renderOutcomes(outcomes))
	}

	if snapshotter != nil {
		if _, err := snapshotter.Export(ctx); err != nil {
			log.Error(err, "snapshot export failed")
		}
	}

	failed := 0
	for _, out := range outcomes {
		if out.Status == orchestration.StatusFailed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d clusters failed to sync", failed, len(outcomes))
	}
	return nil
}

func newSnapshotter(cfg *config.Config, st store.Store, log logr.Logger) (*orchestration.Snapshotter, error) {
	if !cfg.Snapshot.Enabled {
		return nil, nil
	}
	client, err := s3.NewClient(cfg.Snapshot.Endpoint, cfg.Snapshot.Region, cfg.Snapshot.AccessKey, cfg.Snapshot.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot client: %w", err)
	}
	return orchestration.NewSnapshotter(st, client, cfg.Snapshot.Bucket, log), nil
}

func serveMetrics(addr string, registry *prometheus.Registry, log logr.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	go func() {
		log.Info("serving metrics", "addr", addr)
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "metrics server stopped")
		}
	}()
}

// outcomeView is the JSON shape of one cycle outcome.
type outcomeView struct {
	Cluster   string  `json:"cluster"`
	CycleID   string  `json:"cycle_id"`
	Status    string  `json:"status"`
	Release   string  `json:"release,omitempty"`
	Hosts     int     `json:"hosts"`
	Instances int     `json:"instances"`
	Flavors   int     `json:"flavors"`
	Seconds   float64 `json:"seconds"`
	Error     string  `json:"error,omitempty"`
}

func outcomeViews(outcomes []orchestration.Outcome) []outcomeView {
	views := make([]outcomeView, 0, len(outcomes))
	for _, out := range outcomes {
		v := outcomeView{
			Cluster:   out.ClusterName,
			CycleID:   out.CycleID,
			Status:    string(out.Status),
			Release:   out.Release,
			Hosts:     out.Hosts,
			Instances: out.Instances,
			Flavors:   out.Flavors,
			Seconds:   out.Duration().Seconds(),
		}
		if out.Err != nil {
			v.Error = out.Err.Error()
		}
		views = append(views, v)
	}
	return views
}
