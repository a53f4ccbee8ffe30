// Package handlers implements the execution logic behind the CLI commands.
package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/openfleet/openfleet/internal/config"
	"github.com/openfleet/openfleet/internal/orchestration"
	"github.com/openfleet/openfleet/internal/platform/openstack"
	"github.com/openfleet/openfleet/internal/store"
)

// loadConfig loads and validates the configuration. If configPath is empty,
// it looks for openfleet.yaml in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		configPath = "openfleet.yaml"
	}
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openStore opens the SQLite inventory database from the config.
func openStore(cfg *config.Config) (store.Store, error) {
	st, err := store.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Database.Path, err)
	}
	return st, nil
}

// ensureClusters upserts the configured clusters into the store, matched by
// name. Credentials and endpoints follow the config file; sync status and
// detected release stay as last persisted.
func ensureClusters(ctx context.Context, st store.Store, cfg *config.Config) ([]store.Cluster, error) {
	existing, err := st.ListClusters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}
	byName := make(map[string]store.Cluster, len(existing))
	for _, c := range existing {
		byName[c.Name] = c
	}

	out := make([]store.Cluster, 0, len(cfg.Clusters))
	for _, cc := range cfg.Clusters {
		record, ok := byName[cc.Name]
		if !ok {
			record = store.Cluster{Name: cc.Name, Status: "unknown"}
		}
		record.AuthURL = cc.AuthURL
		record.Username = cc.Username
		record.Password = cc.Password
		record.ProjectName = cc.ProjectName
		record.RegionName = cc.RegionName
		record.UserDomainName = cc.UserDomainName
		record.ProjectDomainName = cc.ProjectDomainName

		if err := st.SaveCluster(ctx, &record); err != nil {
			return nil, fmt.Errorf("failed to save cluster %s: %w", cc.Name, err)
		}
		out = append(out, record)
	}
	return out, nil
}

// newConnectFunc builds the orchestrator's client factory from the stored
// cluster credentials plus the environment timing knobs.
func newConnectFunc(log logr.Logger) orchestration.ConnectFunc {
	timeouts := config.LoadTimeouts()
	return func(ctx context.Context, cluster store.Cluster) (openstack.Client, error) {
		opts := openstack.DefaultOptions()
		opts.ConnectTimeout = timeouts.Connect
		opts.ReadTimeout = timeouts.Read
		opts.RetryMaxAttempts = timeouts.RetryMaxAttempts
		opts.RetryInitialDelay = timeouts.RetryInitialDelay
		opts.RetryMaxDelay = timeouts.RetryMaxDelay
		opts.Log = log.WithValues("cluster", cluster.Name)

		return openstack.Connect(ctx, openstack.Credentials{
			AuthURL:           cluster.AuthURL,
			Username:          cluster.Username,
			Password:          cluster.Password,
			ProjectName:       cluster.ProjectName,
			RegionName:        cluster.RegionName,
			UserDomainName:    cluster.UserDomainName,
			ProjectDomainName: cluster.ProjectDomainName,
		}, opts)
	}
}

// findCluster resolves one stored cluster by name.
func findCluster(ctx context.Context, st store.Store, name string) (*store.Cluster, error) {
	clusters, err := st.ListClusters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}
	for _, c := range clusters {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("cluster %q not found, run 'openfleet sync' first", name)
}
