package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfleet/openfleet/internal/config"
	"github.com/openfleet/openfleet/internal/store"
)

func TestEnsureClusters_CreatesAndUpdates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()

	cfg := &config.Config{Clusters: []config.ClusterConfig{
		{Name: "dc-east", AuthURL: "https://keystone-a:5000/v3", Username: "admin", Password: "old", ProjectName: "admin"},
	}}

	clusters, err := ensureClusters(ctx, st, cfg)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.NotZero(t, clusters[0].ID)
	assert.Equal(t, "unknown", clusters[0].Status)

	// Mark the cluster online, then reload config with rotated credentials.
	clusters[0].Status = "online"
	require.NoError(t, st.SaveCluster(ctx, &clusters[0]))

	cfg.Clusters[0].Password = "rotated"
	updated, err := ensureClusters(ctx, st, cfg)
	require.NoError(t, err)
	require.Len(t, updated, 1)

	assert.Equal(t, clusters[0].ID, updated[0].ID, "matched by name, not recreated")
	assert.Equal(t, "rotated", updated[0].Password)
	assert.Equal(t, "online", updated[0].Status, "sync status preserved")

	all, err := st.ListClusters(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFindCluster(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.SaveCluster(ctx, &store.Cluster{Name: "dc-east"}))

	found, err := findCluster(ctx, st, "dc-east")
	require.NoError(t, err)
	assert.Equal(t, "dc-east", found.Name)

	_, err = findCluster(ctx, st, "dc-ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := loadConfig("/nonexistent/openfleet.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
