package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfleet/openfleet/internal/platform/openstack"
	"github.com/openfleet/openfleet/internal/store"
)

func emptyMaps() *Maps {
	return &Maps{
		BMC:       map[string]string{},
		Stats:     map[string]openstack.HypervisorStats{},
		Instances: map[string][]openstack.Server{},
		Volumes:   map[string][]openstack.Volume{},
		VolumesOK: true,
	}
}

func TestSyncHypervisor_CreatesOnFirstObservation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	maps := emptyMaps()
	maps.Stats["compute-01"] = openstack.HypervisorStats{
		Hostname: "compute-01", HostIP: "192.0.2.1",
		VCPUs: 32, VCPUsUsed: 8, MemoryMB: 65536, MemoryMBUsed: 4096,
	}
	maps.BMC["compute-01"] = "10.0.0.5"

	now := time.Now()
	host, err := SyncHypervisor(ctx, st, 1, "Zed", openstack.Hypervisor{
		ID: "hyp-1", Hostname: "compute-01", State: "up", Status: "enabled",
	}, maps, now)
	require.NoError(t, err)

	assert.NotZero(t, host.ID)
	assert.Equal(t, uint(1), host.ClusterID)
	assert.Equal(t, "192.0.2.1", host.IPAddress)
	assert.Equal(t, 32, host.CPUCount)
	assert.Equal(t, 8, host.VCPUsUsed)
	assert.Equal(t, 65536, host.MemoryMB)
	assert.Equal(t, 4096, host.MemoryMBUsed)
	assert.Equal(t, "10.0.0.5", host.BMCAddress)
	assert.Equal(t, "Zed", host.Release)
	assert.True(t, host.Reachable)
	assert.Equal(t, now, host.LastSyncedAt)
}

func TestSyncHypervisor_UpdatesInPlace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()

	maps := emptyMaps()
	maps.Stats["compute-01"] = openstack.HypervisorStats{Hostname: "compute-01", VCPUs: 32, VCPUsUsed: 8}
	hyp := openstack.Hypervisor{ID: "hyp-1", Hostname: "compute-01", State: "up", Status: "enabled"}

	first, err := SyncHypervisor(ctx, st, 1, "Zed", hyp, maps, time.Now())
	require.NoError(t, err)

	maps.Stats["compute-01"] = openstack.HypervisorStats{Hostname: "compute-01", VCPUs: 32, VCPUsUsed: 16}
	hyp.State = "down"
	second, err := SyncHypervisor(ctx, st, 1, "Zed", hyp, maps, time.Now())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same record updated, not recreated")
	assert.Equal(t, 16, second.VCPUsUsed)
	assert.Equal(t, "down", second.State)
	assert.False(t, second.Reachable)

	hosts, err := st.ListHostsByCluster(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, hosts, 1)
}

func TestSyncHypervisor_MissingStatsRetainsUtilization(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	hyp := openstack.Hypervisor{ID: "hyp-1", Hostname: "compute-01", State: "up", Status: "enabled"}

	maps := emptyMaps()
	maps.Stats["compute-01"] = openstack.HypervisorStats{
		Hostname: "compute-01", VCPUs: 32, VCPUsUsed: 12, MemoryMB: 65536, MemoryMBUsed: 9000,
	}
	_, err := SyncHypervisor(ctx, st, 1, "Zed", hyp, maps, time.Now())
	require.NoError(t, err)

	// Next cycle the stats call returned nothing for this host.
	host, err := SyncHypervisor(ctx, st, 1, "Zed", hyp, emptyMaps(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 12, host.VCPUsUsed, "utilization must not be zeroed")
	assert.Equal(t, 9000, host.MemoryMBUsed)
	assert.Equal(t, 32, host.CPUCount)
}

func TestSyncHypervisor_MissingBMCRetainsAddress(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	hyp := openstack.Hypervisor{ID: "hyp-1", Hostname: "compute-01", State: "up", Status: "enabled"}

	withBMC := emptyMaps()
	withBMC.BMC["hyp-1"] = "10.0.0.9"
	_, err := SyncHypervisor(ctx, st, 1, "Zed", hyp, withBMC, time.Now())
	require.NoError(t, err)

	host, err := SyncHypervisor(ctx, st, 1, "Zed", hyp, emptyMaps(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.9", host.BMCAddress)
}

func TestSyncHypervisor_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	maps := emptyMaps()
	maps.Stats["compute-01"] = openstack.HypervisorStats{
		Hostname: "compute-01", HostIP: "192.0.2.1", VCPUs: 32, VCPUsUsed: 8, MemoryMB: 65536, MemoryMBUsed: 4096,
	}
	hyp := openstack.Hypervisor{ID: "hyp-1", Hostname: "compute-01", State: "up", Status: "enabled"}

	t1 := time.Now()
	first, err := SyncHypervisor(ctx, st, 1, "Zed", hyp, maps, t1)
	require.NoError(t, err)

	t2 := t1.Add(time.Minute)
	second, err := SyncHypervisor(ctx, st, 1, "Zed", hyp, maps, t2)
	require.NoError(t, err)

	// Only the sync timestamp may differ between the two runs.
	firstCopy := *first
	firstCopy.LastSyncedAt = second.LastSyncedAt
	assert.Equal(t, firstCopy, *second)
}
