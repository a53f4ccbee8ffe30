package orchestration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfleet/openfleet/internal/platform/openstack"
	"github.com/openfleet/openfleet/internal/store"
)

func seedCluster(t *testing.T, st store.Store, name string) store.Cluster {
	t.Helper()
	c := store.Cluster{Name: name, AuthURL: "https://" + name + ":5000/v3", Status: "unknown"}
	require.NoError(t, st.SaveCluster(context.Background(), &c))
	return c
}

func populatedFake() *openstack.Fake {
	return &openstack.Fake{
		Release: "Zed",
		Services: []openstack.Service{
			{Binary: "nova-compute", Host: "compute-01", Status: "enabled", State: "up"},
		},
		Hypervisors: []openstack.Hypervisor{
			{ID: "hyp-1", Hostname: "compute-01", State: "up", Status: "enabled"},
		},
		Stats: []openstack.HypervisorStats{
			{Hostname: "compute-01", HostIP: "192.0.2.1", VCPUs: 32, VCPUsUsed: 8, MemoryMB: 65536, MemoryMBUsed: 4096},
		},
		Servers: []openstack.Server{
			{UUID: "vm-1", Name: "web-01", Status: "ACTIVE", HypervisorHostname: "compute-01", FlavorName: "m1.large"},
			{UUID: "vm-2", Name: "web-02", Status: "ACTIVE", HypervisorHostname: "compute-01", FlavorName: "m1.small"},
		},
		Flavors: []openstack.Flavor{
			{UUID: "f-1", Name: "m1.large", VCPUs: 4},
			{UUID: "f-2", Name: "m1.small", VCPUs: 1},
		},
		Volumes: []openstack.Volume{
			{UUID: "vol-a", SizeGB: 10, Attachments: []openstack.VolumeAttachment{{ServerID: "vm-1", Device: "/dev/vda"}}},
		},
	}
}

func staticConnect(client openstack.Client) ConnectFunc {
	return func(context.Context, store.Cluster) (openstack.Client, error) {
		return client, nil
	}
}

func TestSyncCluster_FullCycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	cluster := seedCluster(t, st, "dc-east")

	o := NewOrchestrator(st, staticConnect(populatedFake()), logr.Discard())
	out := o.SyncCluster(ctx, cluster)

	require.NoError(t, out.Err)
	assert.Equal(t, StatusSucceeded, out.Status)
	assert.Equal(t, "Zed", out.Release)
	assert.Equal(t, 1, out.Hosts)
	assert.Equal(t, 2, out.Instances)
	assert.Equal(t, 2, out.Flavors)
	assert.NotEmpty(t, out.CycleID)

	hosts, err := st.ListHostsByCluster(ctx, cluster.ID)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, 8, hosts[0].VCPUsUsed)

	instances, err := st.ListInstancesByHost(ctx, hosts[0].ID)
	require.NoError(t, err)
	assert.Len(t, instances, 2)

	vols, err := st.ListVolumesByInstance(ctx, "vm-1")
	require.NoError(t, err)
	assert.Len(t, vols, 1)

	updated, err := st.GetCluster(ctx, cluster.ID)
	require.NoError(t, err)
	assert.Equal(t, "online", updated.Status)
	assert.Equal(t, "Zed", updated.Release)

	entries := st.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "sync_cluster", entries[0].Action)
	assert.Equal(t, "dc-east", entries[0].Target)
}

func TestSyncCluster_PrimaryListingFailureMarksOffline(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	cluster := seedCluster(t, st, "dc-east")

	good := populatedFake()
	o := NewOrchestrator(st, staticConnect(good), logr.Discard())
	first := o.SyncCluster(ctx, cluster)
	require.Equal(t, StatusSucceeded, first.Status)

	bad := populatedFake()
	bad.Errors = map[string]error{
		"ListHypervisors": &openstack.APIError{Call: "list hypervisors", Kind: openstack.KindServiceUnavailable, Err: errors.New("503")},
	}
	o2 := NewOrchestrator(st, staticConnect(bad), logr.Discard())
	second := o2.SyncCluster(ctx, cluster)

	assert.Equal(t, StatusFailed, second.Status)
	require.Error(t, second.Err)

	updated, err := st.GetCluster(ctx, cluster.ID)
	require.NoError(t, err)
	assert.Equal(t, "offline", updated.Status)

	// Records from the successful cycle stay untouched.
	hosts, err := st.ListHostsByCluster(ctx, cluster.ID)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, 8, hosts[0].VCPUsUsed)
}

func TestSyncCluster_ConnectFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	cluster := seedCluster(t, st, "dc-east")

	connect := func(context.Context, store.Cluster) (openstack.Client, error) {
		return nil, &openstack.APIError{Call: "authenticate", Kind: openstack.KindConnectFailure, Err: errors.New("connection refused")}
	}
	o := NewOrchestrator(st, connect, logr.Discard())
	out := o.SyncCluster(ctx, cluster)

	assert.Equal(t, StatusFailed, out.Status)
	updated, err := st.GetCluster(ctx, cluster.ID)
	require.NoError(t, err)
	assert.Equal(t, "offline", updated.Status)
}

func TestSyncAll_ClusterFailuresAreIsolated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	east := seedCluster(t, st, "dc-east")
	west := seedCluster(t, st, "dc-west")

	connect := func(_ context.Context, cluster store.Cluster) (openstack.Client, error) {
		if cluster.ID == west.ID {
			return nil, errors.New("keystone unreachable")
		}
		return populatedFake(), nil
	}

	o := NewOrchestrator(st, connect, logr.Discard(), WithConcurrency(2))
	outcomes, err := o.SyncAll(ctx)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	byID := map[uint]Outcome{}
	for _, out := range outcomes {
		byID[out.ClusterID] = out
	}
	assert.Equal(t, StatusSucceeded, byID[east.ID].Status)
	assert.Equal(t, StatusFailed, byID[west.ID].Status)

	eastRec, err := st.GetCluster(ctx, east.ID)
	require.NoError(t, err)
	assert.Equal(t, "online", eastRec.Status)
	westRec, err := st.GetCluster(ctx, west.ID)
	require.NoError(t, err)
	assert.Equal(t, "offline", westRec.Status)
}

func TestSyncCluster_InFlightCycleIsSkipped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	cluster := seedCluster(t, st, "dc-east")

	started := make(chan struct{})
	proceed := make(chan struct{})
	var startedOnce sync.Once
	connect := func(context.Context, store.Cluster) (openstack.Client, error) {
		startedOnce.Do(func() { close(started) })
		<-proceed
		return populatedFake(), nil
	}

	o := NewOrchestrator(st, connect, logr.Discard())

	var wg sync.WaitGroup
	var first Outcome
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = o.SyncCluster(ctx, cluster)
	}()

	<-started
	second := o.SyncCluster(ctx, cluster)
	assert.Equal(t, StatusSkipped, second.Status)

	close(proceed)
	wg.Wait()
	assert.Equal(t, StatusSucceeded, first.Status)

	// A fresh cycle after completion is not skipped.
	third := o.SyncCluster(ctx, cluster)
	assert.Equal(t, StatusSucceeded, third.Status)
}

func TestSyncCluster_DegradedFlavorListing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	cluster := seedCluster(t, st, "dc-east")

	good := populatedFake()
	o := NewOrchestrator(st, staticConnect(good), logr.Discard())
	require.Equal(t, StatusSucceeded, o.SyncCluster(ctx, cluster).Status)

	degraded := populatedFake()
	degraded.Errors = map[string]error{
		"ListFlavors": &openstack.APIError{Call: "list flavors", Kind: openstack.KindGatewayTimeout},
	}
	o2 := NewOrchestrator(st, staticConnect(degraded), logr.Discard())
	out := o2.SyncCluster(ctx, cluster)

	assert.Equal(t, StatusSucceeded, out.Status, "flavor listing failure must not fail the cycle")
	assert.Zero(t, out.Flavors)

	f, err := st.GetFlavorByName(ctx, cluster.ID, "m1.large")
	require.NoError(t, err)
	assert.Equal(t, 4, f.VCPUs, "previous flavor definitions retained")
}

func TestSyncCluster_OutcomeTiming(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	cluster := seedCluster(t, st, "dc-east")

	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tick := 0
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	o := NewOrchestrator(st, staticConnect(populatedFake()), logr.Discard(), WithClock(clock))
	out := o.SyncCluster(ctx, cluster)

	assert.Equal(t, StatusSucceeded, out.Status)
	assert.True(t, out.Finished.After(out.Started))
	assert.Positive(t, out.Duration())
}
