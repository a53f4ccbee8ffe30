package hardware

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfleet/openfleet/internal/platform/redfish"
	"github.com/openfleet/openfleet/internal/store"
)

type fakeChecker struct {
	health map[string]redfish.Health
	errs   map[string]error
}

func (f *fakeChecker) SystemHealth(_ context.Context, address string, _ redfish.Credentials) (redfish.Health, error) {
	if err, ok := f.errs[address]; ok {
		return redfish.HealthUnknown, err
	}
	if h, ok := f.health[address]; ok {
		return h, nil
	}
	return redfish.HealthOK, nil
}

func seedHost(t *testing.T, st store.Store, hostname, bmc string) store.Host {
	t.Helper()
	host := store.Host{ClusterID: 1, Hostname: hostname, BMCAddress: bmc}
	require.NoError(t, st.SaveHost(context.Background(), &host))
	return host
}

func TestPoll_PersistsHealthAndAlertsDegraded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	seedHost(t, st, "compute-01", "10.0.0.1")
	seedHost(t, st, "compute-02", "10.0.0.2")
	seedHost(t, st, "compute-03", "")

	checker := &fakeChecker{health: map[string]redfish.Health{
		"10.0.0.1": redfish.HealthOK,
		"10.0.0.2": redfish.HealthCritical,
	}}
	p := NewPoller(st, checker, redfish.Credentials{Username: "root"}, logr.Discard())

	res, err := p.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Polled)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Degraded)

	hosts, err := st.ListHostsByCluster(ctx, 1)
	require.NoError(t, err)
	byName := map[string]store.Host{}
	for _, h := range hosts {
		byName[h.Hostname] = h
	}
	assert.Equal(t, "OK", byName["compute-01"].HardwareHealth)
	assert.Equal(t, "Critical", byName["compute-02"].HardwareHealth)
	assert.Empty(t, byName["compute-03"].HardwareHealth)

	alerts, err := st.ListActiveAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "System Health: Critical", alerts[0].Title)
	assert.Equal(t, "critical", alerts[0].Severity)
	require.NotNil(t, alerts[0].HostID)
	assert.Equal(t, byName["compute-02"].ID, *alerts[0].HostID)
}

func TestPoll_UnreachableBMCRetainsPreviousHealth(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	host := seedHost(t, st, "compute-01", "10.0.0.1")
	host.HardwareHealth = "OK"
	require.NoError(t, st.SaveHost(ctx, &host))

	checker := &fakeChecker{errs: map[string]error{"10.0.0.1": errors.New("connection refused")}}
	p := NewPoller(st, checker, redfish.Credentials{}, logr.Discard())

	res, err := p.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Unreachable)
	assert.Zero(t, res.Polled)

	hosts, err := st.ListHostsByCluster(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "OK", hosts[0].HardwareHealth)
}

func TestPoll_RepeatedDegradedHealthDoesNotDuplicateAlerts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	seedHost(t, st, "compute-01", "10.0.0.1")

	checker := &fakeChecker{health: map[string]redfish.Health{"10.0.0.1": redfish.HealthWarning}}
	p := NewPoller(st, checker, redfish.Credentials{}, logr.Discard())

	_, err := p.Poll(ctx)
	require.NoError(t, err)
	_, err = p.Poll(ctx)
	require.NoError(t, err)

	alerts, err := st.ListActiveAlerts(ctx)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
	assert.Equal(t, "warning", alerts[0].Severity)
}
