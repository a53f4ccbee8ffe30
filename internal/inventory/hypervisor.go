package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openfleet/openfleet/internal/platform/openstack"
	"github.com/openfleet/openfleet/internal/store"
)

// SyncHypervisor reconciles one raw hypervisor record against the store.
//
// The persisted host is found (or created) by its (cluster, hostname)
// identity. Synced fields are overwritten last-write-wins with the freshly
// fetched values, with one exception: when the stats map has no entry for
// this host, the previous utilization values are retained, because "source
// returned no stats this cycle" must not read as "utilization is zero".
func SyncHypervisor(
	ctx context.Context,
	st store.Store,
	clusterID uint,
	release string,
	hyp openstack.Hypervisor,
	maps *Maps,
	now time.Time,
) (*store.Host, error) {
	host, err := st.GetHost(ctx, clusterID, hyp.Hostname)
	switch {
	case errors.Is(err, store.ErrNotFound):
		host = &store.Host{
			ClusterID: clusterID,
			Hostname:  hyp.Hostname,
			IPAddress: "0.0.0.0",
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load host %s: %w", hyp.Hostname, err)
	}

	if stats, ok := maps.Stats[hyp.Hostname]; ok {
		host.CPUCount = stats.VCPUs
		host.VCPUsUsed = stats.VCPUsUsed
		host.MemoryMB = stats.MemoryMB
		host.MemoryMBUsed = stats.MemoryMBUsed
		if stats.HostIP != "" {
			host.IPAddress = stats.HostIP
		}
	} else {
		// No stats this cycle: refresh capacity from the basic listing when
		// it carries values, retain previous utilization.
		if hyp.VCPUs > 0 {
			host.CPUCount = hyp.VCPUs
		}
		if hyp.MemoryMB > 0 {
			host.MemoryMB = hyp.MemoryMB
		}
	}
	if host.IPAddress == "0.0.0.0" && hyp.HostIP != "" {
		host.IPAddress = hyp.HostIP
	}

	if addr := lookupBMC(maps.BMC, hyp); addr != "" {
		host.BMCAddress = addr
	}

	host.State = hyp.State
	host.Status = hyp.Status
	host.Reachable = hyp.State == "up"
	host.Release = release
	host.LastSyncedAt = now

	if err := st.SaveHost(ctx, host); err != nil {
		return nil, fmt.Errorf("failed to save host %s: %w", hyp.Hostname, err)
	}
	return host, nil
}

func lookupBMC(bmc map[string]string, hyp openstack.Hypervisor) string {
	if addr, ok := bmc[hyp.Hostname]; ok {
		return addr
	}
	return bmc[hyp.ID]
}
