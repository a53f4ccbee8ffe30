package inventory

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/openfleet/openfleet/internal/platform/openstack"
)

// Maps holds the per-cycle lookup structures joined onto hosts and
// instances during synchronization. All maps are built exactly once per
// cluster cycle.
type Maps struct {
	// BMC maps node names, node IDs and instance IDs to out-of-band
	// management addresses.
	BMC map[string]string

	// Stats maps hypervisor hostnames to their utilization snapshot.
	Stats map[string]openstack.HypervisorStats

	// Instances maps hypervisor hostnames to the servers scheduled there.
	Instances map[string][]openstack.Server

	// Volumes maps server UUIDs to their attached volumes. VolumesOK
	// records whether the volume listing succeeded this cycle; when it did
	// not, attachment sets are retained rather than replaced.
	Volumes   map[string][]openstack.Volume
	VolumesOK bool
}

// BuildMaps fetches and indexes every join-input collection for one cluster.
//
// A failed fetch of any of these collections degrades to an empty map with
// a warning instead of failing the cycle: a missing entry downstream means
// "no data this cycle", and the retention policy in the synchronizers keeps
// previous values. Only the primary hypervisor and service listings, which
// are fetched by the orchestrator itself, escalate failures.
func BuildMaps(ctx context.Context, client openstack.Client, log logr.Logger) *Maps {
	m := &Maps{
		BMC:       BuildBMCMap(ctx, client, log),
		Stats:     BuildStatsMap(ctx, client, log),
		Instances: BuildInstanceMap(ctx, client, log),
	}
	m.Volumes, m.VolumesOK = BuildVolumeMap(ctx, client, log)
	return m
}

// BuildBMCMap indexes Ironic nodes by every identifier a hypervisor might
// be matched under. Clusters without Ironic produce an empty map.
func BuildBMCMap(ctx context.Context, client openstack.Client, log logr.Logger) map[string]string {
	out := make(map[string]string)
	nodes, err := client.ListBareMetalNodes(ctx)
	if err != nil {
		log.V(1).Info("BMC mapping not available", "reason", err.Error())
		return out
	}
	for _, node := range nodes {
		if node.BMCAddress == "" {
			continue
		}
		if node.Name != "" {
			out[node.Name] = node.BMCAddress
		}
		out[node.ID] = node.BMCAddress
		if node.InstanceID != "" {
			out[node.InstanceID] = node.BMCAddress
		}
	}
	return out
}

// BuildStatsMap indexes the hypervisor detail listing by hostname. This is
// the expensive call, made once and reused for every host in the cluster.
func BuildStatsMap(ctx context.Context, client openstack.Client, log logr.Logger) map[string]openstack.HypervisorStats {
	out := make(map[string]openstack.HypervisorStats)
	stats, err := client.HypervisorStatistics(ctx)
	if err != nil {
		log.Info("failed to fetch hypervisor statistics, retaining previous utilization", "error", err.Error())
		return out
	}
	for _, s := range stats {
		out[s.Hostname] = s
	}
	return out
}

// BuildInstanceMap indexes all servers by hypervisor hostname, avoiding one
// list call per host.
func BuildInstanceMap(ctx context.Context, client openstack.Client, log logr.Logger) map[string][]openstack.Server {
	out := make(map[string][]openstack.Server)
	servers, err := client.ListServers(ctx)
	if err != nil {
		log.Info("failed to bulk fetch instances", "error", err.Error())
		return out
	}
	for _, srv := range servers {
		if srv.HypervisorHostname == "" {
			continue
		}
		out[srv.HypervisorHostname] = append(out[srv.HypervisorHostname], srv)
	}
	return out
}

// BuildVolumeMap indexes all volumes by the server they are attached to.
// The second return reports whether the listing succeeded; callers must
// not replace attachment sets when it did not.
func BuildVolumeMap(ctx context.Context, client openstack.Client, log logr.Logger) (map[string][]openstack.Volume, bool) {
	out := make(map[string][]openstack.Volume)
	volumes, err := client.ListVolumes(ctx)
	if err != nil {
		log.Info("failed to bulk fetch volumes", "error", err.Error())
		return out, false
	}
	for _, vol := range volumes {
		for _, att := range vol.Attachments {
			if att.ServerID != "" {
				out[att.ServerID] = append(out[att.ServerID], vol)
			}
		}
	}
	return out, true
}
