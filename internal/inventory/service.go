package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/openfleet/openfleet/internal/platform/openstack"
	"github.com/openfleet/openfleet/internal/store"
)

// SyncServices upserts the compute service listing for one cluster, keyed
// by (cluster, binary, host).
func SyncServices(
	ctx context.Context,
	st store.Store,
	clusterID uint,
	release string,
	services []openstack.Service,
) error {
	for _, svc := range services {
		zone := svc.Zone
		if zone == "" {
			zone = "nova"
		}
		record := &store.ClusterService{
			ClusterID: clusterID,
			Binary:    svc.Binary,
			Host:      svc.Host,
			Zone:      zone,
			Status:    svc.Status,
			State:     svc.State,
			Release:   release,
		}
		if err := st.UpsertService(ctx, record); err != nil {
			return fmt.Errorf("failed to upsert service %s on %s: %w", svc.Binary, svc.Host, err)
		}
	}
	return nil
}

// SyncFlavors upserts the flavor definitions for one cluster, keyed by
// (cluster, flavor UUID). The cost calculator resolves instance vCPU counts
// through these records.
func SyncFlavors(
	ctx context.Context,
	st store.Store,
	clusterID uint,
	flavors []openstack.Flavor,
	now time.Time,
) (int, error) {
	for _, f := range flavors {
		record := &store.Flavor{
			UUID:      f.UUID,
			ClusterID: clusterID,
			Name:      f.Name,
			VCPUs:     f.VCPUs,
			RAMMB:     f.RAMMB,
			DiskGB:    f.DiskGB,
			IsPublic:  f.IsPublic,
			UpdatedAt: now,
		}
		if err := st.UpsertFlavor(ctx, record); err != nil {
			return 0, fmt.Errorf("failed to upsert flavor %s: %w", f.Name, err)
		}
	}
	return len(flavors), nil
}
