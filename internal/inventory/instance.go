package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openfleet/openfleet/internal/platform/openstack"
	"github.com/openfleet/openfleet/internal/store"
)

// SyncInstance reconciles one raw server record against the store.
//
// The persisted instance is found (or created) by its source UUID, never by
// name. The host reference is reassigned when the instance has migrated;
// state and resource fields are overwritten unconditionally. The volume
// attachment set is replaced with exactly the set found in the volume map,
// unless the volume listing failed this cycle, in which case the previous
// set is retained.
func SyncInstance(
	ctx context.Context,
	st store.Store,
	host *store.Host,
	srv openstack.Server,
	maps *Maps,
	now time.Time,
) (*store.Instance, error) {
	inst, err := st.GetInstance(ctx, srv.UUID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		inst = &store.Instance{UUID: srv.UUID}
	case err != nil:
		return nil, fmt.Errorf("failed to load instance %s: %w", srv.UUID, err)
	}

	inst.HostID = host.ID
	inst.Name = srv.Name
	inst.Status = srv.Status
	inst.PowerState = srv.PowerState
	inst.FlavorName = srv.FlavorName
	inst.ProjectID = srv.ProjectID
	inst.UserID = srv.UserID
	inst.ImageID = srv.ImageID
	inst.IPAddress = srv.IPAddress
	inst.NetworkName = srv.NetworkName
	if srv.KeyName != "" {
		inst.KeyName = srv.KeyName
	} else {
		inst.KeyName = "-"
	}
	if srv.LaunchedAt != nil {
		inst.LaunchedAt = srv.LaunchedAt
	}
	inst.LastSyncedAt = now

	if err := st.SaveInstance(ctx, inst); err != nil {
		return nil, fmt.Errorf("failed to save instance %s: %w", srv.UUID, err)
	}

	if maps.VolumesOK {
		if err := st.ReplaceInstanceVolumes(ctx, inst.UUID, volumeRecords(srv.UUID, maps.Volumes[srv.UUID])); err != nil {
			return nil, fmt.Errorf("failed to sync volumes for instance %s: %w", srv.UUID, err)
		}
	}

	return inst, nil
}

// volumeRecords converts raw volumes into attachment records for one
// server, picking the device path of the matching attachment.
func volumeRecords(serverID string, vols []openstack.Volume) []store.Volume {
	out := make([]store.Volume, 0, len(vols))
	for _, v := range vols {
		device := ""
		for _, att := range v.Attachments {
			if att.ServerID == serverID {
				device = att.Device
				break
			}
		}
		out = append(out, store.Volume{
			UUID:         v.UUID,
			InstanceUUID: serverID,
			Name:         v.Name,
			SizeGB:       v.SizeGB,
			Device:       device,
			Status:       v.Status,
			Bootable:     v.Bootable,
		})
	}
	return out
}
