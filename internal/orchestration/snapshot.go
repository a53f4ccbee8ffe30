package orchestration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/openfleet/openfleet/internal/store"
)

// ObjectStore is the object storage surface the snapshotter needs.
type ObjectStore interface {
	EnsureBucket(ctx context.Context, bucket string) error
	PutObject(ctx context.Context, bucket, key string, data []byte) error
}

// Snapshotter exports a point-in-time JSON document of the whole inventory
// to object storage.
type Snapshotter struct {
	store   store.Store
	objects ObjectStore
	bucket  string
	log     logr.Logger
	now     func() time.Time
}

// NewSnapshotter creates a snapshotter writing into the given bucket.
func NewSnapshotter(st store.Store, objects ObjectStore, bucket string, log logr.Logger) *Snapshotter {
	return &Snapshotter{store: st, objects: objects, bucket: bucket, log: log, now: time.Now}
}

type snapshotDoc struct {
	TakenAt  time.Time         `json:"taken_at"`
	Clusters []clusterSnapshot `json:"clusters"`
}

type clusterSnapshot struct {
	Name     string         `json:"name"`
	Status   string         `json:"status"`
	Release  string         `json:"release"`
	Services int            `json:"services"`
	Hosts    []hostSnapshot `json:"hosts"`
}

type hostSnapshot struct {
	Hostname     string             `json:"hostname"`
	State        string             `json:"state"`
	Status       string             `json:"status"`
	BMCAddress   string             `json:"bmc_address,omitempty"`
	CPUCount     int                `json:"cpu_count"`
	VCPUsUsed    int                `json:"vcpus_used"`
	MemoryMB     int                `json:"memory_mb"`
	MemoryMBUsed int                `json:"memory_mb_used"`
	Instances    []instanceSnapshot `json:"instances"`
}

type instanceSnapshot struct {
	UUID    string           `json:"uuid"`
	Name    string           `json:"name"`
	Status  string           `json:"status"`
	Flavor  string           `json:"flavor"`
	Project string           `json:"project"`
	Volumes []volumeSnapshot `json:"volumes,omitempty"`
}

type volumeSnapshot struct {
	UUID   string `json:"uuid"`
	SizeGB int    `json:"size_gb"`
	Device string `json:"device,omitempty"`
}

// Export writes one snapshot object and returns its key.
func (s *Snapshotter) Export(ctx context.Context) (string, error) {
	doc, err := s.build(ctx)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := s.objects.EnsureBucket(ctx, s.bucket); err != nil {
		return "", err
	}

	key := fmt.Sprintf("snapshots/%s.json", doc.TakenAt.UTC().Format("2006-01-02T15-04-05Z"))
	if err := s.objects.PutObject(ctx, s.bucket, key, data); err != nil {
		return "", err
	}
	s.log.Info("exported inventory snapshot", "bucket", s.bucket, "key", key, "bytes", len(data))
	return key, nil
}

func (s *Snapshotter) build(ctx context.Context) (*snapshotDoc, error) {
	clusters, err := s.store.ListClusters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}

	doc := &snapshotDoc{TakenAt: s.now()}
	for _, cluster := range clusters {
		cs := clusterSnapshot{
			Name:    cluster.Name,
			Status:  cluster.Status,
			Release: cluster.Release,
			Hosts:   []hostSnapshot{},
		}

		services, err := s.store.ListServicesByCluster(ctx, cluster.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list services for %s: %w", cluster.Name, err)
		}
		cs.Services = len(services)

		hosts, err := s.store.ListHostsByCluster(ctx, cluster.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list hosts for %s: %w", cluster.Name, err)
		}
		for _, host := range hosts {
			hs := hostSnapshot{
				Hostname:     host.Hostname,
				State:        host.State,
				Status:       host.Status,
				BMCAddress:   host.BMCAddress,
				CPUCount:     host.CPUCount,
				VCPUsUsed:    host.VCPUsUsed,
				MemoryMB:     host.MemoryMB,
				MemoryMBUsed: host.MemoryMBUsed,
				Instances:    []instanceSnapshot{},
			}

			instances, err := s.store.ListInstancesByHost(ctx, host.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to list instances for %s: %w", host.Hostname, err)
			}
			for _, inst := range instances {
				is := instanceSnapshot{
					UUID:    inst.UUID,
					Name:    inst.Name,
					Status:  inst.Status,
					Flavor:  inst.FlavorName,
					Project: inst.ProjectID,
				}
				vols, err := s.store.ListVolumesByInstance(ctx, inst.UUID)
				if err != nil {
					return nil, fmt.Errorf("failed to list volumes for %s: %w", inst.UUID, err)
				}
				for _, v := range vols {
					is.Volumes = append(is.Volumes, volumeSnapshot{UUID: v.UUID, SizeGB: v.SizeGB, Device: v.Device})
				}
				hs.Instances = append(hs.Instances, is)
			}
			cs.Hosts = append(cs.Hosts, hs)
		}
		doc.Clusters = append(doc.Clusters, cs)
	}
	return doc, nil
}
