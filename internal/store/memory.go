package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is an in-memory Store. Records are copied on the way in and out so
// callers never share mutable state with the store.
type Memory struct {
	mu sync.RWMutex

	nextClusterID uint
	nextHostID    uint
	nextServiceID uint
	nextAlertID   uint
	nextAuditID   uint

	clusters  map[uint]Cluster
	hosts     map[uint]Host
	instances map[string]Instance
	volumes   map[string]Volume
	services  map[uint]ClusterService
	flavors   map[flavorKey]Flavor
	alerts    map[uint]Alert
	audit     []AuditEntry
}

type flavorKey struct {
	clusterID uint
	uuid      string
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		clusters:  make(map[uint]Cluster),
		hosts:     make(map[uint]Host),
		instances: make(map[string]Instance),
		volumes:   make(map[string]Volume),
		services:  make(map[uint]ClusterService),
		flavors:   make(map[flavorKey]Flavor),
		alerts:    make(map[uint]Alert),
	}
}

func (m *Memory) ListClusters(_ context.Context) ([]Cluster, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Cluster, 0, len(m.clusters))
	for _, c := range m.clusters {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetCluster(_ context.Context, id uint) (*Cluster, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clusters[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *Memory) SaveCluster(_ context.Context, cluster *Cluster) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cluster.ID == 0 {
		m.nextClusterID++
		cluster.ID = m.nextClusterID
	}
	cluster.UpdatedAt = time.Now()
	m.clusters[cluster.ID] = *cluster
	return nil
}

func (m *Memory) GetHost(_ context.Context, clusterID uint, hostname string) (*Host, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, h := range m.hosts {
		if h.ClusterID == clusterID && h.Hostname == hostname {
			host := h
			return &host, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) SaveHost(_ context.Context, host *Host) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if host.ID == 0 {
		m.nextHostID++
		host.ID = m.nextHostID
	}
	m.hosts[host.ID] = *host
	return nil
}

func (m *Memory) ListHostsByCluster(_ context.Context, clusterID uint) ([]Host, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Host
	for _, h := range m.hosts {
		if h.ClusterID == clusterID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListHosts(_ context.Context) ([]Host, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Host, 0, len(m.hosts))
	for _, h := range m.hosts {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetInstance(_ context.Context, uuid string) (*Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.instances[uuid]
	if !ok {
		return nil, ErrNotFound
	}
	return &inst, nil
}

func (m *Memory) SaveInstance(_ context.Context, instance *Instance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.instances[instance.UUID] = *instance
	return nil
}

func (m *Memory) ListInstancesByHost(_ context.Context, hostID uint) ([]Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Instance
	for _, inst := range m.instances {
		if inst.HostID == hostID {
			out = append(out, inst)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UUID < out[j].UUID })
	return out, nil
}

func (m *Memory) ListInstances(_ context.Context) ([]Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Instance, 0, len(m.instances))
	for _, inst := range m.instances {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UUID < out[j].UUID })
	return out, nil
}

func (m *Memory) ReplaceInstanceVolumes(_ context.Context, instanceUUID string, vols []Volume) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for uuid, v := range m.volumes {
		if v.InstanceUUID == instanceUUID {
			delete(m.volumes, uuid)
		}
	}
	for _, v := range vols {
		v.InstanceUUID = instanceUUID
		m.volumes[v.UUID] = v
	}
	return nil
}

func (m *Memory) ListVolumesByInstance(_ context.Context, instanceUUID string) ([]Volume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Volume
	for _, v := range m.volumes {
		if v.InstanceUUID == instanceUUID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UUID < out[j].UUID })
	return out, nil
}

func (m *Memory) UpsertService(_ context.Context, svc *ClusterService) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.services {
		if existing.ClusterID == svc.ClusterID && existing.Binary == svc.Binary && existing.Host == svc.Host {
			svc.ID = id
			svc.UpdatedAt = time.Now()
			m.services[id] = *svc
			return nil
		}
	}
	m.nextServiceID++
	svc.ID = m.nextServiceID
	svc.UpdatedAt = time.Now()
	m.services[svc.ID] = *svc
	return nil
}

func (m *Memory) ListServicesByCluster(_ context.Context, clusterID uint) ([]ClusterService, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ClusterService
	for _, svc := range m.services {
		if svc.ClusterID == clusterID {
			out = append(out, svc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) UpsertFlavor(_ context.Context, flavor *Flavor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	flavor.UpdatedAt = time.Now()
	m.flavors[flavorKey{flavor.ClusterID, flavor.UUID}] = *flavor
	return nil
}

func (m *Memory) GetFlavorByName(_ context.Context, clusterID uint, name string) (*Flavor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for key, f := range m.flavors {
		if key.clusterID == clusterID && f.Name == name {
			flavor := f
			return &flavor, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListFlavorsByCluster(_ context.Context, clusterID uint) ([]Flavor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Flavor
	for key, f := range m.flavors {
		if key.clusterID == clusterID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UUID < out[j].UUID })
	return out, nil
}

func (m *Memory) CreateAlertIfAbsent(_ context.Context, alert *Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.alerts {
		if existing.Active && existing.Title == alert.Title && uintPtrEqual(existing.HostID, alert.HostID) {
			return nil
		}
	}
	m.nextAlertID++
	alert.ID = m.nextAlertID
	alert.CreatedAt = time.Now()
	m.alerts[alert.ID] = *alert
	return nil
}

func (m *Memory) ListActiveAlerts(_ context.Context) ([]Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Alert
	for _, a := range m.alerts {
		if a.Active {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) AppendAudit(_ context.Context, entry *AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextAuditID++
	entry.ID = m.nextAuditID
	entry.CreatedAt = time.Now()
	m.audit = append(m.audit, *entry)
	return nil
}

// AuditEntries returns a copy of all appended audit entries, oldest first.
func (m *Memory) AuditEntries() []AuditEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]AuditEntry, len(m.audit))
	copy(out, m.audit)
	return out
}

func uintPtrEqual(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
