// Package store holds the persisted inventory records and the record-mapping
// interface the sync engine writes through.
//
// Two implementations exist: an in-memory store used by tests and a
// GORM/SQLite store used by the CLI. The sync engine is the sole writer of
// the synced fields; derived services (cost, summary) only read.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Cluster is one managed OpenStack deployment.
type Cluster struct {
	ID                uint `gorm:"primaryKey"`
	Name              string
	AuthURL           string
	Username          string
	Password          string
	ProjectName       string
	RegionName        string
	UserDomainName    string
	ProjectDomainName string

	// Status is unknown, online or offline, flipped by sync outcomes.
	Status  string
	Release string

	UpdatedAt time.Time
}

// Host is one hypervisor. Identity is scoped to (ClusterID, Hostname),
// never global.
type Host struct {
	ID        uint   `gorm:"primaryKey"`
	ClusterID uint   `gorm:"uniqueIndex:idx_host_cluster_hostname"`
	Hostname  string `gorm:"uniqueIndex:idx_host_cluster_hostname"`

	IPAddress  string
	BMCAddress string
	State      string
	Status     string

	CPUCount     int
	VCPUsUsed    int
	MemoryMB     int
	MemoryMBUsed int

	// ServerModel names the hardware profile used by the cost model. It is
	// operator-maintained, never written by the sync engine.
	ServerModel string

	HardwareHealth string
	Release        string
	Reachable      bool
	LastSyncedAt   time.Time
}

// Instance is one virtual machine. Identity is its source UUID, stable
// across its whole life; the host reference moves on migration.
type Instance struct {
	UUID   string `gorm:"primaryKey"`
	HostID uint   `gorm:"index"`

	Name        string
	Status      string
	PowerState  string
	FlavorName  string
	ProjectID   string
	UserID      string
	ImageID     string
	KeyName     string
	IPAddress   string
	NetworkName string

	LaunchedAt   *time.Time
	LastSyncedAt time.Time
}

// Volume is one block-storage volume attached to an instance.
type Volume struct {
	UUID         string `gorm:"primaryKey"`
	InstanceUUID string `gorm:"index"`

	Name     string
	SizeGB   int
	Device   string
	Status   string
	Bootable bool
}

// ClusterService is one compute service entry, keyed by
// (ClusterID, Binary, Host).
type ClusterService struct {
	ID        uint   `gorm:"primaryKey"`
	ClusterID uint   `gorm:"uniqueIndex:idx_service_identity"`
	Binary    string `gorm:"uniqueIndex:idx_service_identity"`
	Host      string `gorm:"uniqueIndex:idx_service_identity"`

	Zone      string
	Status    string
	State     string
	Release   string
	UpdatedAt time.Time
}

// Flavor is one instance size definition, keyed by (ClusterID, UUID).
type Flavor struct {
	UUID      string `gorm:"primaryKey"`
	ClusterID uint   `gorm:"primaryKey;autoIncrement:false"`

	Name     string
	VCPUs    int
	RAMMB    int
	DiskGB   int
	IsPublic bool

	UpdatedAt time.Time
}

// Alert is an observational record referencing a host or cluster. The sync
// engine does not produce alerts; the hardware poller does.
type Alert struct {
	ID        uint `gorm:"primaryKey"`
	Source    string
	HostID    *uint
	ClusterID *uint

	Title       string
	Description string
	Severity    string
	Active      bool

	CreatedAt time.Time
}

// AuditEntry records one operational action for traceability.
type AuditEntry struct {
	ID      uint `gorm:"primaryKey"`
	Action  string
	Target  string
	Details string

	CreatedAt time.Time
}

// ClusterStore accesses cluster records.
type ClusterStore interface {
	ListClusters(ctx context.Context) ([]Cluster, error)
	GetCluster(ctx context.Context, id uint) (*Cluster, error)
	SaveCluster(ctx context.Context, cluster *Cluster) error
}

// HostStore accesses host records by their scoped identity.
type HostStore interface {
	// GetHost returns ErrNotFound when no record exists for the identity.
	GetHost(ctx context.Context, clusterID uint, hostname string) (*Host, error)
	SaveHost(ctx context.Context, host *Host) error
	ListHostsByCluster(ctx context.Context, clusterID uint) ([]Host, error)
	ListHosts(ctx context.Context) ([]Host, error)
}

// InstanceStore accesses instance records by source UUID.
type InstanceStore interface {
	GetInstance(ctx context.Context, uuid string) (*Instance, error)
	SaveInstance(ctx context.Context, instance *Instance) error
	ListInstancesByHost(ctx context.Context, hostID uint) ([]Instance, error)
	ListInstances(ctx context.Context) ([]Instance, error)
}

// VolumeStore accesses volume attachment records.
type VolumeStore interface {
	// ReplaceInstanceVolumes swaps the instance's attachment set for
	// exactly the given volumes (set-replacement, not additive).
	ReplaceInstanceVolumes(ctx context.Context, instanceUUID string, vols []Volume) error
	ListVolumesByInstance(ctx context.Context, instanceUUID string) ([]Volume, error)
}

// ServiceStore accesses compute service records.
type ServiceStore interface {
	UpsertService(ctx context.Context, svc *ClusterService) error
	ListServicesByCluster(ctx context.Context, clusterID uint) ([]ClusterService, error)
}

// FlavorStore accesses flavor records.
type FlavorStore interface {
	UpsertFlavor(ctx context.Context, flavor *Flavor) error
	GetFlavorByName(ctx context.Context, clusterID uint, name string) (*Flavor, error)
	ListFlavorsByCluster(ctx context.Context, clusterID uint) ([]Flavor, error)
}

// AlertStore accesses alert records.
type AlertStore interface {
	// CreateAlertIfAbsent inserts the alert unless an active alert with the
	// same title already targets the same host.
	CreateAlertIfAbsent(ctx context.Context, alert *Alert) error
	ListActiveAlerts(ctx context.Context) ([]Alert, error)
}

// AuditStore appends audit entries.
type AuditStore interface {
	AppendAudit(ctx context.Context, entry *AuditEntry) error
}

// Store combines all record access the engine and its derived services use.
type Store interface {
	ClusterStore
	HostStore
	InstanceStore
	VolumeStore
	ServiceStore
	FlavorStore
	AlertStore
	AuditStore
}
