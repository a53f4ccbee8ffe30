package openstack

import (
	"context"
	"time"
)

// Service is one compute service entry (nova-compute, nova-scheduler, ...).
type Service struct {
	Binary string
	Host   string
	Zone   string
	Status string
	State  string
}

// Hypervisor is one compute node as reported by the hypervisor listing.
type Hypervisor struct {
	ID           string
	Hostname     string
	State        string
	Status       string
	HostIP       string
	VCPUs        int
	VCPUsUsed    int
	MemoryMB     int
	MemoryMBUsed int
}

// HypervisorStats is the utilization snapshot from the detail listing.
// It is fetched once per cycle and joined onto hypervisors by hostname.
type HypervisorStats struct {
	Hostname     string
	HostIP       string
	VCPUs        int
	VCPUsUsed    int
	MemoryMB     int
	MemoryMBUsed int
}

// Server is one instance as reported by the compute API.
type Server struct {
	UUID               string
	Name               string
	Status             string
	PowerState         string
	HypervisorHostname string
	FlavorName         string
	ProjectID          string
	UserID             string
	IPAddress          string
	NetworkName        string
	ImageID            string
	KeyName            string
	LaunchedAt         *time.Time
}

// Flavor is one instance size definition.
type Flavor struct {
	UUID     string
	Name     string
	VCPUs    int
	RAMMB    int
	DiskGB   int
	IsPublic bool
}

// VolumeAttachment links a volume to a server.
type VolumeAttachment struct {
	ServerID string
	Device   string
}

// Volume is one block-storage volume, with its current attachments.
type Volume struct {
	UUID        string
	Name        string
	SizeGB      int
	Status      string
	Bootable    bool
	Attachments []VolumeAttachment
}

// BareMetalNode is one Ironic node carrying out-of-band management info.
type BareMetalNode struct {
	ID         string
	Name       string
	InstanceID string
	BMCAddress string
}

// Client is the remote API surface one sync cycle consumes.
//
// Every method issues blocking network calls wrapped in the retry policy;
// a returned error is either a permanent failure or a transient one that
// exhausted its retries, distinguishable via KindOf.
type Client interface {
	// ClusterRelease reports the OpenStack release the cluster runs,
	// derived from the compute API microversion. It never fails hard;
	// unknown or unreachable versions report "Unknown".
	ClusterRelease(ctx context.Context) string

	ListServices(ctx context.Context) ([]Service, error)
	ListHypervisors(ctx context.Context) ([]Hypervisor, error)
	GetHypervisorByName(ctx context.Context, hostname string) (*Hypervisor, error)
	HypervisorStatistics(ctx context.Context) ([]HypervisorStats, error)

	ListServers(ctx context.Context) ([]Server, error)
	ListServersByHost(ctx context.Context, hostname string) ([]Server, error)
	GetServerByUUID(ctx context.Context, uuid string) (*Server, error)
	ServerDiagnostics(ctx context.Context, uuid string) (map[string]any, error)

	ListFlavors(ctx context.Context) ([]Flavor, error)
	ListVolumes(ctx context.Context) ([]Volume, error)
	ListAttachedVolumes(ctx context.Context, serverID string) ([]Volume, error)

	ListBareMetalNodes(ctx context.Context) ([]BareMetalNode, error)
}
