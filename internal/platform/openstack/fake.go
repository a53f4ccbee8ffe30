package openstack

import (
	"context"
	"sync"
)

// Fake is an in-memory Client used by tests across packages. Calls return
// the configured collections; per-call errors can be injected by call name
// (the keys match the Client method names).
type Fake struct {
	mu sync.Mutex

	Release    string
	Services   []Service
	Hypervisors []Hypervisor
	Stats      []HypervisorStats
	Servers    []Server
	Flavors    []Flavor
	Volumes    []Volume
	Nodes      []BareMetalNode
	Diags      map[string]map[string]any

	// Errors maps a method name to the error it should return.
	Errors map[string]error

	// Calls records the method invocation order.
	Calls []string
}

var _ Client = (*Fake)(nil)

func (f *Fake) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
	if f.Errors == nil {
		return nil
	}
	return f.Errors[call]
}

func (f *Fake) ClusterRelease(_ context.Context) string {
	_ = f.record("ClusterRelease")
	if f.Release == "" {
		return "Unknown"
	}
	return f.Release
}

func (f *Fake) ListServices(_ context.Context) ([]Service, error) {
	if err := f.record("ListServices"); err != nil {
		return nil, err
	}
	return append([]Service(nil), f.Services...), nil
}

func (f *Fake) ListHypervisors(_ context.Context) ([]Hypervisor, error) {
	if err := f.record("ListHypervisors"); err != nil {
		return nil, err
	}
	return append([]Hypervisor(nil), f.Hypervisors...), nil
}

func (f *Fake) GetHypervisorByName(_ context.Context, hostname string) (*Hypervisor, error) {
	if err := f.record("GetHypervisorByName"); err != nil {
		return nil, err
	}
	for _, h := range f.Hypervisors {
		if h.Hostname == hostname {
			hyp := h
			return &hyp, nil
		}
	}
	return nil, &APIError{Call: "get hypervisor by name", Kind: KindNotFound}
}

func (f *Fake) HypervisorStatistics(_ context.Context) ([]HypervisorStats, error) {
	if err := f.record("HypervisorStatistics"); err != nil {
		return nil, err
	}
	return append([]HypervisorStats(nil), f.Stats...), nil
}

func (f *Fake) ListServers(_ context.Context) ([]Server, error) {
	if err := f.record("ListServers"); err != nil {
		return nil, err
	}
	return append([]Server(nil), f.Servers...), nil
}

func (f *Fake) ListServersByHost(_ context.Context, hostname string) ([]Server, error) {
	if err := f.record("ListServersByHost"); err != nil {
		return nil, err
	}
	var out []Server
	for _, s := range f.Servers {
		if s.HypervisorHostname == hostname {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *Fake) GetServerByUUID(_ context.Context, uuid string) (*Server, error) {
	if err := f.record("GetServerByUUID"); err != nil {
		return nil, err
	}
	for _, s := range f.Servers {
		if s.UUID == uuid {
			srv := s
			return &srv, nil
		}
	}
	return nil, &APIError{Call: "get server by uuid", Kind: KindNotFound}
}

func (f *Fake) ServerDiagnostics(_ context.Context, uuid string) (map[string]any, error) {
	if err := f.record("ServerDiagnostics"); err != nil {
		return nil, err
	}
	return f.Diags[uuid], nil
}

func (f *Fake) ListFlavors(_ context.Context) ([]Flavor, error) {
	if err := f.record("ListFlavors"); err != nil {
		return nil, err
	}
	return append([]Flavor(nil), f.Flavors...), nil
}

func (f *Fake) ListVolumes(_ context.Context) ([]Volume, error) {
	if err := f.record("ListVolumes"); err != nil {
		return nil, err
	}
	return append([]Volume(nil), f.Volumes...), nil
}

func (f *Fake) ListAttachedVolumes(_ context.Context, serverID string) ([]Volume, error) {
	if err := f.record("ListAttachedVolumes"); err != nil {
		return nil, err
	}
	var out []Volume
	for _, v := range f.Volumes {
		for _, att := range v.Attachments {
			if att.ServerID == serverID {
				out = append(out, v)
				break
			}
		}
	}
	return out, nil
}

func (f *Fake) ListBareMetalNodes(_ context.Context) ([]BareMetalNode, error) {
	if err := f.record("ListBareMetalNodes"); err != nil {
		return nil, err
	}
	return append([]BareMetalNode(nil), f.Nodes...), nil
}

// CallCount returns how many times the named method was invoked.
func (f *Fake) CallCount(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == call {
			n++
		}
	}
	return n
}
