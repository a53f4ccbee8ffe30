// Package summary derives cluster utilization views from the reconciled
// inventory.
package summary

import (
	"context"
	"fmt"
	"math"

	"github.com/openfleet/openfleet/internal/store"
)

// ClusterStats aggregates capacity and utilization over one cluster's hosts.
// Percentages are rounded to one decimal; empty clusters report zero.
type ClusterStats struct {
	ClusterName string `json:"cluster_name"`
	Status      string `json:"status"`
	Release     string `json:"release"`

	HostCount      int `json:"host_count"`
	ReachableHosts int `json:"reachable_hosts"`
	InstanceCount  int `json:"instance_count"`
	ActiveAlerts   int `json:"active_alerts"`

	TotalCPU int     `json:"total_cpu"`
	UsedCPU  int     `json:"used_cpu"`
	CPUPct   float64 `json:"cpu_pct"`

	TotalMemMB int     `json:"total_mem_mb"`
	UsedMemMB  int     `json:"used_mem_mb"`
	MemPct     float64 `json:"mem_pct"`

	TotalMemGB int `json:"total_mem_gb"`
	UsedMemGB  int `json:"used_mem_gb"`
}

// Service computes summaries. It only reads from the store.
type Service struct {
	store store.Store
}

// NewService creates a summary service over the given store.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// ClusterStats aggregates one cluster.
func (s *Service) ClusterStats(ctx context.Context, cluster store.Cluster) (*ClusterStats, error) {
	hosts, err := s.store.ListHostsByCluster(ctx, cluster.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts for %s: %w", cluster.Name, err)
	}

	stats := &ClusterStats{
		ClusterName: cluster.Name,
		Status:      cluster.Status,
		Release:     cluster.Release,
		HostCount:   len(hosts),
	}
	for _, host := range hosts {
		stats.TotalCPU += host.CPUCount
		stats.UsedCPU += host.VCPUsUsed
		stats.TotalMemMB += host.MemoryMB
		stats.UsedMemMB += host.MemoryMBUsed
		if host.Reachable {
			stats.ReachableHosts++
		}

		instances, err := s.store.ListInstancesByHost(ctx, host.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list instances for %s: %w", host.Hostname, err)
		}
		stats.InstanceCount += len(instances)
	}

	if stats.TotalCPU > 0 {
		stats.CPUPct = round1(float64(stats.UsedCPU) / float64(stats.TotalCPU) * 100)
	}
	if stats.TotalMemMB > 0 {
		stats.MemPct = round1(float64(stats.UsedMemMB) / float64(stats.TotalMemMB) * 100)
	}
	stats.TotalMemGB = stats.TotalMemMB / 1024
	stats.UsedMemGB = stats.UsedMemMB / 1024

	alerts, err := s.store.ListActiveAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	hostIDs := make(map[uint]struct{}, len(hosts))
	for _, h := range hosts {
		hostIDs[h.ID] = struct{}{}
	}
	for _, a := range alerts {
		switch {
		case a.ClusterID != nil && *a.ClusterID == cluster.ID:
			stats.ActiveAlerts++
		case a.HostID != nil:
			if _, ok := hostIDs[*a.HostID]; ok {
				stats.ActiveAlerts++
			}
		}
	}

	return stats, nil
}

// FleetStats aggregates every cluster, in listing order.
func (s *Service) FleetStats(ctx context.Context) ([]ClusterStats, error) {
	clusters, err := s.store.ListClusters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}

	out := make([]ClusterStats, 0, len(clusters))
	for _, cluster := range clusters {
		stats, err := s.ClusterStats(ctx, cluster)
		if err != nil {
			return nil, err
		}
		out = append(out, *stats)
	}
	return out, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
