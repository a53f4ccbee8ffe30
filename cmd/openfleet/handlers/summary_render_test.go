package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openfleet/openfleet/internal/summary"
)

func TestRenderSummary(t *testing.T) {
	t.Parallel()
	out := renderSummary([]summary.ClusterStats{
		{
			ClusterName: "dc-east", Release: "Zed",
			HostCount: 2, ReachableHosts: 2, InstanceCount: 14,
			TotalCPU: 96, UsedCPU: 48, CPUPct: 50.0,
			TotalMemGB: 192, UsedMemGB: 80, MemPct: 41.7,
			ActiveAlerts: 1,
		},
	})

	assert.Contains(t, out, "dc-east")
	assert.Contains(t, out, "(Zed)")
	assert.Contains(t, out, "48 / 96 vCPUs")
	assert.Contains(t, out, "80 / 192 GB")
	assert.Contains(t, out, "1 active")
}

func TestRenderPct(t *testing.T) {
	t.Parallel()
	assert.Contains(t, renderPct(50.0), "50.0%")
	assert.Contains(t, renderPct(95.5), "95.5%")
}
