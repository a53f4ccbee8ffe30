package cost

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *ProjectReport {
	return &ProjectReport{
		Currency: "EUR",
		Projects: []ProjectCost{
			{ProjectID: "proj-a", InstanceCount: 2, VCPUs: 8, TotalMonthly: 64.50},
			{ProjectID: "proj-b", InstanceCount: 1, VCPUs: 1, TotalMonthly: 8.06},
		},
		TotalMonthly:    72.56,
		ProjectedYearly: 870.72,
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()
	out := NewFormatter().Format(sampleReport())

	assert.Contains(t, out, "proj-a")
	assert.Contains(t, out, "64.50")
	assert.Contains(t, out, "Projected yearly")
	assert.Contains(t, out, "870.72")

	// Every box line is equally wide.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	width := len([]rune(lines[0]))
	for _, line := range lines {
		assert.Equal(t, width, len([]rune(line)), "line %q", line)
	}
}

func TestFormatCompact(t *testing.T) {
	t.Parallel()
	out := NewFormatter().FormatCompact(sampleReport())
	assert.Equal(t, "2 projects: 72.56 EUR/mo (870.72 EUR/yr)", out)
}

func TestFormatJSON(t *testing.T) {
	t.Parallel()
	out := NewFormatter().FormatJSON(sampleReport())

	var decoded ProjectReport
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, *sampleReport(), decoded)
}

func TestFormatCluster(t *testing.T) {
	t.Parallel()
	out := NewFormatter().FormatCluster(&ClusterReport{
		ClusterName: "dc-east", Currency: "EUR",
		TotalMonthly: 72.56, HostCount: 1, InstanceCount: 3, AvgPerInstance: 24.19,
	})
	assert.Contains(t, out, "dc-east")
	assert.Contains(t, out, "72.56")
	assert.Contains(t, out, "Avg per instance")
}
