package handlers

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/openfleet/openfleet/internal/orchestration"
)

func sampleOutcomes() []orchestration.Outcome {
	started := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	return []orchestration.Outcome{
		{
			ClusterName: "dc-east", CycleID: "c-1", Status: orchestration.StatusSucceeded,
			Release: "Zed", Hosts: 12, Instances: 140, Flavors: 20,
			Started: started, Finished: started.Add(8 * time.Second),
		},
		{
			ClusterName: "dc-west", CycleID: "c-2", Status: orchestration.StatusFailed,
			Err:     errors.New("failed to list hypervisors: 503"),
			Started: started, Finished: started.Add(2 * time.Second),
		},
		{
			ClusterName: "dc-north", CycleID: "c-3", Status: orchestration.StatusSkipped,
			Started: started, Finished: started,
		},
	}
}

func TestRenderOutcomes(t *testing.T) {
	t.Parallel()
	out := renderOutcomes(sampleOutcomes())

	assert.Contains(t, out, "dc-east")
	assert.Contains(t, out, "Zed")
	assert.Contains(t, out, "dc-west")
	assert.Contains(t, out, "failed to list hypervisors")
	assert.Contains(t, out, "1 succeeded, 1 failed, 1 skipped")
	assert.Contains(t, out, "12 hosts, 140 instances")
}

func TestOutcomeViews(t *testing.T) {
	t.Parallel()
	views := outcomeViews(sampleOutcomes())

	assert.Len(t, views, 3)
	assert.Equal(t, "dc-east", views[0].Cluster)
	assert.Equal(t, "succeeded", views[0].Status)
	assert.Equal(t, 8.0, views[0].Seconds)
	assert.Empty(t, views[0].Error)
	assert.Equal(t, "failed to list hypervisors: 503", views[1].Error)
}
