package orchestration

import "time"

// Status classifies how a cycle ended.
type Status string

const (
	// StatusSucceeded means the cycle completed and the cluster is online.
	StatusSucceeded Status = "succeeded"
	// StatusFailed means a primary listing or a store write failed; the
	// cluster is marked offline and its records are left as they were.
	StatusFailed Status = "failed"
	// StatusSkipped means another cycle for the same cluster was already
	// running. Nothing was fetched or written.
	StatusSkipped Status = "skipped"
)

// Outcome summarizes one sync cycle for one cluster.
type Outcome struct {
	CycleID     string
	ClusterID   uint
	ClusterName string
	Status      Status
	Release     string

	Hosts     int
	Instances int
	Flavors   int

	Started  time.Time
	Finished time.Time
	Err      error
}

// Duration is the wall-clock time the cycle took.
func (o Outcome) Duration() time.Duration {
	return o.Finished.Sub(o.Started)
}
