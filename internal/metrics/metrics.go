// Package metrics exposes Prometheus instruments for the sync engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the engine's Prometheus instruments. A nil Recorder is
// valid and records nothing.
type Recorder struct {
	cycles      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	hosts       *prometheus.GaugeVec
	instances   *prometheus.GaugeVec
	apiFailures *prometheus.CounterVec
}

// NewRecorder registers the engine's instruments on the given registerer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "openfleet_sync_cycles_total",
			Help: "Completed sync cycles by cluster and outcome.",
		}, []string{"cluster", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "openfleet_sync_duration_seconds",
			Help:    "Wall-clock duration of sync cycles.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"cluster"}),
		hosts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "openfleet_hosts",
			Help: "Hosts observed in the last successful cycle.",
		}, []string{"cluster"}),
		instances: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "openfleet_instances",
			Help: "Instances observed in the last successful cycle.",
		}, []string{"cluster"}),
		apiFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "openfleet_api_failures_total",
			Help: "Source API call failures by failure kind.",
		}, []string{"cluster", "kind"}),
	}
	reg.MustRegister(r.cycles, r.duration, r.hosts, r.instances, r.apiFailures)
	return r
}

// CycleFinished records one finished cycle.
func (r *Recorder) CycleFinished(cluster, outcome string, seconds float64) {
	if r == nil {
		return
	}
	r.cycles.WithLabelValues(cluster, outcome).Inc()
	r.duration.WithLabelValues(cluster).Observe(seconds)
}

// InventoryObserved records the inventory size of a successful cycle.
func (r *Recorder) InventoryObserved(cluster string, hosts, instances int) {
	if r == nil {
		return
	}
	r.hosts.WithLabelValues(cluster).Set(float64(hosts))
	r.instances.WithLabelValues(cluster).Set(float64(instances))
}

// APIFailure records one classified source API failure.
func (r *Recorder) APIFailure(cluster, kind string) {
	if r == nil {
		return
	}
	r.apiFailures.WithLabelValues(cluster, kind).Inc()
}
