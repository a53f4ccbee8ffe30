package orchestration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/openfleet/openfleet/internal/inventory"
	"github.com/openfleet/openfleet/internal/metrics"
	"github.com/openfleet/openfleet/internal/platform/openstack"
	"github.com/openfleet/openfleet/internal/store"
)

// ConnectFunc opens an authenticated API client for one cluster.
type ConnectFunc func(ctx context.Context, cluster store.Cluster) (openstack.Client, error)

// Orchestrator runs sync cycles. Safe for concurrent use.
type Orchestrator struct {
	store   store.Store
	connect ConnectFunc
	log     logr.Logger
	rec     *metrics.Recorder
	limit   int
	now     func() time.Time

	mu       sync.Mutex
	inflight map[uint]struct{}
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithConcurrency caps how many clusters sync at once. Default 4.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithMetrics attaches a Prometheus recorder.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(o *Orchestrator) { o.rec = rec }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator creates an orchestrator over the given store and client
// factory.
func NewOrchestrator(st store.Store, connect ConnectFunc, log logr.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:    st,
		connect:  connect,
		log:      log,
		limit:    4,
		now:      time.Now,
		inflight: make(map[uint]struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SyncAll runs one cycle for every configured cluster, up to the concurrency
// limit in parallel. A failing cluster never stops the others; each result
// is reported in its own outcome.
func (o *Orchestrator) SyncAll(ctx context.Context) ([]Outcome, error) {
	clusters, err := o.store.ListClusters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}

	outcomes := make([]Outcome, len(clusters))
	g := &errgroup.Group{}
	g.SetLimit(o.limit)
	for i, cluster := range clusters {
		i, cluster := i, cluster
		g.Go(func() error {
			outcomes[i] = o.SyncCluster(ctx, cluster)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes, nil
}

// SyncCluster runs one full cycle for one cluster. If a cycle for the same
// cluster is already in flight the call returns a skipped outcome without
// touching the source or the store.
func (o *Orchestrator) SyncCluster(ctx context.Context, cluster store.Cluster) Outcome {
	out := Outcome{
		CycleID:     uuid.NewString(),
		ClusterID:   cluster.ID,
		ClusterName: cluster.Name,
		Started:     o.now(),
	}
	log := o.log.WithValues("cluster", cluster.Name, "cycle", out.CycleID)

	if !o.acquire(cluster.ID) {
		out.Status = StatusSkipped
		out.Finished = o.now()
		log.Info("sync already in flight, skipping")
		o.rec.CycleFinished(cluster.Name, string(StatusSkipped), 0)
		return out
	}
	defer o.release(cluster.ID)

	log.Info("starting sync cycle")
	err := o.runCycle(ctx, log, cluster, &out)
	out.Finished = o.now()

	if err != nil {
		out.Status = StatusFailed
		out.Err = err
		o.rec.APIFailure(cluster.Name, openstack.KindOf(err).String())
		log.Error(err, "sync cycle failed, marking cluster offline")
		o.setClusterStatus(ctx, log, cluster, "offline", out.Release)
	} else {
		out.Status = StatusSucceeded
		log.Info("sync cycle finished",
			"hosts", out.Hosts, "instances", out.Instances, "duration", out.Duration().String())
		o.setClusterStatus(ctx, log, cluster, "online", out.Release)
		o.rec.InventoryObserved(cluster.Name, out.Hosts, out.Instances)
	}
	o.rec.CycleFinished(cluster.Name, string(out.Status), out.Duration().Seconds())
	o.audit(ctx, log, cluster, out)
	return out
}

// runCycle is the cycle body: connect, fetch, build maps, reconcile.
func (o *Orchestrator) runCycle(ctx context.Context, log logr.Logger, cluster store.Cluster, out *Outcome) error {
	client, err := o.connect(ctx, cluster)
	if err != nil {
		return fmt.Errorf("failed to connect to cluster %s: %w", cluster.Name, err)
	}

	out.Release = client.ClusterRelease(ctx)

	services, err := client.ListServices(ctx)
	if err != nil {
		return fmt.Errorf("failed to list services: %w", err)
	}
	if err := inventory.SyncServices(ctx, o.store, cluster.ID, out.Release, services); err != nil {
		return err
	}

	// Flavor listing failures degrade: cost lookups fall back to the
	// previously synced definitions.
	if flavors, err := client.ListFlavors(ctx); err != nil {
		log.Info("failed to list flavors, keeping previous definitions", "error", err.Error())
	} else {
		n, err := inventory.SyncFlavors(ctx, o.store, cluster.ID, flavors, o.now())
		if err != nil {
			return err
		}
		out.Flavors = n
	}

	hypervisors, err := client.ListHypervisors(ctx)
	if err != nil {
		return fmt.Errorf("failed to list hypervisors: %w", err)
	}

	maps := inventory.BuildMaps(ctx, client, log)

	for _, hyp := range hypervisors {
		host, err := inventory.SyncHypervisor(ctx, o.store, cluster.ID, out.Release, hyp, maps, o.now())
		if err != nil {
			return err
		}
		out.Hosts++

		for _, srv := range maps.Instances[hyp.Hostname] {
			if _, err := inventory.SyncInstance(ctx, o.store, host, srv, maps, o.now()); err != nil {
				return err
			}
			out.Instances++
		}
	}
	return nil
}

func (o *Orchestrator) acquire(clusterID uint) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inflight[clusterID]; busy {
		return false
	}
	o.inflight[clusterID] = struct{}{}
	return true
}

func (o *Orchestrator) release(clusterID uint) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inflight, clusterID)
}

// setClusterStatus persists the online/offline flip and the detected
// release. Failures here are logged, not escalated: the cycle outcome is
// already decided.
func (o *Orchestrator) setClusterStatus(ctx context.Context, log logr.Logger, cluster store.Cluster, status, release string) {
	cluster.Status = status
	if release != "" {
		cluster.Release = release
	}
	cluster.UpdatedAt = o.now()
	if err := o.store.SaveCluster(ctx, &cluster); err != nil {
		log.Error(err, "failed to persist cluster status", "status", status)
	}
}

func (o *Orchestrator) audit(ctx context.Context, log logr.Logger, cluster store.Cluster, out Outcome) {
	entry := &store.AuditEntry{
		Action: "sync_cluster",
		Target: cluster.Name,
		Details: fmt.Sprintf("cycle %s %s: %d hosts, %d instances, %d flavors in %s",
			out.CycleID, out.Status, out.Hosts, out.Instances, out.Flavors, out.Duration().Round(time.Millisecond)),
		CreatedAt: o.now(),
	}
	if err := o.store.AppendAudit(ctx, entry); err != nil {
		log.Error(err, "failed to append audit entry")
	}
}
