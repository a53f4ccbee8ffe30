package orchestration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfleet/openfleet/internal/store"
)

type fakeObjectStore struct {
	buckets map[string]bool
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{buckets: map[string]bool{}, objects: map[string][]byte{}}
}

func (f *fakeObjectStore) EnsureBucket(_ context.Context, bucket string) error {
	f.buckets[bucket] = true
	return nil
}

func (f *fakeObjectStore) PutObject(_ context.Context, bucket, key string, data []byte) error {
	f.objects[bucket+"/"+key] = data
	return nil
}

func TestSnapshotter_Export(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()

	cluster := seedCluster(t, st, "dc-east")
	o := NewOrchestrator(st, staticConnect(populatedFake()), logr.Discard())
	require.Equal(t, StatusSucceeded, o.SyncCluster(ctx, cluster).Status)

	objects := newFakeObjectStore()
	snap := NewSnapshotter(st, objects, "openfleet-snapshots", logr.Discard())
	snap.now = func() time.Time { return time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC) }

	key, err := snap.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "snapshots/2026-04-01T09-30-00Z.json", key)
	assert.True(t, objects.buckets["openfleet-snapshots"])

	raw := objects.objects["openfleet-snapshots/"+key]
	require.NotEmpty(t, raw)

	var doc snapshotDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc.Clusters, 1)
	assert.Equal(t, "dc-east", doc.Clusters[0].Name)
	assert.Equal(t, "online", doc.Clusters[0].Status)
	assert.Equal(t, 1, doc.Clusters[0].Services)
	require.Len(t, doc.Clusters[0].Hosts, 1)
	assert.Len(t, doc.Clusters[0].Hosts[0].Instances, 2)
}

func TestSnapshotter_EmptyInventory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.NewMemory()
	objects := newFakeObjectStore()

	snap := NewSnapshotter(st, objects, "openfleet-snapshots", logr.Discard())
	key, err := snap.Export(ctx)
	require.NoError(t, err)

	var doc snapshotDoc
	require.NoError(t, json.Unmarshal(objects.objects["openfleet-snapshots/"+key], &doc))
	assert.Empty(t, doc.Clusters)
}
