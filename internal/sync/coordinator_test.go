package sync

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/vitalsync/internal/config"
	"github.com/asteroid-belt/vitalsync/internal/db"
	"github.com/asteroid-belt/vitalsync/internal/hash"
	"github.com/asteroid-belt/vitalsync/internal/models"
)

type fakeFetcher struct {
	archive *Archive
	err     error
	calls   int
}

func (f *fakeFetcher) Fetch(ctx context.Context) (*Archive, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.archive, nil
}

func testCoordinator(t *testing.T, fetcher Fetcher) (*Coordinator, *db.DB) {
	t.Helper()

	dir := t.TempDir()
	store, err := db.New(db.DefaultConfig(filepath.Join(dir, "health.db")))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	paths := config.Paths{
		Database: filepath.Join(dir, "health.db"),
		CacheDir: filepath.Join(dir, "cache"),
		LockFile: filepath.Join(dir, "sync.lock"),
	}
	return NewCoordinator(store, fetcher, paths, time.UTC), store
}

func TestSync_MergesNewArchive(t *testing.T) {
	fx := defaultFixture()
	fetcher := &fakeFetcher{archive: buildArchive(t, buildExportDB(t, fx))}
	coord, store := testCoordinator(t, fetcher)

	res, err := coord.Sync(context.Background(), false)
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Len(t, res.ArchiveHash, 64)
	assert.Equal(t, int64(1), res.Merged[models.KindSleep])
	assert.Equal(t, int64(2), res.Merged[models.KindSteps])
	assert.Equal(t, int64(3), res.Merged[models.KindHeartRate])
	assert.Equal(t, int64(2), res.Merged[models.KindSpO2])
	assert.Equal(t, int64(1), res.Merged[models.KindWorkout])

	counts, err := store.RecordCounts()
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[models.KindHeartRate])

	state, err := store.GetSyncState()
	require.NoError(t, err)
	assert.Equal(t, res.ArchiveHash, state.ArchiveHash)
	assert.NotNil(t, state.LastSyncAt)
	assert.Greater(t, state.WatermarkMS, int64(0))
}

func TestSync_UnchangedArchiveSkipsMerge(t *testing.T) {
	fetcher := &fakeFetcher{archive: buildArchive(t, buildExportDB(t, defaultFixture()))}
	coord, _ := testCoordinator(t, fetcher)

	first, err := coord.Sync(context.Background(), false)
	require.NoError(t, err)
	require.True(t, first.Changed)

	second, err := coord.Sync(context.Background(), false)
	require.NoError(t, err)

	assert.False(t, second.Changed)
	assert.Equal(t, first.ArchiveHash, second.ArchiveHash)
	// Fast path still reports the last merge's counters.
	assert.Equal(t, first.Merged, second.Merged)
}

func TestSync_ForceRemergesIdempotently(t *testing.T) {
	fetcher := &fakeFetcher{archive: buildArchive(t, buildExportDB(t, defaultFixture()))}
	coord, store := testCoordinator(t, fetcher)

	_, err := coord.Sync(context.Background(), false)
	require.NoError(t, err)

	before, err := store.RecordCounts()
	require.NoError(t, err)

	res, err := coord.Sync(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, res.Changed)

	after, err := store.RecordCounts()
	require.NoError(t, err)
	assert.Equal(t, before, after, "re-merge rewrites rows in place")
}

func TestSync_GrowingArchiveAddsWithoutDuplicating(t *testing.T) {
	fx := defaultFixture()
	fetcher := &fakeFetcher{archive: buildArchive(t, buildExportDB(t, fx))}
	coord, store := testCoordinator(t, fetcher)

	_, err := coord.Sync(context.Background(), false)
	require.NoError(t, err)

	// Next export: same records plus one more day of steps.
	fx.Steps = append(fx.Steps, 6200)
	fetcher.archive = buildArchive(t, buildExportDB(t, fx))

	res, err := coord.Sync(context.Background(), false)
	require.NoError(t, err)
	require.True(t, res.Changed)

	counts, err := store.RecordCounts()
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[models.KindSteps])
	assert.Equal(t, int64(1), counts[models.KindSleep])
}

func TestSync_CachesFetchedArchive(t *testing.T) {
	fetcher := &fakeFetcher{archive: buildArchive(t, buildExportDB(t, defaultFixture()))}
	coord, _ := testCoordinator(t, fetcher)

	res, err := coord.Sync(context.Background(), false)
	require.NoError(t, err)

	// The on-disk copy must hash to the merged archive, so status can
	// tell a fresh cache from a stale one.
	got, err := hash.FileID(CachedArchivePath(coord.paths))
	require.NoError(t, err)
	assert.Equal(t, res.ArchiveHash, got)
}

func TestSync_FetchFailureLeavesStoreUntouched(t *testing.T) {
	fetcher := &fakeFetcher{err: ErrRemoteUnavailable}
	coord, store := testCoordinator(t, fetcher)

	_, err := coord.Sync(context.Background(), false)
	require.ErrorIs(t, err, ErrRemoteUnavailable)

	state, err := store.GetSyncState()
	require.NoError(t, err)
	assert.Empty(t, state.ArchiveHash)
	assert.Nil(t, state.LastSyncAt)
}

func TestSync_CorruptArchiveLeavesStoreUntouched(t *testing.T) {
	good := buildArchive(t, buildExportDB(t, defaultFixture()))
	fetcher := &fakeFetcher{archive: good}
	coord, store := testCoordinator(t, fetcher)

	_, err := coord.Sync(context.Background(), false)
	require.NoError(t, err)
	stateBefore, err := store.GetSyncState()
	require.NoError(t, err)

	fetcher.archive = &Archive{Name: "broken.zip", Data: []byte("garbage")}
	_, err = coord.Sync(context.Background(), false)
	require.ErrorIs(t, err, ErrCorruptArchive)

	stateAfter, err := store.GetSyncState()
	require.NoError(t, err)
	assert.Equal(t, stateBefore.ArchiveHash, stateAfter.ArchiveHash)
	assert.Equal(t, stateBefore.WatermarkMS, stateAfter.WatermarkMS)
}

func TestSync_ConcurrentRunRejected(t *testing.T) {
	fetcher := &fakeFetcher{archive: buildArchive(t, buildExportDB(t, defaultFixture()))}
	coord, _ := testCoordinator(t, fetcher)

	blocker := make(chan struct{})
	release := make(chan struct{})
	slowFetcher := &blockingFetcher{inner: fetcher, started: blocker, release: release}
	coord.fetcher = slowFetcher

	errCh := make(chan error, 1)
	go func() {
		_, err := coord.Sync(context.Background(), false)
		errCh <- err
	}()

	<-blocker
	_, err := coord.Sync(context.Background(), false)
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(release)
	require.NoError(t, <-errCh)
}

type blockingFetcher struct {
	inner   Fetcher
	started chan struct{}
	release chan struct{}
	once    bool
}

func (b *blockingFetcher) Fetch(ctx context.Context) (*Archive, error) {
	if !b.once {
		b.once = true
		close(b.started)
		<-b.release
	}
	return b.inner.Fetch(ctx)
}

func TestSync_FetchErrorPassthrough(t *testing.T) {
	sentinel := errors.New("boom")
	fetcher := &fakeFetcher{err: sentinel}
	coord, _ := testCoordinator(t, fetcher)

	_, err := coord.Sync(context.Background(), false)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, fetcher.calls)
}
