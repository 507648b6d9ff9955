package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/asteroid-belt/vitalsync/internal/config"
	"github.com/asteroid-belt/vitalsync/internal/db"
	"github.com/asteroid-belt/vitalsync/internal/hash"
	"github.com/asteroid-belt/vitalsync/internal/models"
)

// cachedArchiveName is the filename the last fetched archive is kept
// under in the cache dir.
const cachedArchiveName = "archive.zip"

// CachedArchivePath returns where the last fetched archive lives on
// disk. Status compares its content hash against the sync state to tell
// whether the cache still matches what was merged.
func CachedArchivePath(p config.Paths) string {
	return filepath.Join(p.CacheDir, cachedArchiveName)
}

// Result reports what one sync run did.
type Result struct {
	// Changed is false when the remote archive matched the last merged
	// one and the merge was skipped.
	Changed bool `json:"changed"`

	ArchiveHash string                      `json:"archive_hash"`
	Merged      map[models.RecordKind]int64 `json:"merged"`
	Duration    time.Duration               `json:"duration"`
}

// Coordinator runs the fetch-compare-merge cycle. Only one sync runs at
// a time per machine; concurrent invocations fail fast with
// ErrSyncInProgress instead of queuing.
type Coordinator struct {
	store   *db.DB
	fetcher Fetcher
	paths   config.Paths
	loc     *time.Location
}

// NewCoordinator wires a coordinator around a store and a fetcher.
func NewCoordinator(store *db.DB, fetcher Fetcher, paths config.Paths, loc *time.Location) *Coordinator {
	return &Coordinator{store: store, fetcher: fetcher, paths: paths, loc: loc}
}

// Sync fetches the remote archive and merges it into the store. When
// the archive hash matches the last merged one the merge is skipped
// entirely; force overrides that and re-merges (the upsert identity
// makes this a rewrite, not a duplication). The merge itself is
// all-or-nothing: every kind plus the sync-state advance commit in one
// transaction.
func (c *Coordinator) Sync(ctx context.Context, force bool) (*Result, error) {
	started := time.Now()

	lock := flock.New(c.paths.LockFile)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire sync lock: %w", err)
	}
	if !locked {
		return nil, ErrSyncInProgress
	}
	defer lock.Unlock()

	archive, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	archiveHash := hash.ArchiveID(archive.Data)

	state, err := c.store.GetSyncState()
	if err != nil {
		return nil, fmt.Errorf("read sync state: %w", err)
	}

	if !force && state.ArchiveHash == archiveHash {
		return &Result{
			Changed:     false,
			ArchiveHash: archiveHash,
			Merged:      state.MergedByKind(),
			Duration:    time.Since(started),
		}, nil
	}

	if err := c.cacheArchive(archive); err != nil {
		return nil, err
	}

	dbPath, err := ExtractDatabase(archive, c.paths.CacheDir)
	if err != nil {
		return nil, err
	}

	reader, err := OpenExport(dbPath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	snap, err := reader.ReadAll(c.loc)
	if err != nil {
		return nil, err
	}

	// A re-merge of an older or identical archive must not trip the
	// forward-only watermark, so the advance carries whichever is newer.
	watermark := snap.NewestMS
	if state.WatermarkMS > watermark {
		watermark = state.WatermarkMS
	}

	merged := map[models.RecordKind]int64{
		models.KindSleep:     int64(len(snap.Sleep)),
		models.KindSteps:     int64(len(snap.Steps)),
		models.KindHeartRate: int64(len(snap.HeartRate)),
		models.KindSpO2:      int64(len(snap.SpO2)),
		models.KindWorkout:   int64(len(snap.Workouts)),
	}

	err = c.store.Transaction(func(tx *db.DB) error {
		if err := tx.UpsertSleepSessions(snap.Sleep); err != nil {
			return fmt.Errorf("merge sleep: %w", err)
		}
		if err := tx.UpsertStepRecords(snap.Steps); err != nil {
			return fmt.Errorf("merge steps: %w", err)
		}
		if err := tx.UpsertHeartRateSamples(snap.HeartRate); err != nil {
			return fmt.Errorf("merge heart rate: %w", err)
		}
		if err := tx.UpsertSpO2Samples(snap.SpO2); err != nil {
			return fmt.Errorf("merge spo2: %w", err)
		}
		if err := tx.UpsertWorkoutSessions(snap.Workouts); err != nil {
			return fmt.Errorf("merge workouts: %w", err)
		}
		return tx.AdvanceSyncState(&models.SyncState{
			ArchiveHash:     archiveHash,
			WatermarkMS:     watermark,
			MergedSleep:     merged[models.KindSleep],
			MergedSteps:     merged[models.KindSteps],
			MergedHeartRate: merged[models.KindHeartRate],
			MergedSpO2:      merged[models.KindSpO2],
			MergedWorkouts:  merged[models.KindWorkout],
		})
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Changed:     true,
		ArchiveHash: archiveHash,
		Merged:      merged,
		Duration:    time.Since(started),
	}, nil
}

// cacheArchive keeps the fetched archive on disk so the raw export can
// be re-inspected without another download.
func (c *Coordinator) cacheArchive(archive *Archive) error {
	if err := os.MkdirAll(c.paths.CacheDir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(c.paths.CacheDir, cachedArchiveName+".tmp-")
	if err != nil {
		return fmt.Errorf("cache archive: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(archive.Data); err != nil {
		tmp.Close()
		return fmt.Errorf("cache archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache archive: %w", err)
	}
	return os.Rename(tmp.Name(), CachedArchivePath(c.paths))
}
