package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/vitalsync/internal/config"
	"github.com/asteroid-belt/vitalsync/internal/hash"
	"github.com/asteroid-belt/vitalsync/internal/models"
	"github.com/asteroid-belt/vitalsync/internal/sync"
	"github.com/asteroid-belt/vitalsync/pkg/version"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync state and store contents",
	Long: `Show when the store last synced, which archive it holds, how many
records of each kind are stored, and how many carry quality flags.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

type statusReport struct {
	Version     string                      `json:"version"`
	Configured  bool                        `json:"configured"`
	LastSyncAt  *time.Time                  `json:"last_sync_at"`
	ArchiveHash string                      `json:"archive_hash,omitempty"`
	Cache       string                      `json:"cache,omitempty"`
	Records     map[models.RecordKind]int64 `json:"records"`
	Flagged     map[models.RecordKind]int64 `json:"flagged"`
	OldestAt    *time.Time                  `json:"oldest_at,omitempty"`
	NewestAt    *time.Time                  `json:"newest_at,omitempty"`
}

// cacheState compares the on-disk archive cache against the last merged
// hash: "fresh" when they match, "stale" when they differ, "missing"
// when the cache file is gone.
func cacheState(paths config.Paths, archiveHash string) string {
	h, err := hash.FileID(sync.CachedArchivePath(paths))
	if err != nil {
		return "missing"
	}
	if h == archiveHash {
		return "fresh"
	}
	return "stale"
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	state, err := e.store.GetSyncState()
	if err != nil {
		return fmt.Errorf("read sync state: %w", err)
	}
	counts, err := e.store.RecordCounts()
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}
	flagged, err := e.store.QualityFlagCounts()
	if err != nil {
		return fmt.Errorf("count quality flags: %w", err)
	}
	oldest, newest, err := e.store.DateRange()
	if err != nil {
		return fmt.Errorf("read date range: %w", err)
	}

	cache := ""
	if state.ArchiveHash != "" {
		cache = cacheState(e.paths, state.ArchiveHash)
	}

	if jsonOutput {
		return printJSON(statusReport{
			Version:     version.Info(),
			Configured:  e.cfg.Configured(),
			LastSyncAt:  state.LastSyncAt,
			ArchiveHash: state.ArchiveHash,
			Cache:       cache,
			Records:     counts,
			Flagged:     flagged,
			OldestAt:    oldest,
			NewestAt:    newest,
		})
	}

	fmt.Println(headerStyle.Render("Vitalsync status"))
	fmt.Printf("  %s\n", dimStyle.Render(version.Info()))
	if !e.cfg.Configured() {
		fmt.Printf("  %s Drive sync not configured (%s)\n", warnStyle.Render("!"), e.paths.ConfigFile)
	}

	if state.LastSyncAt == nil {
		fmt.Println("  Last sync:  never")
	} else {
		fmt.Printf("  Last sync:  %s\n", state.LastSyncAt.In(e.loc).Format("2006-01-02 15:04"))
		fmt.Printf("  Archive:    %s\n", shortHash(state.ArchiveHash))
		fmt.Printf("  Cache:      %s\n", cache)
	}
	if oldest != nil && newest != nil {
		fmt.Printf("  Data range: %s to %s\n",
			oldest.In(e.loc).Format("2006-01-02"), newest.In(e.loc).Format("2006-01-02"))
	}

	fmt.Println()
	for _, kind := range models.Kinds {
		line := fmt.Sprintf("  %-12s %d", kind, counts[kind])
		if n := flagged[kind]; n > 0 {
			line += dimStyle.Render(fmt.Sprintf("  (%d flagged)", n))
		}
		fmt.Println(line)
	}
	return nil
}
