package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/vitalsync/internal/log"
	"github.com/asteroid-belt/vitalsync/internal/models"
	"github.com/asteroid-belt/vitalsync/internal/sync"
)

var syncForce bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the latest export and merge it into the local store",
	Long: `Fetch the Health Connect archive from the configured Drive folder and
merge its records into the local store.

If the fetched archive is identical to the last merged one, the merge is
skipped. Use --force to re-merge anyway; records are identified by their
export ids, so this rewrites rows rather than duplicating them.

Examples:
  vitalsync sync
  vitalsync sync --force`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "re-merge even if the archive is unchanged")
}

func runSync(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if !e.cfg.Configured() {
		return fmt.Errorf("%w (config: %s)", sync.ErrNotConfigured, e.paths.ConfigFile)
	}

	// Sync is the one command worth a persistent log: it talks to the
	// network and mutates the store.
	if err := log.Init(e.paths.LogDir); err == nil {
		defer log.Close()
	}

	fetcher := sync.NewDriveFetcher(e.cfg.Drive)
	coord := sync.NewCoordinator(e.store, fetcher, e.paths, e.loc)

	if !jsonOutput {
		fmt.Printf("Fetching %s from Drive...\n", e.cfg.Drive.FileName)
	}

	res, err := coord.Sync(cmd.Context(), syncForce)
	if err != nil {
		log.Errorf("sync failed: %v", err)
		return err
	}
	log.Printf("sync: archive %s changed=%v merged=%v in %s",
		shortHash(res.ArchiveHash), res.Changed, res.Merged, res.Duration.Round(timePrecision))

	if jsonOutput {
		return printJSON(res)
	}

	if !res.Changed {
		fmt.Printf("%s Archive unchanged, nothing to merge. (%s)\n",
			goodStyle.Render("✓"), res.Duration.Round(timePrecision))
		return nil
	}

	fmt.Printf("%s Merged archive %s in %s\n",
		goodStyle.Render("✓"), shortHash(res.ArchiveHash), res.Duration.Round(timePrecision))
	for _, kind := range models.Kinds {
		fmt.Printf("  %-12s %d\n", kind, res.Merged[kind])
	}
	return nil
}
