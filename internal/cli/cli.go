// Package cli provides the command-line interface for Vitalsync.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/vitalsync/internal/config"
	"github.com/asteroid-belt/vitalsync/internal/db"
	"github.com/asteroid-belt/vitalsync/internal/metrics"
	"github.com/asteroid-belt/vitalsync/pkg/version"
)

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "vitalsync",
	Short: "Samsung Health sync and analytics",
	Long: `Samsung Health sync and analytics

Fetches Health Connect export archives from Google Drive, merges them
into a local store, and answers questions about sleep, steps, heart
rate, blood oxygen, and workouts.

All analytics run against the local store; only 'sync' talks to the
network.`,
	SilenceUsage: true,
	RunE:         runToday,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit machine-readable JSON instead of text")

	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(heartCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(sleepCmd)
	rootCmd.AddCommand(spo2Cmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stepsCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(workoutCmd)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context) error {
	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Short()),
		fang.WithCommit(version.Commit),
	)
}

// Shared display styles.
var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// env bundles what nearly every command needs: configuration, paths, an
// open store, and the reporting timezone.
type env struct {
	cfg   *config.Config
	paths config.Paths
	store *db.DB
	loc   *time.Location
}

func (e *env) close() {
	_ = e.store.Close()
}

// openEnv loads configuration and opens the record store.
func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	paths := config.GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create data directories: %w", err)
	}

	store, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	return &env{cfg: cfg, paths: paths, store: store, loc: loc}, nil
}

// maxRangeDays bounds the --days flag; beyond a decade the range is
// almost certainly a typo.
const maxRangeDays = 3650

// resolveDays validates a --days value.
func resolveDays(days int) (int, error) {
	if days < 1 || days > maxRangeDays {
		return 0, fmt.Errorf("invalid --days %d: must be between 1 and %d", days, maxRangeDays)
	}
	return days, nil
}

// parseGranularity maps a --by flag value onto a bucket granularity.
func parseGranularity(by string) (metrics.Granularity, error) {
	switch by {
	case "day", "":
		return metrics.Day, nil
	case "week":
		return metrics.Week, nil
	case "month":
		return metrics.Month, nil
	default:
		return 0, fmt.Errorf("invalid --by %q: must be day, week, or month", by)
	}
}

// timePrecision is the rounding applied to displayed durations.
const timePrecision = time.Millisecond

// shortHash abbreviates an archive hash for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
