package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/vitalsync/internal/metrics"
	"github.com/asteroid-belt/vitalsync/internal/series"
)

var (
	stepsDays int
	stepsBy   string
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Show step counts",
	Long: `Show step totals per bucket against the daily goal.

Examples:
  vitalsync steps
  vitalsync steps --days 90 --by month`,
	Args: cobra.NoArgs,
	RunE: runSteps,
}

func init() {
	stepsCmd.Flags().IntVar(&stepsDays, "days", 7, "number of days to look back")
	stepsCmd.Flags().StringVar(&stepsBy, "by", "day", "bucket size: day, week, or month")
}

type stepsReport struct {
	Granularity string               `json:"granularity"`
	Goal        int                  `json:"goal"`
	Total       int64                `json:"total"`
	Buckets     []metrics.StepBucket `json:"buckets"`
	Series      series.Series        `json:"series"`
}

func runSteps(cmd *cobra.Command, args []string) error {
	days, err := resolveDays(stepsDays)
	if err != nil {
		return err
	}
	g, err := parseGranularity(stepsBy)
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	r := metrics.LastDays(days, time.Now(), e.loc)
	records, err := e.store.StepRecordsBetween(r.Start, r.End)
	if err != nil {
		return fmt.Errorf("load steps: %w", err)
	}

	buckets := metrics.AggregateSteps(records, r, g, e.loc)
	s := series.FromSteps(buckets, g)

	var total int64
	for _, b := range buckets {
		total += b.Stats.Steps
	}

	if jsonOutput {
		return printJSON(stepsReport{
			Granularity: g.String(),
			Goal:        e.cfg.Goals.DailySteps,
			Total:       total,
			Buckets:     buckets,
			Series:      s,
		})
	}

	fmt.Printf("%s  %s\n", headerStyle.Render(fmt.Sprintf("Steps, last %d days", days)), sparkline(s.Values))
	fmt.Printf("  Total %d, avg %d/day\n\n", total, total/int64(days))

	goal := int64(e.cfg.Goals.DailySteps)
	for _, b := range buckets {
		marker := " "
		// The goal is daily; only day buckets are scored against it.
		if g == metrics.Day && goal > 0 && b.Stats.Steps >= goal {
			marker = goodStyle.Render("✓")
		}
		fmt.Printf("  %-10s %8d %s\n", b.Label(g), b.Stats.Steps, marker)
	}
	return nil
}
