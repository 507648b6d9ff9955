package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/vitalsync/internal/metrics"
	"github.com/asteroid-belt/vitalsync/internal/series"
)

var (
	heartDays int
	heartBy   string
)

var heartCmd = &cobra.Command{
	Use:   "heart",
	Short: "Show heart rate history",
	Long: `Show min/avg/max heart rate per bucket. Implausible samples are
excluded from the numbers but reported as flagged.

Examples:
  vitalsync heart
  vitalsync heart --days 30 --by week`,
	Args: cobra.NoArgs,
	RunE: runHeart,
}

func init() {
	heartCmd.Flags().IntVar(&heartDays, "days", 7, "number of days to look back")
	heartCmd.Flags().StringVar(&heartBy, "by", "day", "bucket size: day, week, or month")
}

type heartReport struct {
	Granularity string                `json:"granularity"`
	Buckets     []metrics.HeartBucket `json:"buckets"`
	Series      series.Series         `json:"series"`
}

func runHeart(cmd *cobra.Command, args []string) error {
	days, err := resolveDays(heartDays)
	if err != nil {
		return err
	}
	g, err := parseGranularity(heartBy)
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	r := metrics.LastDays(days, time.Now(), e.loc)
	samples, err := e.store.HeartRateSamplesBetween(r.Start, r.End)
	if err != nil {
		return fmt.Errorf("load heart rate: %w", err)
	}

	buckets := metrics.AggregateHeartRate(samples, r, g, e.loc)
	s := series.FromHeartRate(buckets, g)

	if jsonOutput {
		return printJSON(heartReport{Granularity: g.String(), Buckets: buckets, Series: s})
	}

	fmt.Printf("%s  %s\n\n", headerStyle.Render(fmt.Sprintf("Heart rate, last %d days", days)), sparkline(s.Values))

	for _, b := range buckets {
		if !b.Stats.Valid {
			fmt.Printf("  %-10s %s\n", b.Label(g), dimStyle.Render("-"))
			continue
		}
		line := fmt.Sprintf("  %-10s %3d-%3d bpm, avg %5.1f (%d samples)",
			b.Label(g), b.Stats.Min, b.Stats.Max, b.Stats.Mean, b.Stats.Samples)
		if b.Stats.Flagged > 0 {
			line += dimStyle.Render(fmt.Sprintf("  %d flagged", b.Stats.Flagged))
		}
		fmt.Println(line)
	}
	return nil
}
