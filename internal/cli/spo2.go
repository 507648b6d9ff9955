package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/vitalsync/internal/metrics"
	"github.com/asteroid-belt/vitalsync/internal/series"
)

var (
	spo2Days int
	spo2By   string
)

var spo2Cmd = &cobra.Command{
	Use:   "spo2",
	Short: "Show blood oxygen history",
	Long: `Show mean and minimum blood-oxygen saturation per bucket. Readings
below 95% are highlighted.

Examples:
  vitalsync spo2
  vitalsync spo2 --days 30`,
	Args: cobra.NoArgs,
	RunE: runSpO2,
}

func init() {
	spo2Cmd.Flags().IntVar(&spo2Days, "days", 7, "number of days to look back")
	spo2Cmd.Flags().StringVar(&spo2By, "by", "day", "bucket size: day, week, or month")
}

type spo2Report struct {
	Granularity string               `json:"granularity"`
	Buckets     []metrics.SpO2Bucket `json:"buckets"`
	Series      series.Series        `json:"series"`
}

func runSpO2(cmd *cobra.Command, args []string) error {
	days, err := resolveDays(spo2Days)
	if err != nil {
		return err
	}
	g, err := parseGranularity(spo2By)
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	r := metrics.LastDays(days, time.Now(), e.loc)
	samples, err := e.store.SpO2SamplesBetween(r.Start, r.End)
	if err != nil {
		return fmt.Errorf("load spo2: %w", err)
	}

	buckets := metrics.AggregateSpO2(samples, r, g, e.loc)
	s := series.FromSpO2(buckets, g)

	if jsonOutput {
		return printJSON(spo2Report{Granularity: g.String(), Buckets: buckets, Series: s})
	}

	fmt.Printf("%s  %s\n\n", headerStyle.Render(fmt.Sprintf("Blood oxygen, last %d days", days)), sparkline(s.Values))

	for _, b := range buckets {
		if !b.Stats.Valid {
			fmt.Printf("  %-10s %s\n", b.Label(g), dimStyle.Render("-"))
			continue
		}
		minStyle := goodStyle
		if b.Stats.Min < series.SpO2NormalLow {
			minStyle = warnStyle
		}
		line := fmt.Sprintf("  %-10s avg %5.1f%%, min %s (%d samples)",
			b.Label(g), b.Stats.Mean, minStyle.Render(fmt.Sprintf("%.1f%%", b.Stats.Min)), b.Stats.Samples)
		if b.Stats.Flagged > 0 {
			line += dimStyle.Render(fmt.Sprintf("  %d flagged", b.Stats.Flagged))
		}
		fmt.Println(line)
	}
	return nil
}
