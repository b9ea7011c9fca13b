package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/time-optimizer/internal/observability"
)

var (
	metricsJSON     bool
	metricsSince    string
	metricsPromFile string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display planning metrics",
	Long: `Display metrics derived from the event log: how many plans were
generated, how many tasks and hours they scheduled, how much of the hour
budget was left unused, and which energy tiers the scheduled tasks needed.

With --prom-file the same numbers are also written as Prometheus gauges,
ready for the node_exporter textfile collector.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics calculator not initialized (event log may be disabled)")
		}

		sinceTime, err := parseSinceDuration(metricsSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		metrics, err := MetricsCalc.Calculate(sinceTime)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		if metricsPromFile != "" {
			exporter, err := observability.NewPromExporter(nil)
			if err != nil {
				return err
			}
			exporter.Record(metrics)
			if err := exporter.WriteTextfile(metricsPromFile); err != nil {
				return err
			}
			Logger.Debug().Str("path", metricsPromFile).Msg("wrote prometheus textfile")
		}

		if metricsJSON {
			data, err := json.MarshalIndent(metrics, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting metrics as JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("Metrics (since %s)\n\n", sinceTime.Format("2006-01-02"))
		fmt.Printf("  %-24s %d\n", "Events recorded:", metrics.EventCount)
		fmt.Printf("  %-24s %d\n", "Plans generated:", metrics.PlanRuns)
		fmt.Printf("  %-24s %d\n", "Empty plans:", metrics.EmptyRuns)
		fmt.Printf("  %-24s %d\n", "Tasks scheduled:", metrics.TasksScheduled)
		fmt.Printf("  %-24s %d / %d\n", "Hours scheduled:", metrics.HoursScheduled, metrics.HoursAvailable)
		fmt.Printf("  %-24s %d\n", "Hours unused:", metrics.HoursUnused)
		fmt.Printf("  %-24s %.0f%%\n", "Average fill:", metrics.AverageFillRatio*100)
		fmt.Printf("  %-24s %d\n", "Tasks added:", metrics.TasksAdded)
		fmt.Printf("  %-24s %d\n", "Tasks removed:", metrics.TasksRemoved)

		if metrics.TasksScheduled > 0 {
			fmt.Println("\n  Scheduled by energy:")
			for _, level := range []string{"high", "medium", "low"} {
				fmt.Printf("    %-20s %d\n", level+":", metrics.ScheduledByLevel[level])
			}
		}

		if metrics.OldestEvent != nil {
			fmt.Printf("\n  %-24s %s\n", "Oldest event:", metrics.OldestEvent.Format(time.RFC3339))
		}
		if metrics.NewestEvent != nil {
			fmt.Printf("  %-24s %s\n", "Newest event:", metrics.NewestEvent.Format(time.RFC3339))
		}

		return nil
	},
}

// parseSinceDuration parses a human-friendly duration string like "7d", "30d",
// or "24h" and returns the corresponding time in the past.
func parseSinceDuration(s string) (time.Time, error) {
	now := time.Now().UTC()
	s = strings.TrimSpace(s)
	if s == "" {
		return now.AddDate(0, 0, -7), nil
	}

	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid day duration %q", s)
		}
		return now.AddDate(0, 0, -days), nil
	}

	if strings.HasSuffix(s, "h") {
		hours, err := strconv.Atoi(strings.TrimSuffix(s, "h"))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid hour duration %q", s)
		}
		return now.Add(-time.Duration(hours) * time.Hour), nil
	}

	return time.Time{}, fmt.Errorf("unsupported duration format %q (use e.g. 7d, 30d, 24h)", s)
}

func init() {
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "Output metrics as JSON")
	metricsCmd.Flags().StringVar(&metricsSince, "since", "7d", "Time window for metrics (e.g. 7d, 30d, 24h)")
	metricsCmd.Flags().StringVar(&metricsPromFile, "prom-file", "", "Also write the metrics to this file in Prometheus text format")
	rootCmd.AddCommand(metricsCmd)
}
