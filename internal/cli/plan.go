package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/time-optimizer/internal/core"
	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

var (
	planHours    int
	planFocus    string
	planDate     string
	planTypes    []string
	planTags     []string
	planSave     bool
	planJSON     bool
	planTimeline bool
	planOut      string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate today's schedule from the saved tasks",
	Long: `Fit the saved tasks into the day within an hour budget.

The day is split into energy blocks: high 08:00-12:00, medium 12:00-16:00,
low 16:00-22:00. Each free hour goes to the unscheduled task with the best
score (priority x 10, plus an energy-match bonus, plus 10 when it carries
the --focus tag) whose whole duration still fits. Ties go to the task added
first.

--type and --tag only filter what is displayed; every task is considered
for scheduling.

Examples:
  topt plan --hours 6
  topt plan --hours 8 --focus writing --save --timeline
  topt plan --type Work --type Study --out schedule.txt`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	if Planner == nil {
		return fmt.Errorf("planner not initialized")
	}

	hours := planHours
	if !cmd.Flags().Changed("hours") {
		hours = defaultHours()
	}
	focus := planFocus
	if !cmd.Flags().Changed("focus") {
		focus = defaultFocusTag()
	}
	date, err := parsePlanDate(planDate)
	if err != nil {
		return err
	}
	types, err := parseTypes(planTypes)
	if err != nil {
		return err
	}

	schedule, err := Planner.Plan(core.PlanRequest{
		AvailableHours: hours,
		FocusTag:       focus,
		Date:           date,
		Save:           planSave,
	})
	if err != nil {
		return err
	}

	var tasks []models.Task
	if Tasks != nil {
		tasks, _ = Tasks.GetAllTasks()
	}
	return printSchedule(schedule, tasks, types, planTags)
}

// printSchedule writes the schedule in the format selected by the plan
// flags. It is shared by plan and plan show.
func printSchedule(schedule *models.DailySchedule, tasks []models.Task, types []models.TaskType, tags []string) error {
	filtered := core.FilterSchedule(schedule.Entries, types, tags)
	summary := core.Summarize(filtered, tasks, schedule.AvailableHours)
	overall := core.Summarize(schedule.Entries, tasks, schedule.AvailableHours)

	if planOut != "" {
		if err := os.WriteFile(planOut, []byte(core.FormatScheduleText(filtered)+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", planOut, err)
		}
	}

	if planJSON {
		out := struct {
			*models.DailySchedule
			Entries []models.ScheduleEntry `json:"entries"`
			Summary core.Summary           `json:"summary"`
		}{DailySchedule: schedule, Entries: filtered, Summary: summary}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("formatting schedule as JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(schedule.Entries) == 0 {
		fmt.Println("Not enough time to fit any task!")
		return nil
	}
	if len(filtered) == 0 {
		fmt.Println("No scheduled tasks match the filters.")
		return nil
	}

	fmt.Println(core.FormatScheduleText(filtered))

	if planTimeline {
		fmt.Println()
		fmt.Println(renderTimeline(filtered))
	}

	fmt.Println()
	printSummary(summary)
	fmt.Printf("\n%s\n", overall.UnusedMessage())

	if planSave {
		fmt.Printf("Saved schedule for %s\n", schedule.Date)
	}
	if planOut != "" {
		fmt.Printf("Schedule written to %s\n", planOut)
	}
	return nil
}

func printSummary(s core.Summary) {
	fmt.Println("Summary")
	for _, level := range models.EnergyLevels {
		label := strings.ToUpper(string(level[:1])) + string(level[1:]) + " energy tasks:"
		fmt.Printf("  %-24s %d\n", label, s.EnergyCounts[level])
	}
	mostCommon := string(s.MostCommonType)
	if mostCommon == "" {
		mostCommon = "N/A"
	}
	fmt.Printf("  %-24s %s\n", "Most frequent type:", mostCommon)
	fmt.Printf("  %-24s %.2f\n", "Average priority:", s.AveragePriority)
	fmt.Printf("  %-24s %d\n", "Hours planned:", s.UsedHours)

	if len(s.TypeHours) > 0 {
		fmt.Println("\n  Hours per type:")
		types := make([]string, 0, len(s.TypeHours))
		for t := range s.TypeHours {
			types = append(types, string(t))
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Printf("    %-20s %d\n", t+":", s.TypeHours[models.TaskType(t)])
		}
	}
}

func parsePlanDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.ParseInLocation(core.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a saved schedule",
	Long: `Show the schedule saved with 'topt plan --save' for today, or for
the day given with --date.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Planner == nil {
			return fmt.Errorf("planner not initialized")
		}
		date, err := parsePlanDate(planDate)
		if err != nil {
			return err
		}
		types, err := parseTypes(planTypes)
		if err != nil {
			return err
		}

		schedule, err := Planner.Today(date)
		if err != nil {
			return err
		}
		if schedule == nil {
			fmt.Println("No saved schedule for that day. Run 'topt plan --save' first.")
			return nil
		}

		var tasks []models.Task
		if Tasks != nil {
			tasks, _ = Tasks.GetAllTasks()
		}
		fmt.Printf("Schedule for %s (%d hour budget", schedule.Date, schedule.AvailableHours)
		if schedule.FocusTag != "" {
			fmt.Printf(", focus %q", schedule.FocusTag)
		}
		fmt.Println(")")
		fmt.Println()
		return printSchedule(schedule, tasks, types, planTags)
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the days with a saved schedule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Schedules == nil {
			return fmt.Errorf("schedule store not initialized")
		}
		dates, err := Schedules.ListDates()
		if err != nil {
			return err
		}
		if len(dates) == 0 {
			fmt.Println("No saved schedules.")
			return nil
		}
		for _, d := range dates {
			fmt.Println(d)
		}
		return nil
	},
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete <YYYY-MM-DD>",
	Short: "Delete a saved schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Schedules == nil {
			return fmt.Errorf("schedule store not initialized")
		}
		if err := Schedules.DeleteSchedule(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted schedule for %s\n", args[0])
		return nil
	},
}

func addDisplayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&planDate, "date", "", "Day of the schedule (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringSliceVar(&planTypes, "type", nil, "Only display these task types")
	cmd.Flags().StringSliceVar(&planTags, "tag", nil, "Only display tasks carrying any of these tags")
	cmd.Flags().BoolVar(&planJSON, "json", false, "Output the schedule as JSON")
	cmd.Flags().BoolVar(&planTimeline, "timeline", false, "Draw a timeline of the day")
	cmd.Flags().StringVarP(&planOut, "out", "o", "", "Also write the schedule as text to this file")
	_ = cmd.RegisterFlagCompletionFunc("type", completeTaskTypes)
	_ = cmd.RegisterFlagCompletionFunc("tag", completeTags)
}

func init() {
	planCmd.Flags().IntVar(&planHours, "hours", 6, "Hours available today (default from config)")
	planCmd.Flags().StringVar(&planFocus, "focus", "", "Focus tag that earns a scoring bonus")
	planCmd.Flags().BoolVar(&planSave, "save", false, "Save the schedule for the day")
	_ = planCmd.RegisterFlagCompletionFunc("focus", completeTags)
	addDisplayFlags(planCmd)
	addDisplayFlags(planShowCmd)

	planCmd.AddCommand(planShowCmd, planListCmd, planDeleteCmd)
	rootCmd.AddCommand(planCmd)
}
