package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/time-optimizer/internal/core"
	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

var (
	suggestHours int
	suggestFocus string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest tasks for the time left over",
	Long: `List saved tasks that did not make it into today's schedule but still
fit in the unused hours. With a focus tag, only tasks carrying it are listed.

Uses today's saved schedule when there is one; otherwise a fresh plan is
generated (and not saved) from --hours and --focus.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Planner == nil {
			return fmt.Errorf("planner not initialized")
		}

		var schedule *models.DailySchedule
		if Schedules != nil {
			saved, err := Planner.Today(time.Time{})
			if err != nil {
				return err
			}
			schedule = saved
		}

		if schedule == nil || cmd.Flags().Changed("hours") || cmd.Flags().Changed("focus") {
			hours := suggestHours
			if !cmd.Flags().Changed("hours") {
				hours = defaultHours()
			}
			focus := suggestFocus
			if !cmd.Flags().Changed("focus") {
				focus = defaultFocusTag()
			}
			planned, err := Planner.Plan(core.PlanRequest{AvailableHours: hours, FocusTag: focus})
			if err != nil {
				return err
			}
			schedule = planned
		}

		suggestions, err := Planner.Suggest(schedule)
		if err != nil {
			return err
		}

		unused := schedule.AvailableHours - schedule.UsedHours()
		if len(suggestions) == 0 {
			fmt.Printf("No tasks fit the %d unused hour(s).\n", unused)
			return nil
		}

		fmt.Printf("Tasks that fit the %d unused hour(s):\n\n", unused)
		printTaskTable(suggestions)
		return nil
	},
}

func init() {
	suggestCmd.Flags().IntVar(&suggestHours, "hours", 6, "Hours available today (default from config)")
	suggestCmd.Flags().StringVar(&suggestFocus, "focus", "", "Only suggest tasks with this tag")
	_ = suggestCmd.RegisterFlagCompletionFunc("focus", completeTags)
	rootCmd.AddCommand(suggestCmd)
}
