package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/time-optimizer/internal/core"
	"github.com/valter-silva-au/time-optimizer/internal/observability"
	"github.com/valter-silva-au/time-optimizer/internal/storage"
	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage the saved task list",
	Long: `Add, list, update, and remove the tasks that topt plans your day from.

Tasks are saved in tasks.yaml in the data directory. The order in which
tasks were added is kept: when two tasks score the same for an hour, the
one added first is scheduled.`,
}

var (
	taskDurationFlag int
	taskPriorityFlag int
	taskEnergyFlag   string
	taskTypeFlag     string
	taskTagsFlag     []string
)

var taskAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a task to the list",
	Long: `Add a task to the saved list.

Examples:
  topt task add "Deep work" --duration 3 --priority 5 --energy high --type Work --tags focus
  topt task add "Gym" --duration 1 --priority 3 --energy medium --type Health`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task store not initialized")
		}

		task, err := taskFromFlags(strings.TrimSpace(args[0]))
		if err != nil {
			return err
		}
		if err := core.ValidateTask(task); err != nil {
			return err
		}
		if err := Tasks.Modify(func(tx storage.TaskEditor) error { return tx.AddTask(task) }); err != nil {
			return err
		}

		logEvent(observability.EventTaskAdded, map[string]any{
			"name":     task.Name,
			"duration": task.Duration,
			"priority": task.Priority,
			"energy":   string(task.Energy),
			"type":     string(task.Type),
		})
		fmt.Printf("Added task %q (%dh, priority %d, %s energy)\n", task.Name, task.Duration, task.Priority, task.Energy)
		return nil
	},
}

// taskFromFlags builds a task from the add/update flags.
func taskFromFlags(name string) (models.Task, error) {
	task := models.Task{
		Name:     name,
		Duration: taskDurationFlag,
		Priority: taskPriorityFlag,
		Energy:   models.EnergyLevel(strings.ToLower(taskEnergyFlag)),
		Tags:     cleanTags(taskTagsFlag),
	}
	if taskTypeFlag != "" {
		t, ok := models.ParseTaskType(taskTypeFlag)
		if !ok {
			return models.Task{}, fmt.Errorf("unknown task type %q (valid: %s)", taskTypeFlag, joinTypes(models.TaskTypes))
		}
		task.Type = t
	}
	return task, nil
}

func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func joinTypes(types []models.TaskType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

var (
	taskListTypes []string
	taskListTags  []string
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved tasks",
	Long: `List saved tasks in the order they were added.

Filter with --type (any of the given types) and --tag (any of the given tags).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task store not initialized")
		}

		types, err := parseTypes(taskListTypes)
		if err != nil {
			return err
		}
		if err := Tasks.Load(); err != nil {
			return err
		}
		tasks, err := Tasks.FilterTasks(storage.TaskFilter{Types: types, Tags: taskListTags})
		if err != nil {
			return fmt.Errorf("fetching tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		printTaskTable(tasks)
		fmt.Printf("\nLast updated: %s\n", Tasks.LastUpdated())
		return nil
	},
}

func parseTypes(raw []string) ([]models.TaskType, error) {
	var types []models.TaskType
	for _, r := range raw {
		t, ok := models.ParseTaskType(strings.TrimSpace(r))
		if !ok {
			return nil, fmt.Errorf("unknown task type %q (valid: %s)", r, joinTypes(models.TaskTypes))
		}
		types = append(types, t)
	}
	return types, nil
}

func printTaskTable(tasks []models.Task) {
	fmt.Printf("  %-24s %-4s %-4s %-7s %-9s %s\n", "NAME", "DUR", "PRI", "ENERGY", "TYPE", "TAGS")
	fmt.Printf("  %-24s %-4s %-4s %-7s %-9s %s\n", "----", "---", "---", "------", "----", "----")
	for _, t := range tasks {
		fmt.Printf("  %-24s %-4s %-4d %-7s %-9s %s\n",
			t.Name, fmt.Sprintf("%dh", t.Duration), t.Priority, t.Energy, t.Type, strings.Join(t.Tags, ", "))
	}
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Update fields of a saved task",
	Long: `Update a saved task. Only the flags you pass are changed.

Example:
  topt task update "Deep work" --priority 4 --tags focus,writing`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task store not initialized")
		}
		name := args[0]

		flags := cmd.Flags()
		var newType models.TaskType
		if flags.Changed("type") {
			t, ok := models.ParseTaskType(taskTypeFlag)
			if !ok {
				return fmt.Errorf("unknown task type %q (valid: %s)", taskTypeFlag, joinTypes(models.TaskTypes))
			}
			newType = t
		}

		var changed []string
		err := Tasks.Modify(func(tx storage.TaskEditor) error {
			existing, err := tx.GetTask(name)
			if err != nil {
				return err
			}
			updated := *existing
			if flags.Changed("duration") {
				updated.Duration = taskDurationFlag
				changed = append(changed, "duration")
			}
			if flags.Changed("priority") {
				updated.Priority = taskPriorityFlag
				changed = append(changed, "priority")
			}
			if flags.Changed("energy") {
				updated.Energy = models.EnergyLevel(strings.ToLower(taskEnergyFlag))
				changed = append(changed, "energy")
			}
			if flags.Changed("type") {
				updated.Type = newType
				changed = append(changed, "type")
			}
			if flags.Changed("tags") {
				updated.Tags = cleanTags(taskTagsFlag)
				if updated.Tags == nil {
					updated.Tags = []string{}
				}
				changed = append(changed, "tags")
			}
			if err := core.ValidateTask(updated); err != nil {
				return err
			}
			return tx.UpdateTask(name, updated)
		})
		if err != nil {
			return err
		}

		logEvent(observability.EventTaskUpdated, map[string]any{"name": name, "fields": changed})
		fmt.Printf("Updated task %q\n", name)
		return nil
	},
}

var taskRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a task from the list",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task store not initialized")
		}
		if err := Tasks.Modify(func(tx storage.TaskEditor) error { return tx.RemoveTask(args[0]) }); err != nil {
			return err
		}
		logEvent(observability.EventTaskRemoved, map[string]any{"name": args[0]})
		fmt.Printf("Removed task %q\n", args[0])
		return nil
	},
}

var taskClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved task",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task store not initialized")
		}
		if err := Tasks.Clear(); err != nil {
			return err
		}
		logEvent(observability.EventTasksCleared, nil)
		fmt.Println("Saved tasks cleared.")
		return nil
	},
}

func addTaskFieldFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&taskDurationFlag, "duration", "d", 1, "Duration in whole hours")
	cmd.Flags().IntVarP(&taskPriorityFlag, "priority", "p", 3, "Priority from 1 (low) to 5 (high)")
	cmd.Flags().StringVarP(&taskEnergyFlag, "energy", "e", "medium", "Energy needed: high, medium, low")
	cmd.Flags().StringVarP(&taskTypeFlag, "type", "t", string(models.TaskTypeStudy), "Task type: "+joinTypes(models.TaskTypes))
	cmd.Flags().StringSliceVar(&taskTagsFlag, "tags", nil, "Comma-separated tags")
	_ = cmd.RegisterFlagCompletionFunc("energy", completeEnergy)
	_ = cmd.RegisterFlagCompletionFunc("type", completeTaskTypes)
}

func init() {
	addTaskFieldFlags(taskAddCmd)
	addTaskFieldFlags(taskUpdateCmd)
	taskUpdateCmd.ValidArgsFunction = completeTaskNames
	taskRemoveCmd.ValidArgsFunction = completeTaskNames

	taskListCmd.Flags().StringSliceVar(&taskListTypes, "type", nil, "Only show these task types")
	taskListCmd.Flags().StringSliceVar(&taskListTags, "tag", nil, "Only show tasks carrying any of these tags")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskUpdateCmd, taskRemoveCmd, taskClearCmd)
	rootCmd.AddCommand(taskCmd)
}
