package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

// completeTaskNames lists saved task names, with duration and energy as the
// description.
func completeTaskNames(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if Tasks == nil || len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	tasks, err := Tasks.GetAllTasks()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, t := range tasks {
		if toComplete == "" || strings.HasPrefix(strings.ToLower(t.Name), strings.ToLower(toComplete)) {
			names = append(names, t.Name+"\t"+string(t.Energy)+", "+strconv.Itoa(t.Duration)+"h")
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func completeEnergy(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	levels := make([]string, len(models.EnergyLevels))
	for i, l := range models.EnergyLevels {
		levels[i] = string(l)
	}
	return levels, cobra.ShellCompDirectiveNoFileComp
}

func completeTaskTypes(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	types := make([]string, len(models.TaskTypes))
	for i, t := range models.TaskTypes {
		types[i] = string(t)
	}
	return types, cobra.ShellCompDirectiveNoFileComp
}

// completeTags lists every tag used by a saved task.
func completeTags(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if Tasks == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	tasks, err := Tasks.GetAllTasks()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	seen := make(map[string]bool)
	var tags []string
	for _, t := range tasks {
		for _, tag := range t.Tags {
			key := strings.ToLower(tag)
			if seen[key] || !strings.HasPrefix(key, strings.ToLower(toComplete)) {
				continue
			}
			seen[key] = true
			tags = append(tags, tag)
		}
	}
	return tags, cobra.ShellCompDirectiveNoFileComp
}
