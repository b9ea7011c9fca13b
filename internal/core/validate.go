package core

import (
	"fmt"
	"strings"

	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

// MaxTaskDuration caps a single task at the length of the planning window.
const MaxTaskDuration = DayEndHour - DayStartHour

// ValidateTask checks a task entered by the user and returns a
// *ValidationError listing every problem found. The scheduler is more
// lenient: it only skips malformed tasks.
func ValidateTask(task models.Task) error {
	var problems []string

	if strings.TrimSpace(task.Name) == "" {
		problems = append(problems, "name must not be empty")
	}
	if task.Duration < 1 || task.Duration > MaxTaskDuration {
		problems = append(problems, fmt.Sprintf("duration must be between 1 and %d hours, got %d", MaxTaskDuration, task.Duration))
	}
	if task.Priority < models.MinPriority || task.Priority > models.MaxPriority {
		problems = append(problems, fmt.Sprintf("priority must be between %d and %d, got %d", models.MinPriority, models.MaxPriority, task.Priority))
	}
	if !task.Energy.Valid() {
		problems = append(problems, fmt.Sprintf("energy must be one of high, medium, low, got %q", task.Energy))
	}
	if task.Type != "" {
		if _, ok := models.ParseTaskType(string(task.Type)); !ok {
			problems = append(problems, fmt.Sprintf("unknown task type %q", task.Type))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Field: "task " + quoteName(task.Name), Problems: problems}
	}
	return nil
}

func quoteName(name string) string {
	if name == "" {
		return "<unnamed>"
	}
	return fmt.Sprintf("%q", name)
}
