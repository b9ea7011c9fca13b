package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

func TestCompleteTaskNames_NilStore(t *testing.T) {
	setupCLI(t)
	Tasks = nil

	names, directive := completeTaskNames(nil, nil, "")
	if names != nil {
		t.Errorf("expected nil, got %v", names)
	}
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v, want NoFileComp", directive)
	}
}

func TestCompleteTaskNames(t *testing.T) {
	setupCLI(t)
	seedTasks(t,
		models.Task{Name: "Deep work", Duration: 3, Priority: 5, Energy: models.EnergyHigh, Type: models.TaskTypeWork},
		models.Task{Name: "Dishes", Duration: 1, Priority: 1, Energy: models.EnergyLow, Type: models.TaskTypePersonal},
		models.Task{Name: "Gym", Duration: 1, Priority: 3, Energy: models.EnergyMedium, Type: models.TaskTypeHealth},
	)

	tests := []struct {
		toComplete string
		want       []string
	}{
		{"", []string{"Deep work\thigh, 3h", "Dishes\tlow, 1h", "Gym\tmedium, 1h"}},
		{"d", []string{"Deep work\thigh, 3h", "Dishes\tlow, 1h"}},
		{"GY", []string{"Gym\tmedium, 1h"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.toComplete, func(t *testing.T) {
			got, _ := completeTaskNames(nil, nil, tt.toComplete)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("completeTaskNames(%q) = %q, want %q", tt.toComplete, got, tt.want)
			}
		})
	}

	// Only the first positional argument is a task name.
	if got, _ := completeTaskNames(nil, []string{"Gym"}, ""); got != nil {
		t.Errorf("expected no completions after the first argument, got %v", got)
	}
}

func TestCompleteEnergy(t *testing.T) {
	got, directive := completeEnergy(nil, nil, "")
	if strings.Join(got, ",") != "high,medium,low" {
		t.Errorf("completeEnergy = %v", got)
	}
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v, want NoFileComp", directive)
	}
}

func TestCompleteTaskTypes(t *testing.T) {
	got, _ := completeTaskTypes(nil, nil, "")
	if len(got) != len(models.TaskTypes) {
		t.Fatalf("got %d types, want %d", len(got), len(models.TaskTypes))
	}
	for i, typ := range models.TaskTypes {
		if got[i] != string(typ) {
			t.Errorf("type %d = %q, want %q", i, got[i], typ)
		}
	}
}

func TestCompleteTags(t *testing.T) {
	setupCLI(t)
	seedTasks(t,
		models.Task{Name: "A", Duration: 1, Priority: 1, Energy: models.EnergyLow, Tags: []string{"writing", "focus"}},
		models.Task{Name: "B", Duration: 1, Priority: 1, Energy: models.EnergyLow, Tags: []string{"Writing", "work"}},
	)

	got, _ := completeTags(nil, nil, "")
	if strings.Join(got, ",") != "writing,focus,work" {
		t.Errorf("completeTags(\"\") = %v, want [writing focus work]", got)
	}

	got, _ = completeTags(nil, nil, "W")
	if strings.Join(got, ",") != "writing,work" {
		t.Errorf("completeTags(\"W\") = %v, want [writing work]", got)
	}
}
