package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

func TestValidateTask(t *testing.T) {
	valid := models.Task{Name: "Write", Duration: 2, Priority: 3, Energy: models.EnergyHigh, Type: models.TaskTypeWork}

	tests := []struct {
		name     string
		mutate   func(*models.Task)
		problems int
		contains string
	}{
		{"valid", func(*models.Task) {}, 0, ""},
		{"no type", func(tk *models.Task) { tk.Type = "" }, 0, ""},
		{"blank name", func(tk *models.Task) { tk.Name = "  " }, 1, "name"},
		{"zero duration", func(tk *models.Task) { tk.Duration = 0 }, 1, "duration"},
		{"too long", func(tk *models.Task) { tk.Duration = 15 }, 1, "duration"},
		{"priority low", func(tk *models.Task) { tk.Priority = 0 }, 1, "priority"},
		{"priority high", func(tk *models.Task) { tk.Priority = 6 }, 1, "priority"},
		{"energy", func(tk *models.Task) { tk.Energy = "max" }, 1, "energy"},
		{"type", func(tk *models.Task) { tk.Type = "Chores" }, 1, "type"},
		{"everything", func(tk *models.Task) { *tk = models.Task{Type: "x"} }, 5, "<unnamed>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := valid
			tt.mutate(&tk)

			err := ValidateTask(tk)
			if tt.problems == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if len(verr.Problems) != tt.problems {
				t.Errorf("got %d problems, want %d: %v", len(verr.Problems), tt.problems, verr.Problems)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not mention %q", err, tt.contains)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Problems: []string{"a", "b"}}
	if got := err.Error(); got != "validation failed: a; b" {
		t.Errorf("Error() = %q", got)
	}

	err.Field = "name"
	if got := err.Error(); got != "validation failed for name: a; b" {
		t.Errorf("Error() = %q", got)
	}
}
