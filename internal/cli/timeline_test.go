package cli

import (
	"strings"
	"testing"

	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

func TestRenderTimeline_Empty(t *testing.T) {
	if got := renderTimeline(nil); got != "  (empty day)" {
		t.Errorf("renderTimeline(nil) = %q", got)
	}
}

func TestRenderTimeline_Rows(t *testing.T) {
	entries := []models.ScheduleEntry{
		{TaskName: "Deep work", StartHour: 8, EndHour: 11, Energy: models.EnergyHigh},
		{TaskName: "Walk", StartHour: 16, EndHour: 17, Energy: models.EnergyLow},
	}

	out := renderTimeline(entries)
	lines := strings.Split(out, "\n")
	// Axis, block band, then one row per entry.
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}
	for _, want := range []string{"08", "21", "high", "medium", "low"} {
		if !strings.Contains(out, want) {
			t.Errorf("timeline missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(lines[2], "Deep work") || !strings.Contains(lines[2], "3h") {
		t.Errorf("row for Deep work = %q", lines[2])
	}
	if !strings.Contains(lines[3], "Walk") || !strings.Contains(lines[3], "1h") {
		t.Errorf("row for Walk = %q", lines[3])
	}
}

func TestRenderTimeline_TruncatesLongNames(t *testing.T) {
	entries := []models.ScheduleEntry{
		{TaskName: strings.Repeat("x", 40), StartHour: 8, EndHour: 9, Energy: models.EnergyHigh},
	}
	out := renderTimeline(entries)
	if strings.Contains(out, strings.Repeat("x", 25)) {
		t.Errorf("long name not truncated:\n%s", out)
	}
	if !strings.Contains(out, strings.Repeat("x", 23)+"…") {
		t.Errorf("expected ellipsis after 23 characters:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hel…"},
		{"hello", 1, "h"},
		{"hello", 0, ""},
		{"héllo", 3, "hé…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestStyleForEnergy_Unknown(t *testing.T) {
	if got := styleForEnergy("extreme").Render("x"); got != "x" {
		t.Errorf("unknown energy should render unstyled, got %q", got)
	}
}
