package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/valter-silva-au/time-optimizer/internal/core"
	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

const timelineCellWidth = 3

var (
	energyHighStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("161"))
	energyMediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("172"))
	energyLowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	timelineAxisStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	timelineNameStyle = lipgloss.NewStyle().Bold(true)
)

func styleForEnergy(level models.EnergyLevel) lipgloss.Style {
	switch level {
	case models.EnergyHigh:
		return energyHighStyle
	case models.EnergyMedium:
		return energyMediumStyle
	case models.EnergyLow:
		return energyLowStyle
	default:
		return lipgloss.NewStyle()
	}
}

// renderTimeline draws a Gantt-style view of entries across the day window,
// one row per task, with bars colored by the task's energy.
func renderTimeline(entries []models.ScheduleEntry) string {
	if len(entries) == 0 {
		return "  (empty day)"
	}

	nameWidth := 4
	for _, e := range entries {
		if w := lipgloss.Width(e.TaskName); w > nameWidth {
			nameWidth = w
		}
	}
	if nameWidth > 24 {
		nameWidth = 24
	}

	var b strings.Builder

	// Hour axis.
	axis := strings.Repeat(" ", nameWidth+3)
	for h := core.DayStartHour; h < core.DayEndHour; h++ {
		axis += fmt.Sprintf("%-*s", timelineCellWidth, fmt.Sprintf("%02d", h))
	}
	b.WriteString(timelineAxisStyle.Render(axis))
	b.WriteString("\n")

	// Block bands.
	band := strings.Repeat(" ", nameWidth+3)
	for _, block := range core.BlocksFor() {
		width := (block.End - block.Start) * timelineCellWidth
		label := truncate(string(block.Energy), width)
		band += styleForEnergy(block.Energy).Faint(true).Render(fmt.Sprintf("%-*s", width, label))
	}
	b.WriteString(band)
	b.WriteString("\n")

	for _, e := range entries {
		name := truncate(e.TaskName, nameWidth)
		offset := (e.StartHour - core.DayStartHour) * timelineCellWidth
		width := e.Hours() * timelineCellWidth
		bar := styleForEnergy(e.Energy).Render(fmt.Sprintf("%-*s", width, truncate(fmt.Sprintf("%dh", e.Hours()), width)))
		b.WriteString(fmt.Sprintf("  %s %s%s\n",
			timelineNameStyle.Render(fmt.Sprintf("%-*s", nameWidth, name)),
			strings.Repeat(" ", offset),
			bar,
		))
	}

	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return string(r[:1])
	}
	return string(r[:width-1]) + "…"
}
