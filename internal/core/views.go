package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/valter-silva-au/time-optimizer/pkg/models"
	"gonum.org/v1/gonum/stat"
)

// FilterSchedule keeps the entries whose type is in types and which carry at
// least one of tags. An empty types or tags list matches everything.
// Comparisons ignore case.
func FilterSchedule(entries []models.ScheduleEntry, types []models.TaskType, tags []string) []models.ScheduleEntry {
	result := make([]models.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		if len(types) > 0 && !containsType(types, e.Type) {
			continue
		}
		if len(tags) > 0 && !hasAnyTag(e.Tags, tags) {
			continue
		}
		result = append(result, e)
	}
	return result
}

func containsType(types []models.TaskType, t models.TaskType) bool {
	for _, candidate := range types {
		if strings.EqualFold(string(candidate), string(t)) {
			return true
		}
	}
	return false
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// FormatScheduleText renders entries as the plain-text export.
func FormatScheduleText(entries []models.ScheduleEntry) string {
	lines := []string{"Your optimized schedule:", ""}
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s: %s (%s)", e.Label(), e.TaskName, e.Energy))
	}
	return strings.Join(lines, "\n")
}

// Summary aggregates a schedule for display.
type Summary struct {
	EnergyCounts    map[models.EnergyLevel]int `json:"energy_counts"`
	TypeCounts      map[models.TaskType]int    `json:"type_counts"`
	TypeHours       map[models.TaskType]int    `json:"type_hours"`
	AveragePriority float64                    `json:"average_priority"`
	MostCommonType  models.TaskType            `json:"most_common_type,omitempty"`
	UsedHours       int                        `json:"used_hours"`
	UnusedHours     int                        `json:"unused_hours"`
}

// Summarize computes a Summary of entries. tasks supplies priorities, which
// entries do not carry; entries without a matching task are left out of the
// average.
func Summarize(entries []models.ScheduleEntry, tasks []models.Task, availableHours int) Summary {
	s := Summary{
		EnergyCounts: make(map[models.EnergyLevel]int),
		TypeCounts:   make(map[models.TaskType]int),
		TypeHours:    make(map[models.TaskType]int),
	}

	priorities := make(map[string]int, len(tasks))
	for _, t := range tasks {
		priorities[t.Name] = t.Priority
	}

	var scheduled []float64
	for _, e := range entries {
		s.EnergyCounts[e.Energy]++
		s.UsedHours += e.Hours()
		if e.Type != "" {
			s.TypeCounts[e.Type]++
			s.TypeHours[e.Type] += e.Hours()
		}
		if p, ok := priorities[e.TaskName]; ok {
			scheduled = append(scheduled, float64(p))
		}
	}
	if len(scheduled) > 0 {
		s.AveragePriority = stat.Mean(scheduled, nil)
	}

	s.MostCommonType = mostCommonType(s.TypeCounts)
	s.UnusedHours = availableHours - s.UsedHours
	if s.UnusedHours < 0 {
		s.UnusedHours = 0
	}
	return s
}

// mostCommonType picks the highest count, breaking ties alphabetically so the
// result does not depend on map order.
func mostCommonType(counts map[models.TaskType]int) models.TaskType {
	keys := make([]models.TaskType, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var best models.TaskType
	bestCount := 0
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

// UnusedMessage describes the time left over.
func (s Summary) UnusedMessage() string {
	if s.UnusedHours >= 2 {
		return fmt.Sprintf("Warning: %d hour(s) left unscheduled.", s.UnusedHours)
	}
	return fmt.Sprintf("Good job! Only %d hour(s) left unscheduled.", s.UnusedHours)
}

// SmartSuggestions returns the tasks left out of entries that would still fit
// in unusedHours. When focusTag is set only tasks carrying it are returned.
func SmartSuggestions(tasks []models.Task, entries []models.ScheduleEntry, unusedHours int, focusTag string) []models.Task {
	used := make(map[string]bool, len(entries))
	for _, e := range entries {
		used[e.TaskName] = true
	}
	focusTag = strings.TrimSpace(focusTag)

	var result []models.Task
	for _, t := range tasks {
		if used[t.Name] || t.Duration > unusedHours {
			continue
		}
		if focusTag != "" && !t.HasTag(focusTag) {
			continue
		}
		result = append(result, t)
	}
	return result
}
