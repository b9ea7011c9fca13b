package core

import (
	"fmt"

	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

// ScheduleObserver receives scheduling decisions as they are made. It is an
// optional tracing hook; the scheduler never writes output on its own.
type ScheduleObserver interface {
	TaskAssigned(entry models.ScheduleEntry, score int)
	TaskSkipped(task models.Task, reason string)
}

// Scheduler places tasks into the hours of a single day.
type Scheduler interface {
	Schedule(tasks []models.Task, availableHours int, focusTag string) ([]models.ScheduleEntry, error)
}

// minCandidateScore is the lowest score a task may have and still be placed.
const minCandidateScore = 0

// greedyScheduler fills the day one free hour at a time, visiting the energy
// blocks in catalog order and picking the best-scoring task that still fits.
type greedyScheduler struct {
	observer ScheduleObserver
}

// NewScheduler returns the greedy slot filler. observer may be nil.
func NewScheduler(observer ScheduleObserver) Scheduler {
	return &greedyScheduler{observer: observer}
}

// Schedule assigns tasks to non-overlapping hour ranges inside the day window
// without exceeding availableHours in total.
//
// For every block in BlocksFor order and every hour of the block in ascending
// order, the first free hour is offered to all unscheduled tasks whose whole
// duration fits in free hours before DayEndHour and within the remaining
// budget. The highest Score wins; on a tie the task that comes first in the
// input wins. A task scoring below zero, which needs a negative priority, is
// never placed. An hour nobody takes is not revisited.
//
// Malformed tasks (empty name, duration below 1, unknown energy) are skipped.
// Two well-formed tasks sharing a name produce a *ValidationError. An empty
// result is not an error.
func (s *greedyScheduler) Schedule(tasks []models.Task, availableHours int, focusTag string) ([]models.ScheduleEntry, error) {
	candidates, err := s.candidates(tasks)
	if err != nil {
		return nil, err
	}

	entries := []models.ScheduleEntry{}
	if availableHours <= 0 || len(candidates) == 0 {
		return entries, nil
	}

	usedHours := 0
	occupied := make(map[int]bool)
	scheduled := make([]bool, len(candidates))

	for _, block := range BlocksFor() {
		for hour := block.Start; hour < block.End; hour++ {
			if usedHours >= availableHours {
				return entries, nil
			}
			if occupied[hour] {
				continue
			}

			best, bestScore := -1, minCandidateScore-1
			for i, task := range candidates {
				if scheduled[i] {
					continue
				}
				if usedHours+task.Duration > availableHours || hour+task.Duration > DayEndHour {
					continue
				}
				if rangeOccupied(occupied, hour, hour+task.Duration) {
					continue
				}
				score := Score(task, block.Energy, focusTag)
				if score > bestScore {
					best, bestScore = i, score
				}
			}
			if best < 0 {
				continue
			}

			task := candidates[best]
			entry := models.ScheduleEntry{
				TaskName:  task.Name,
				StartHour: hour,
				EndHour:   hour + task.Duration,
				Energy:    task.Energy,
				Type:      task.Type,
				Tags:      copyTags(task.Tags),
			}
			entries = append(entries, entry)
			usedHours += task.Duration
			scheduled[best] = true
			for h := entry.StartHour; h < entry.EndHour; h++ {
				occupied[h] = true
			}
			if s.observer != nil {
				s.observer.TaskAssigned(entry, bestScore)
			}
		}
	}

	return entries, nil
}

// candidates drops malformed tasks and rejects duplicate names among the rest.
func (s *greedyScheduler) candidates(tasks []models.Task) ([]models.Task, error) {
	result := make([]models.Task, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	var duplicates []string

	for _, task := range tasks {
		if reason := malformedReason(task); reason != "" {
			if s.observer != nil {
				s.observer.TaskSkipped(task, reason)
			}
			continue
		}
		if seen[task.Name] {
			duplicates = append(duplicates, fmt.Sprintf("duplicate task name %q", task.Name))
			continue
		}
		seen[task.Name] = true
		result = append(result, task)
	}

	if len(duplicates) > 0 {
		return nil, &ValidationError{Field: "name", Problems: duplicates}
	}
	return result, nil
}

func malformedReason(task models.Task) string {
	switch {
	case task.Name == "":
		return "empty name"
	case task.Duration < 1:
		return fmt.Sprintf("invalid duration %d", task.Duration)
	case !task.Energy.Valid():
		return fmt.Sprintf("unknown energy %q", task.Energy)
	}
	return ""
}

func rangeOccupied(occupied map[int]bool, start, end int) bool {
	for h := start; h < end; h++ {
		if occupied[h] {
			return true
		}
	}
	return false
}

func copyTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
