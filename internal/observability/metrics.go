package observability

import (
	"fmt"
	"time"
)

// Metrics holds planning metrics derived from the event log.
type Metrics struct {
	PlanRuns         int            `json:"plan_runs"`
	TasksScheduled   int            `json:"tasks_scheduled"`
	HoursScheduled   int            `json:"hours_scheduled"`
	HoursAvailable   int            `json:"hours_available"`
	HoursUnused      int            `json:"hours_unused"`
	EmptyRuns        int            `json:"empty_runs"`
	ScheduledByLevel map[string]int `json:"scheduled_by_energy"`
	AverageFillRatio float64        `json:"average_fill_ratio"`
	TasksAdded       int            `json:"tasks_added"`
	TasksRemoved     int            `json:"tasks_removed"`
	EventCount       int            `json:"event_count"`
	OldestEvent      *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent      *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator that reads from eventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate aggregates every event since the given time. The fill ratio is
// averaged over runs with a positive hour budget.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{ScheduledByLevel: make(map[string]int)}
	m.EventCount = len(events)

	var fillSum float64
	fillRuns := 0

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case EventScheduleGenerated:
			m.PlanRuns++
			scheduled := intField(event.Data, "tasks_scheduled")
			hours := intField(event.Data, "hours_scheduled")
			available := intField(event.Data, "available_hours")
			m.TasksScheduled += scheduled
			m.HoursScheduled += hours
			if available > 0 {
				m.HoursAvailable += available
				m.HoursUnused += available - hours
				fillSum += float64(hours) / float64(available)
				fillRuns++
			}
			if scheduled == 0 {
				m.EmptyRuns++
			}
			for _, level := range []string{"high", "medium", "low"} {
				m.ScheduledByLevel[level] += intField(event.Data, "scheduled_"+level)
			}
		case EventTaskAdded:
			m.TasksAdded++
		case EventTaskRemoved:
			m.TasksRemoved++
		}
	}

	if fillRuns > 0 {
		m.AverageFillRatio = fillSum / float64(fillRuns)
	}
	return m, nil
}

// intField reads a numeric event field. JSON decoding yields float64, while
// events built in memory carry ints.
func intField(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
