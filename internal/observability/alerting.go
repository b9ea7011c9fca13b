package observability

import (
	"fmt"
	"time"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when alerts fire.
type AlertThresholds struct {
	// UnusedHours is the amount of budget left idle in the latest plan that
	// triggers an alert.
	UnusedHours int `yaml:"unused_hours" json:"unused_hours"`
	// LowFillRatio flags the latest plan when it used less than this share
	// of its budget.
	LowFillRatio float64 `yaml:"low_fill_ratio" json:"low_fill_ratio"`
}

// DefaultAlertThresholds returns sensible defaults.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		UnusedHours:  2,
		LowFillRatio: 0.5,
	}
}

// AlertEngine evaluates alert conditions against the event log.
type AlertEngine interface {
	Evaluate() ([]Alert, error)
}

type alertEngine struct {
	eventLog   EventLog
	thresholds AlertThresholds
	now        func() time.Time
}

// NewAlertEngine creates an AlertEngine with the given EventLog and thresholds.
func NewAlertEngine(eventLog EventLog, thresholds AlertThresholds) AlertEngine {
	return &alertEngine{
		eventLog:   eventLog,
		thresholds: thresholds,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Evaluate inspects today's plan runs. It reports a missing plan, an empty
// plan despite available hours, and a plan that leaves too much time idle.
func (ae *alertEngine) Evaluate() ([]Alert, error) {
	now := ae.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	events, err := ae.eventLog.Read(EventFilter{Since: &startOfDay, Type: EventScheduleGenerated, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("reading plan events: %w", err)
	}

	if len(events) == 0 {
		return []Alert{{
			ID:          "no_plan_today",
			Condition:   "no_plan_today",
			Severity:    SeverityLow,
			Message:     "No schedule generated today",
			TriggeredAt: now,
		}}, nil
	}

	latest := events[0]
	available := intField(latest.Data, "available_hours")
	hours := intField(latest.Data, "hours_scheduled")
	runID, _ := latest.Data["run_id"].(string)

	var alerts []Alert
	if available <= 0 {
		return alerts, nil
	}

	if intField(latest.Data, "tasks_scheduled") == 0 {
		alerts = append(alerts, Alert{
			ID:          "empty_schedule-" + runID,
			Condition:   "empty_schedule",
			Severity:    SeverityHigh,
			Message:     fmt.Sprintf("Not enough time to fit any task into %d hour(s)", available),
			TriggeredAt: latest.Time,
		})
		return alerts, nil
	}

	unused := available - hours
	if ae.thresholds.UnusedHours > 0 && unused >= ae.thresholds.UnusedHours {
		alerts = append(alerts, Alert{
			ID:          "unused_hours-" + runID,
			Condition:   "unused_hours",
			Severity:    SeverityMedium,
			Message:     fmt.Sprintf("%d hour(s) left unscheduled", unused),
			TriggeredAt: latest.Time,
		})
	}

	ratio := float64(hours) / float64(available)
	if ratio < ae.thresholds.LowFillRatio {
		alerts = append(alerts, Alert{
			ID:          "low_fill-" + runID,
			Condition:   "low_fill",
			Severity:    SeverityLow,
			Message:     fmt.Sprintf("Only %.0f%% of the available time is planned", ratio*100),
			TriggeredAt: latest.Time,
		})
	}

	return alerts, nil
}
