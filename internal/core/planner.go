package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

// DateLayout is the date format used for persisted schedules.
const DateLayout = "2006-01-02"

// PlanRequest describes one planning run.
type PlanRequest struct {
	AvailableHours int
	FocusTag       string
	// Date defaults to today when zero.
	Date time.Time
	// Save persists the result as the schedule for Date.
	Save bool
}

// DayPlanner runs the scheduler against the saved task list and manages the
// resulting daily schedules.
type DayPlanner interface {
	Plan(req PlanRequest) (*models.DailySchedule, error)
	Suggest(schedule *models.DailySchedule) ([]models.Task, error)
	Today(date time.Time) (*models.DailySchedule, error)
}

type dayPlanner struct {
	tasks     TaskSource
	schedules ScheduleStore
	scheduler Scheduler
	events    EventLogger
	now       func() time.Time
	newRunID  func() string
}

// NewDayPlanner creates a DayPlanner. schedules and events may be nil, in
// which case saving is rejected and no events are emitted.
func NewDayPlanner(tasks TaskSource, schedules ScheduleStore, scheduler Scheduler, events EventLogger) DayPlanner {
	if scheduler == nil {
		scheduler = NewScheduler(nil)
	}
	return &dayPlanner{
		tasks:     tasks,
		schedules: schedules,
		scheduler: scheduler,
		events:    events,
		now:       time.Now,
		newRunID:  func() string { return uuid.NewString() },
	}
}

// Plan loads all saved tasks and schedules them for the requested day.
func (p *dayPlanner) Plan(req PlanRequest) (*models.DailySchedule, error) {
	if req.Save && p.schedules == nil {
		return nil, fmt.Errorf("planning day: no schedule store configured")
	}

	tasks, err := p.loadTasks()
	if err != nil {
		return nil, fmt.Errorf("planning day: %w", err)
	}

	entries, err := p.scheduler.Schedule(tasks, req.AvailableHours, req.FocusTag)
	if err != nil {
		return nil, fmt.Errorf("planning day: %w", err)
	}

	date := req.Date
	if date.IsZero() {
		date = p.now()
	}

	schedule := &models.DailySchedule{
		Date:           date.Format(DateLayout),
		RunID:          p.newRunID(),
		AvailableHours: req.AvailableHours,
		FocusTag:       req.FocusTag,
		Generated:      p.now().UTC(),
		Entries:        entries,
	}

	if req.Save {
		if err := p.schedules.SaveSchedule(*schedule); err != nil {
			return nil, fmt.Errorf("planning day: saving schedule: %w", err)
		}
	}

	p.logPlan(schedule, len(tasks), req.Save)
	return schedule, nil
}

func (p *dayPlanner) logPlan(schedule *models.DailySchedule, considered int, saved bool) {
	if p.events == nil {
		return
	}
	data := map[string]any{
		"run_id":           schedule.RunID,
		"date":             schedule.Date,
		"available_hours":  schedule.AvailableHours,
		"focus_tag":        schedule.FocusTag,
		"tasks_considered": considered,
		"tasks_scheduled":  len(schedule.Entries),
		"hours_scheduled":  schedule.UsedHours(),
		"saved":            saved,
	}
	for _, level := range models.EnergyLevels {
		count := 0
		for _, e := range schedule.Entries {
			if e.Energy == level {
				count++
			}
		}
		data["scheduled_"+string(level)] = count
	}
	_ = p.events.LogEvent("schedule.generated", data) // Non-fatal.
}

// loadTasks rereads the task list before returning it.
func (p *dayPlanner) loadTasks() ([]models.Task, error) {
	if err := p.tasks.Load(); err != nil {
		return nil, err
	}
	tasks, err := p.tasks.GetAllTasks()
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	return tasks, nil
}

// Suggest lists saved tasks left out of schedule that still fit in its
// unused hours, restricted to the schedule's focus tag when one was set.
func (p *dayPlanner) Suggest(schedule *models.DailySchedule) ([]models.Task, error) {
	if schedule == nil {
		return nil, fmt.Errorf("suggesting tasks: schedule is nil")
	}
	tasks, err := p.loadTasks()
	if err != nil {
		return nil, fmt.Errorf("suggesting tasks: %w", err)
	}
	unused := schedule.AvailableHours - schedule.UsedHours()
	return SmartSuggestions(tasks, schedule.Entries, unused, schedule.FocusTag), nil
}

// Today returns the schedule saved for date, or nil when there is none.
func (p *dayPlanner) Today(date time.Time) (*models.DailySchedule, error) {
	if p.schedules == nil {
		return nil, fmt.Errorf("loading schedule: no schedule store configured")
	}
	if date.IsZero() {
		date = p.now()
	}
	schedule, err := p.schedules.LoadSchedule(date.Format(DateLayout))
	if err != nil {
		return nil, fmt.Errorf("loading schedule for %s: %w", date.Format(DateLayout), err)
	}
	return schedule, nil
}
