package core

import "github.com/valter-silva-au/time-optimizer/pkg/models"

// TaskSource provides the saved task list. Load refreshes it from disk so a
// long-running process sees tasks saved by others.
// This interface is defined locally in core to avoid importing storage.
type TaskSource interface {
	Load() error
	GetAllTasks() ([]models.Task, error)
}

// ScheduleStore persists generated daily schedules.
// This interface is defined locally in core to avoid importing storage.
type ScheduleStore interface {
	SaveSchedule(schedule models.DailySchedule) error
	LoadSchedule(date string) (*models.DailySchedule, error)
}
