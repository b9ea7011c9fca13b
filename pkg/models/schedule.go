package models

import (
	"fmt"
	"time"
)

// ScheduleEntry is one task placed on the day at [StartHour, EndHour).
// Energy echoes the task's preferred tier, not the block it landed in.
type ScheduleEntry struct {
	TaskName  string      `yaml:"task" json:"task"`
	StartHour int         `yaml:"start_hour" json:"start_hour"`
	EndHour   int         `yaml:"end_hour" json:"end_hour"`
	Energy    EnergyLevel `yaml:"energy" json:"energy"`
	Type      TaskType    `yaml:"type,omitempty" json:"type,omitempty"`
	Tags      []string    `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Hours returns the length of the entry.
func (e ScheduleEntry) Hours() int {
	return e.EndHour - e.StartHour
}

// Label renders the slot as "HH:00 - HH:00".
func (e ScheduleEntry) Label() string {
	return fmt.Sprintf("%02d:00 - %02d:00", e.StartHour, e.EndHour)
}

// DailySchedule is a generated plan for a single date, as persisted by the
// schedule store.
type DailySchedule struct {
	Date           string          `yaml:"date" json:"date"` // YYYY-MM-DD
	RunID          string          `yaml:"run_id" json:"run_id"`
	AvailableHours int             `yaml:"available_hours" json:"available_hours"`
	FocusTag       string          `yaml:"focus_tag,omitempty" json:"focus_tag,omitempty"`
	Generated      time.Time       `yaml:"generated" json:"generated"`
	Entries        []ScheduleEntry `yaml:"entries" json:"entries"`
}

// UsedHours sums the hours of all entries.
func (d *DailySchedule) UsedHours() int {
	total := 0
	for _, e := range d.Entries {
		total += e.Hours()
	}
	return total
}
