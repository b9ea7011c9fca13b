package models

import "strings"

// EnergyLevel is the energy tier a task needs or a block of the day offers.
type EnergyLevel string

const (
	EnergyHigh   EnergyLevel = "high"
	EnergyMedium EnergyLevel = "medium"
	EnergyLow    EnergyLevel = "low"
)

// EnergyLevels lists the known tiers in catalog order.
var EnergyLevels = []EnergyLevel{EnergyHigh, EnergyMedium, EnergyLow}

// Valid reports whether e is one of the known tiers.
func (e EnergyLevel) Valid() bool {
	switch e {
	case EnergyHigh, EnergyMedium, EnergyLow:
		return true
	}
	return false
}

// TaskType is the category of work a task belongs to.
type TaskType string

const (
	TaskTypeStudy    TaskType = "Study"
	TaskTypeWork     TaskType = "Work"
	TaskTypeHealth   TaskType = "Health"
	TaskTypePersonal TaskType = "Personal"
	TaskTypeCreative TaskType = "Creative"
)

// TaskTypes lists the known task categories.
var TaskTypes = []TaskType{TaskTypeStudy, TaskTypeWork, TaskTypeHealth, TaskTypePersonal, TaskTypeCreative}

// ParseTaskType matches s against the known categories case-insensitively.
func ParseTaskType(s string) (TaskType, bool) {
	for _, t := range TaskTypes {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

const (
	MinPriority = 1
	MaxPriority = 5
)

// Task is a candidate unit of work for one day's plan. Duration is in whole
// hours; Priority runs from 1 (low) to 5 (high).
type Task struct {
	Name     string      `yaml:"name" json:"name"`
	Duration int         `yaml:"duration" json:"duration"`
	Priority int         `yaml:"priority" json:"priority"`
	Energy   EnergyLevel `yaml:"energy" json:"energy"`
	Type     TaskType    `yaml:"type,omitempty" json:"type,omitempty"`
	Tags     []string    `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// HasTag reports whether the task carries tag, ignoring case.
func (t Task) HasTag(tag string) bool {
	for _, candidate := range t.Tags {
		if strings.EqualFold(candidate, tag) {
			return true
		}
	}
	return false
}
