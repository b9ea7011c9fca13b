package cli

import (
	"github.com/rs/zerolog"
	"github.com/valter-silva-au/time-optimizer/internal/core"
	"github.com/valter-silva-au/time-optimizer/internal/observability"
	"github.com/valter-silva-au/time-optimizer/internal/storage"
	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath  string
	Config    *models.GlobalConfig
	Logger    = zerolog.Nop()
	Tasks     storage.TaskStore
	Schedules storage.ScheduleStore
	Planner   core.DayPlanner
	Events    core.EventLogger
)

// Observability service instances, set during app initialization in app.go.
var (
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
)

// defaultHours returns the configured hour budget.
func defaultHours() int {
	if Config == nil {
		return core.DefaultConfig().DefaultAvailableHours
	}
	return Config.DefaultAvailableHours
}

// defaultFocusTag returns the configured focus tag.
func defaultFocusTag() string {
	if Config == nil {
		return ""
	}
	return Config.DefaultFocusTag
}

// logEvent records an event when the event log is enabled. Failures are
// logged and otherwise ignored.
func logEvent(eventType string, data map[string]any) {
	if Events == nil {
		return
	}
	if err := Events.LogEvent(eventType, data); err != nil {
		Logger.Warn().Err(err).Str("type", eventType).Msg("writing event")
	}
}
