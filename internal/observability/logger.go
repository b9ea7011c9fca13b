package observability

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

// NewLogger builds a zerolog logger tagged with component. format is
// "console" for human-readable output or "json"; an unknown level falls
// back to info.
func NewLogger(component, level, format string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	if format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("component", component).Logger()
}

// ScheduleLogger traces scheduler decisions at debug level. It satisfies
// core.ScheduleObserver.
type ScheduleLogger struct {
	log zerolog.Logger
}

// NewScheduleLogger wraps log as a scheduling observer.
func NewScheduleLogger(log zerolog.Logger) *ScheduleLogger {
	return &ScheduleLogger{log: log}
}

func (l *ScheduleLogger) TaskAssigned(entry models.ScheduleEntry, score int) {
	l.log.Debug().
		Str("task", entry.TaskName).
		Int("start_hour", entry.StartHour).
		Int("end_hour", entry.EndHour).
		Str("energy", string(entry.Energy)).
		Int("score", score).
		Msg("assigned task")
}

func (l *ScheduleLogger) TaskSkipped(task models.Task, reason string) {
	l.log.Warn().
		Str("task", task.Name).
		Str("reason", reason).
		Msg("skipped malformed task")
}
