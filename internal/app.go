// Package internal provides the App struct that wires all components of the
// time optimizer together and initializes the CLI layer.
package internal

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/valter-silva-au/time-optimizer/internal/cli"
	"github.com/valter-silva-au/time-optimizer/internal/core"
	"github.com/valter-silva-au/time-optimizer/internal/observability"
	"github.com/valter-silva-au/time-optimizer/internal/storage"
	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

// HomeEnvVar overrides the data directory.
const HomeEnvVar = "TOPT_HOME"

// App holds all service dependencies of the time optimizer.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.GlobalConfig
	Logger    zerolog.Logger

	// Storage layer
	TaskStore     storage.TaskStore
	ScheduleStore storage.ScheduleStore

	// Core services
	Scheduler core.Scheduler
	Planner   core.DayPlanner

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components. basePath is the directory holding
// tasks.yaml, the schedules/ directory, and the optional .topt.yaml.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg
	app.Logger = observability.NewLogger("topt", cfg.Log.Level, cfg.Log.Format, os.Stderr)

	// --- Storage layer ---
	app.TaskStore = storage.NewTaskStore(basePath)
	if err := app.TaskStore.Load(); err != nil {
		// Non-fatal so `topt task clear` still works. The store refuses to
		// save over the file until it loads cleanly.
		app.Logger.Warn().Err(err).Msg("could not load saved tasks")
	}
	app.ScheduleStore = storage.NewScheduleStore(basePath)

	// --- Observability ---
	var evtAdapter core.EventLogger
	if cfg.Events.Enabled {
		eventLogPath := cfg.Events.File
		if !filepath.IsAbs(eventLogPath) {
			eventLogPath = filepath.Join(basePath, eventLogPath)
		}
		app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
		if err != nil {
			// Non-fatal: disable observability if log can't be created.
			app.Logger.Warn().Err(err).Msg("event log disabled")
			app.EventLog = nil
		}
	}
	if app.EventLog != nil {
		app.AlertEngine = observability.NewAlertEngine(app.EventLog, observability.DefaultAlertThresholds())
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
		evtAdapter = &eventLogAdapter{log: app.EventLog}
	}

	// --- Core services ---
	app.Scheduler = core.NewScheduler(observability.NewScheduleLogger(app.Logger))
	app.Planner = core.NewDayPlanner(app.TaskStore, app.ScheduleStore, app.Scheduler, evtAdapter)

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Config = cfg
	cli.Logger = app.Logger
	cli.Tasks = app.TaskStore
	cli.Schedules = app.ScheduleStore
	cli.Planner = app.Planner
	cli.Events = evtAdapter

	cli.EventLog = app.EventLog
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the data directory. TOPT_HOME wins; otherwise
// the nearest ancestor of the working directory holding .topt.yaml is used,
// falling back to the working directory.
func ResolveBasePath() string {
	if home := os.Getenv(HomeEnvVar); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	cwd := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, core.ConfigFileName+".yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return cwd
}

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	return a.log.Write(observability.NewEvent(eventType, data))
}
