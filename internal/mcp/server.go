// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the planner as tools for AI assistants.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/time-optimizer/internal/core"
	"github.com/valter-silva-au/time-optimizer/internal/observability"
	"github.com/valter-silva-au/time-optimizer/internal/storage"
	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

// TaskLister provides filtered access to the saved task list. Load is called
// before every listing so the server sees tasks saved by the CLI.
type TaskLister interface {
	Load() error
	FilterTasks(filter storage.TaskFilter) ([]models.Task, error)
}

// Server wraps the planner services and exposes them as MCP tools.
type Server struct {
	server      *gomcp.Server
	planner     core.DayPlanner
	tasks       TaskLister
	scheduler   core.Scheduler
	metricsCalc observability.MetricsCalculator
	alertEngine observability.AlertEngine
}

// NewServer creates a new MCP server. metricsCalc and alertEngine may be nil
// if the event log is disabled.
func NewServer(planner core.DayPlanner, tasks TaskLister, metricsCalc observability.MetricsCalculator, alertEngine observability.AlertEngine, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		planner:     planner,
		tasks:       tasks,
		scheduler:   core.NewScheduler(nil),
		metricsCalc: metricsCalc,
		alertEngine: alertEngine,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "topt", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type taskInput struct {
	Name     string   `json:"name" jsonschema:"unique task name"`
	Duration int      `json:"duration" jsonschema:"length in whole hours"`
	Priority int      `json:"priority" jsonschema:"1 (low) to 5 (high)"`
	Energy   string   `json:"energy" jsonschema:"energy the task needs: high, medium or low"`
	Type     string   `json:"type,omitempty" jsonschema:"category: Study, Work, Health, Personal or Creative"`
	Tags     []string `json:"tags,omitempty" jsonschema:"free-form labels matched against the focus tag"`
}

type generateScheduleInput struct {
	AvailableHours int         `json:"available_hours" jsonschema:"total hours the plan may use"`
	FocusTag       string      `json:"focus_tag,omitempty" jsonschema:"tag whose tasks get a scoring bonus"`
	Date           string      `json:"date,omitempty" jsonschema:"day to plan as YYYY-MM-DD. Defaults to today."`
	Save           bool        `json:"save,omitempty" jsonschema:"persist the plan as the schedule for the day"`
	Tasks          []taskInput `json:"tasks,omitempty" jsonschema:"ad-hoc tasks to schedule instead of the saved task list"`
}

type scheduleOutput struct {
	Date           string                 `json:"date,omitempty"`
	RunID          string                 `json:"run_id,omitempty"`
	AvailableHours int                    `json:"available_hours"`
	UsedHours      int                    `json:"used_hours"`
	FocusTag       string                 `json:"focus_tag,omitempty"`
	Entries        []models.ScheduleEntry `json:"entries"`
	Text           string                 `json:"text"`
	Message        string                 `json:"message"`
}

type listTasksInput struct {
	Type string `json:"type,omitempty" jsonschema:"only list tasks of this category"`
	Tag  string `json:"tag,omitempty" jsonschema:"only list tasks carrying this tag"`
}

type listTasksOutput struct {
	Tasks []models.Task `json:"tasks"`
	Count int           `json:"count"`
}

type getScheduleInput struct {
	Date string `json:"date,omitempty" jsonschema:"day as YYYY-MM-DD. Defaults to today."`
}

type getScheduleOutput struct {
	Found    bool            `json:"found"`
	Schedule *scheduleOutput `json:"schedule,omitempty"`
}

type suggestTasksInput struct {
	Date string `json:"date,omitempty" jsonschema:"day of the saved schedule as YYYY-MM-DD. Defaults to today."`
}

type suggestTasksOutput struct {
	Suggestions []models.Task `json:"suggestions"`
	Count       int           `json:"count"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
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
	OldestEvent      string         `json:"oldest_event,omitempty"`
	NewestEvent      string         `json:"newest_event,omitempty"`
}

type getAlertsInput struct{}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "generate_schedule",
		Description: "Plan a day between 08:00 and 22:00. Uses the saved task list unless ad-hoc tasks are given.",
	}, s.handleGenerateSchedule)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List saved tasks with optional type and tag filters.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_schedule",
		Description: "Get the saved schedule for a day.",
	}, s.handleGetSchedule)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "suggest_tasks",
		Description: "Suggest saved tasks that were left out of a day's schedule but still fit in its unused hours.",
	}, s.handleSuggestTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get planning metrics from the event log: runs, tasks and hours scheduled, unused hours and fill ratio.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Evaluate and return active alerts (no plan today, empty schedule, idle hours, low fill).",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

func (s *Server) handleGenerateSchedule(_ context.Context, _ *gomcp.CallToolRequest, input generateScheduleInput) (*gomcp.CallToolResult, scheduleOutput, error) {
	if input.AvailableHours < 0 {
		return errorResult("available_hours must not be negative"), scheduleOutput{}, nil
	}

	if len(input.Tasks) > 0 {
		if input.Save {
			return errorResult("save is only supported for the saved task list"), scheduleOutput{}, nil
		}
		return s.scheduleAdHoc(input)
	}

	if s.planner == nil {
		return errorResult("planner not available"), scheduleOutput{}, nil
	}
	date, err := parseDate(input.Date)
	if err != nil {
		return errorResult(err.Error()), scheduleOutput{}, nil
	}

	schedule, err := s.planner.Plan(core.PlanRequest{
		AvailableHours: input.AvailableHours,
		FocusTag:       input.FocusTag,
		Date:           date,
		Save:           input.Save,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("generating schedule: %s", err)), scheduleOutput{}, nil
	}

	return nil, scheduleToOutput(schedule), nil
}

func (s *Server) scheduleAdHoc(input generateScheduleInput) (*gomcp.CallToolResult, scheduleOutput, error) {
	tasks := make([]models.Task, 0, len(input.Tasks))
	for _, in := range input.Tasks {
		task := models.Task{
			Name:     in.Name,
			Duration: in.Duration,
			Priority: in.Priority,
			Energy:   models.EnergyLevel(in.Energy),
			Tags:     in.Tags,
		}
		if in.Type != "" {
			t, ok := models.ParseTaskType(in.Type)
			if !ok {
				return errorResult(fmt.Sprintf("unknown task type %q for task %q", in.Type, in.Name)), scheduleOutput{}, nil
			}
			task.Type = t
		}
		if err := core.ValidateTask(task); err != nil {
			return errorResult(err.Error()), scheduleOutput{}, nil
		}
		tasks = append(tasks, task)
	}

	entries, err := s.scheduler.Schedule(tasks, input.AvailableHours, input.FocusTag)
	if err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			return errorResult(verr.Error()), scheduleOutput{}, nil
		}
		return errorResult(fmt.Sprintf("generating schedule: %s", err)), scheduleOutput{}, nil
	}

	return nil, scheduleToOutput(&models.DailySchedule{
		AvailableHours: input.AvailableHours,
		FocusTag:       input.FocusTag,
		Entries:        entries,
	}), nil
}

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	if s.tasks == nil {
		return errorResult("task store not available"), listTasksOutput{Tasks: []models.Task{}}, nil
	}

	var filter storage.TaskFilter
	if input.Type != "" {
		t, ok := models.ParseTaskType(input.Type)
		if !ok {
			return errorResult(fmt.Sprintf("unknown task type %q", input.Type)), listTasksOutput{Tasks: []models.Task{}}, nil
		}
		filter.Types = []models.TaskType{t}
	}
	if input.Tag != "" {
		filter.Tags = []string{input.Tag}
	}

	if err := s.tasks.Load(); err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{Tasks: []models.Task{}}, nil
	}
	tasks, err := s.tasks.FilterTasks(filter)
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{Tasks: []models.Task{}}, nil
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	return nil, listTasksOutput{Tasks: tasks, Count: len(tasks)}, nil
}

func (s *Server) handleGetSchedule(_ context.Context, _ *gomcp.CallToolRequest, input getScheduleInput) (*gomcp.CallToolResult, getScheduleOutput, error) {
	if s.planner == nil {
		return errorResult("planner not available"), getScheduleOutput{}, nil
	}
	date, err := parseDate(input.Date)
	if err != nil {
		return errorResult(err.Error()), getScheduleOutput{}, nil
	}

	schedule, err := s.planner.Today(date)
	if err != nil {
		return errorResult(fmt.Sprintf("getting schedule: %s", err)), getScheduleOutput{}, nil
	}
	if schedule == nil {
		return nil, getScheduleOutput{Found: false}, nil
	}

	out := scheduleToOutput(schedule)
	return nil, getScheduleOutput{Found: true, Schedule: &out}, nil
}

func (s *Server) handleSuggestTasks(_ context.Context, _ *gomcp.CallToolRequest, input suggestTasksInput) (*gomcp.CallToolResult, suggestTasksOutput, error) {
	empty := suggestTasksOutput{Suggestions: []models.Task{}}
	if s.planner == nil {
		return errorResult("planner not available"), empty, nil
	}
	date, err := parseDate(input.Date)
	if err != nil {
		return errorResult(err.Error()), empty, nil
	}

	schedule, err := s.planner.Today(date)
	if err != nil {
		return errorResult(fmt.Sprintf("getting schedule: %s", err)), empty, nil
	}
	if schedule == nil {
		return errorResult("no saved schedule for that day; call generate_schedule with save=true first"), empty, nil
	}

	suggestions, err := s.planner.Suggest(schedule)
	if err != nil {
		return errorResult(fmt.Sprintf("suggesting tasks: %s", err)), empty, nil
	}
	if suggestions == nil {
		suggestions = []models.Task{}
	}

	return nil, suggestTasksOutput{Suggestions: suggestions, Count: len(suggestions)}, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (event log may be disabled)"), emptyMetrics(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := parseSince(sinceStr)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyMetrics(), nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyMetrics(), nil
	}

	out := metricsOutput{
		PlanRuns:         metrics.PlanRuns,
		TasksScheduled:   metrics.TasksScheduled,
		HoursScheduled:   metrics.HoursScheduled,
		HoursAvailable:   metrics.HoursAvailable,
		HoursUnused:      metrics.HoursUnused,
		EmptyRuns:        metrics.EmptyRuns,
		ScheduledByLevel: metrics.ScheduledByLevel,
		AverageFillRatio: metrics.AverageFillRatio,
		TasksAdded:       metrics.TasksAdded,
		TasksRemoved:     metrics.TasksRemoved,
		EventCount:       metrics.EventCount,
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}

	return nil, out, nil
}

func (s *Server) handleGetAlerts(_ context.Context, _ *gomcp.CallToolRequest, _ getAlertsInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.alertEngine == nil {
		return errorResult("alert engine not available (event log may be disabled)"), getAlertsOutput{Alerts: []alertOutput{}}, nil
	}

	alerts, err := s.alertEngine.Evaluate()
	if err != nil {
		return errorResult(fmt.Sprintf("evaluating alerts: %s", err)), getAlertsOutput{Alerts: []alertOutput{}}, nil
	}

	out := getAlertsOutput{
		Alerts: make([]alertOutput, len(alerts)),
		Count:  len(alerts),
	}
	for i, a := range alerts {
		out.Alerts[i] = alertOutput{
			ID:          a.ID,
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			Message:     a.Message,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		}
	}

	return nil, out, nil
}

// --- Helpers ---

func scheduleToOutput(schedule *models.DailySchedule) scheduleOutput {
	entries := schedule.Entries
	if entries == nil {
		entries = []models.ScheduleEntry{}
	}
	out := scheduleOutput{
		Date:           schedule.Date,
		RunID:          schedule.RunID,
		AvailableHours: schedule.AvailableHours,
		UsedHours:      schedule.UsedHours(),
		FocusTag:       schedule.FocusTag,
		Entries:        entries,
	}
	if len(entries) == 0 {
		out.Message = "Not enough time to fit any task!"
		return out
	}
	out.Text = core.FormatScheduleText(entries)
	out.Message = core.Summarize(entries, nil, schedule.AvailableHours).UnusedMessage()
	return out
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	date, err := time.ParseInLocation(core.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return date, nil
}

func emptyMetrics() metricsOutput {
	return metricsOutput{ScheduledByLevel: make(map[string]int)}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseSince parses a human-friendly duration string like "7d", "30d", or "24h"
// into the corresponding time in the past.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()

	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
