package observability

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// Event levels.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Event types written by the planner and the CLI.
const (
	EventScheduleGenerated = "schedule.generated"
	EventTaskAdded         = "task.added"
	EventTaskUpdated       = "task.updated"
	EventTaskRemoved       = "task.removed"
	EventTasksCleared      = "tasks.cleared"
)

// maxEventLineBytes bounds a single JSONL record when reading.
const maxEventLineBytes = 1 << 20

// ErrEventLogClosed is returned by Write after Close.
var ErrEventLogClosed = errors.New("event log closed")

// Event is one line of the planner's event log.
type Event struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Type    string         `json:"type"`
	Message string         `json:"msg"`
	Data    map[string]any `json:"data,omitempty"`
}

// NewEvent returns an INFO event of the given type stamped with the current
// UTC time. The type doubles as the message.
func NewEvent(eventType string, data map[string]any) Event {
	return Event{
		Time:    time.Now().UTC(),
		Level:   LevelInfo,
		Type:    eventType,
		Message: eventType,
		Data:    data,
	}
}

// EventFilter selects events on Read. Zero fields match everything.
type EventFilter struct {
	Since *time.Time
	Until *time.Time
	// Type and Types match exactly; an event passes when it matches either.
	Type  string
	Types []string
	// TypePrefix matches every type starting with it, e.g. "task.".
	TypePrefix string
	Level      string
	// Limit keeps only the newest Limit matches.
	Limit int
}

func (f EventFilter) match(event Event) bool {
	if f.Since != nil && event.Time.Before(*f.Since) {
		return false
	}
	if f.Until != nil && event.Time.After(*f.Until) {
		return false
	}
	if f.Type != "" || len(f.Types) > 0 {
		if event.Type != f.Type && !slices.Contains(f.Types, event.Type) {
			return false
		}
	}
	if f.TypePrefix != "" && !strings.HasPrefix(event.Type, f.TypePrefix) {
		return false
	}
	return f.Level == "" || event.Level == f.Level
}

// EventLog defines the interface for writing and reading events.
type EventLog interface {
	Write(event Event) error
	Read(filter EventFilter) ([]Event, error)
	Close() error
}

// jsonlEventLog appends one JSON object per line. The file is opened with
// O_APPEND so a CLI process and a running MCP server can share it.
type jsonlEventLog struct {
	path string

	mu     sync.Mutex
	file   *os.File
	enc    *json.Encoder
	closed bool
}

// NewJSONLEventLog opens (creating if needed) the JSONL log at path.
func NewJSONLEventLog(path string) (EventLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	return &jsonlEventLog{path: path, file: f, enc: enc}, nil
}

// Write appends event. A zero Time is stamped with now and an empty Level
// becomes INFO.
func (l *jsonlEventLog) Write(event Event) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	if event.Level == "" {
		event.Level = LevelInfo
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrEventLogClosed
	}
	// Encode issues a single write per event, newline included.
	if err := l.enc.Encode(event); err != nil {
		return fmt.Errorf("writing %s event: %w", event.Type, err)
	}
	return nil
}

// Read returns the events matching filter, oldest first. Lines that do not
// decode are skipped. A missing file reads as empty.
func (l *jsonlEventLog) Read(filter EventFilter) ([]Event, error) {
	var events []Event
	err := l.scan(func(event Event) {
		if !filter.match(event) {
			return
		}
		events = append(events, event)
		if filter.Limit > 0 && len(events) > filter.Limit {
			events = events[1:]
		}
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (l *jsonlEventLog) scan(fn func(Event)) error {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening event log for reading: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventLineBytes)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if json.Unmarshal(line, &event) != nil {
			continue
		}
		fn(event)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanning event log: %w", err)
	}
	return nil
}

// Close is idempotent.
func (l *jsonlEventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("closing event log: %w", err)
	}
	return nil
}
