package observability

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestEventLog(t *testing.T) EventLog {
	t.Helper()
	log, err := NewJSONLEventLog(filepath.Join(t.TempDir(), "events.jsonl"))
	if err != nil {
		t.Fatalf("creating event log: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func TestEventLog_WriteAndRead(t *testing.T) {
	log := newTestEventLog(t)

	now := time.Now().UTC().Truncate(time.Millisecond)
	events := []Event{
		{
			Time:    now,
			Level:   LevelInfo,
			Type:    EventTaskAdded,
			Message: "task added",
			Data:    map[string]any{"task": "Report"},
		},
		{
			Time:    now.Add(time.Second),
			Level:   LevelWarn,
			Type:    EventScheduleGenerated,
			Message: "schedule generated",
			Data:    map[string]any{"tasks_scheduled": 0, "available_hours": 4},
		},
	}
	for _, e := range events {
		if err := log.Write(e); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}

	result, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 events, got %d", len(result))
	}
	if result[0].Type != EventTaskAdded || result[0].Message != "task added" {
		t.Errorf("unexpected first event %+v", result[0])
	}
	if !result[0].Time.Equal(now) {
		t.Errorf("time = %v, want %v", result[0].Time, now)
	}
	if result[1].Level != LevelWarn {
		t.Errorf("expected level WARN, got %s", result[1].Level)
	}
	if intField(result[1].Data, "available_hours") != 4 {
		t.Errorf("numeric data not preserved: %v", result[1].Data)
	}
}

func TestEventLog_WriteFillsDefaults(t *testing.T) {
	log := newTestEventLog(t)
	before := time.Now().UTC().Add(-time.Second)

	if err := log.Write(Event{Type: EventTasksCleared}); err != nil {
		t.Fatalf("writing event: %v", err)
	}

	result, _ := log.Read(EventFilter{})
	if len(result) != 1 {
		t.Fatalf("expected 1 event, got %d", len(result))
	}
	if result[0].Level != LevelInfo {
		t.Errorf("Level = %q, want INFO", result[0].Level)
	}
	if result[0].Time.Before(before) {
		t.Errorf("Time not stamped: %v", result[0].Time)
	}
}

func TestEventLog_Filters(t *testing.T) {
	log := newTestEventLog(t)
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	for i, e := range []Event{
		{Type: EventTaskAdded, Level: LevelInfo},
		{Type: EventTaskRemoved, Level: LevelInfo},
		{Type: EventScheduleGenerated, Level: LevelWarn},
		{Type: EventTasksCleared, Level: LevelInfo},
	} {
		e.Time = base.Add(time.Duration(i) * time.Hour)
		if err := log.Write(e); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}

	since := base.Add(time.Hour)
	until := base.Add(2 * time.Hour)

	tests := []struct {
		name   string
		filter EventFilter
		want   int
	}{
		{"all", EventFilter{}, 4},
		{"type", EventFilter{Type: EventScheduleGenerated}, 1},
		{"prefix", EventFilter{TypePrefix: "task."}, 2},
		{"types", EventFilter{Types: []string{EventTaskRemoved, EventTasksCleared}}, 2},
		{"type or types", EventFilter{Type: EventTaskAdded, Types: []string{EventTasksCleared}}, 2},
		{"limit keeps newest", EventFilter{TypePrefix: "task", Limit: 2}, 2},
		{"level", EventFilter{Level: LevelWarn}, 1},
		{"since", EventFilter{Since: &since}, 3},
		{"range", EventFilter{Since: &since, Until: &until}, 2},
		{"since and type", EventFilter{Since: &since, Type: EventTaskAdded}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := log.Read(tt.filter)
			if err != nil {
				t.Fatalf("reading events: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}
}

func TestEventLog_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	content := `{"time":"2025-03-10T08:00:00Z","level":"INFO","type":"task.added","msg":"ok"}
not json

{"time":"2025-03-10T09:00:00Z","level":"INFO","type":"task.removed","msg":"ok"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("opening event log: %v", err)
	}
	defer log.Close()

	result, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("expected 2 valid events, got %d", len(result))
	}
}

func TestEventLog_EmptyLog(t *testing.T) {
	log := newTestEventLog(t)

	result, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading empty log: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("expected 0 events, got %d", len(result))
	}
}

func TestEventLog_ConcurrentWrites(t *testing.T) {
	log := newTestEventLog(t)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = log.Write(Event{Type: EventTaskAdded, Data: map[string]any{"i": i}})
		}(i)
	}
	wg.Wait()

	result, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(result) != n {
		t.Errorf("expected %d events, got %d", n, len(result))
	}
}

func TestEventLog_LimitReturnsNewestInOrder(t *testing.T) {
	log := newTestEventLog(t)
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	for i, run := range []string{"r1", "r2", "r3"} {
		e := NewEvent(EventScheduleGenerated, map[string]any{"run_id": run})
		e.Time = base.Add(time.Duration(i) * time.Minute)
		if err := log.Write(e); err != nil {
			t.Fatal(err)
		}
	}

	got, err := log.Read(EventFilter{Type: EventScheduleGenerated, Limit: 2})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(got) != 2 || got[0].Data["run_id"] != "r2" || got[1].Data["run_id"] != "r3" {
		t.Errorf("got %+v, want r2 then r3", got)
	}
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventTaskAdded, map[string]any{"name": "Report"})
	if e.Level != LevelInfo || e.Type != EventTaskAdded || e.Message != EventTaskAdded {
		t.Errorf("NewEvent = %+v", e)
	}
	if e.Time.IsZero() || e.Time.Location() != time.UTC {
		t.Errorf("Time = %v, want current UTC time", e.Time)
	}
}

func TestEventLog_TaskNamesAreNotHTMLEscaped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := log.Write(NewEvent(EventTaskAdded, map[string]any{"name": "R&D <draft>"})); err != nil {
		t.Fatal(err)
	}
	_ = log.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"name":"R&D <draft>"`) {
		t.Errorf("line = %s", data)
	}
	if strings.Count(string(data), "\n") != 1 || !strings.HasSuffix(string(data), "}\n") {
		t.Errorf("expected exactly one newline-terminated record: %q", data)
	}
}

func TestEventLog_WriteAfterClose(t *testing.T) {
	log, err := NewJSONLEventLog(filepath.Join(t.TempDir(), "events.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := log.Write(NewEvent(EventTaskAdded, nil)); !errors.Is(err, ErrEventLogClosed) {
		t.Errorf("Write after Close = %v, want ErrEventLogClosed", err)
	}
}

func TestEventLog_MissingFileReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	got, err := log.Read(EventFilter{})
	if err != nil || len(got) != 0 {
		t.Errorf("Read = %v, %v; want empty", got, err)
	}
}
