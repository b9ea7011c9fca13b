package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// --- Helper ---

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// --- LoadConfig tests ---

func TestLoadConfig_Defaults_WhenNoFile(t *testing.T) {
	dir := t.TempDir()
	cm := NewConfigurationManager(dir)

	cfg, err := cm.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DefaultAvailableHours != 6 {
		t.Errorf("DefaultAvailableHours = %d, want 6", cfg.DefaultAvailableHours)
	}
	if cfg.DefaultFocusTag != "" {
		t.Errorf("DefaultFocusTag = %q, want empty", cfg.DefaultFocusTag)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("Log = %+v, want info/console", cfg.Log)
	}
	if !cfg.Events.Enabled || cfg.Events.File != ".topt_events.jsonl" {
		t.Errorf("Events = %+v", cfg.Events)
	}
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".topt.yaml", `
defaults:
  available_hours: 9
  focus_tag: deep
log:
  level: debug
  format: json
events:
  enabled: false
  file: custom.jsonl
`)

	cfg, err := NewConfigurationManager(dir).LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DefaultAvailableHours != 9 {
		t.Errorf("DefaultAvailableHours = %d, want 9", cfg.DefaultAvailableHours)
	}
	if cfg.DefaultFocusTag != "deep" {
		t.Errorf("DefaultFocusTag = %q, want deep", cfg.DefaultFocusTag)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want debug/json", cfg.Log)
	}
	if cfg.Events.Enabled || cfg.Events.File != "custom.jsonl" {
		t.Errorf("Events = %+v", cfg.Events)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".topt.yaml", "defaults:\n  focus_tag: study\n")

	cfg, err := NewConfigurationManager(dir).LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultAvailableHours != 6 || cfg.DefaultFocusTag != "study" {
		t.Errorf("got hours %d focus %q", cfg.DefaultAvailableHours, cfg.DefaultFocusTag)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".topt.yaml", "defaults:\n  available_hours: 4\n")
	t.Setenv("TOPT_DEFAULTS_AVAILABLE_HOURS", "8")

	cfg, err := NewConfigurationManager(dir).LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultAvailableHours != 8 {
		t.Errorf("DefaultAvailableHours = %d, want 8", cfg.DefaultAvailableHours)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".topt.yaml", "defaults: [unclosed\n")

	if _, err := NewConfigurationManager(dir).LoadConfig(); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

// --- ValidateConfig tests ---

func TestValidateConfig(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())

	if err := cm.ValidateConfig(DefaultConfig()); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if err := cm.ValidateConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}

	cfg := DefaultConfig()
	cfg.DefaultAvailableHours = 15
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"
	cfg.Events.File = ""

	err := cm.ValidateConfig(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"defaults.available_hours", "log.level", "log.format", "events.file"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error does not mention %s: %v", want, err)
		}
	}
}

func TestValidateConfig_DisabledEventsAllowEmptyFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Events.Enabled = false
	cfg.Events.File = ""

	if err := NewConfigurationManager(t.TempDir()).ValidateConfig(cfg); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
