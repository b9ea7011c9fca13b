package core

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"
)

func TestProperty_ConfigFileValuesAreLoaded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		hours := rapid.IntRange(0, MaxTaskDuration).Draw(t, "hours")
		focus := rapid.StringMatching(`[a-z]{0,12}`).Draw(t, "focus")
		level := rapid.SampledFrom([]string{"trace", "debug", "info", "warn", "error"}).Draw(t, "level")
		format := rapid.SampledFrom([]string{"console", "json"}).Draw(t, "format")

		dir, err := os.MkdirTemp("", "topt-config-*")
		if err != nil {
			t.Fatalf("creating temp dir: %v", err)
		}
		defer os.RemoveAll(dir)

		content := fmt.Sprintf("defaults:\n  available_hours: %d\n  focus_tag: %q\nlog:\n  level: %s\n  format: %s\n",
			hours, focus, level, format)
		if err := os.WriteFile(filepath.Join(dir, ".topt.yaml"), []byte(content), 0o644); err != nil {
			t.Fatalf("writing config: %v", err)
		}

		cm := NewConfigurationManager(dir)
		cfg, err := cm.LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() error: %v", err)
		}
		if cfg.DefaultAvailableHours != hours || cfg.DefaultFocusTag != focus {
			t.Fatalf("loaded hours %d focus %q, want %d %q", cfg.DefaultAvailableHours, cfg.DefaultFocusTag, hours, focus)
		}
		if cfg.Log.Level != level || cfg.Log.Format != format {
			t.Fatalf("loaded log %+v, want %s/%s", cfg.Log, level, format)
		}
		if err := cm.ValidateConfig(cfg); err != nil {
			t.Fatalf("loaded config failed validation: %v", err)
		}
	})
}
