// Package core contains the planning logic for the time optimizer: the
// energy block catalog, task scoring, the greedy slot filler, schedule views,
// configuration, and the planner service that ties them to storage.
package core

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

// ConfigFileName is the base name Viper looks for (.topt.yaml).
const ConfigFileName = ".topt"

// ConfigurationManager loads and validates the .topt.yaml configuration.
type ConfigurationManager interface {
	LoadConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// basePath is the directory where .topt.yaml resides.
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// configuration relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns a GlobalConfig populated with sensible defaults.
func DefaultConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		DefaultAvailableHours: 6,
		DefaultFocusTag:       "",
		Log: models.LogConfig{
			Level:  "info",
			Format: "console",
		},
		Events: models.EventsConfig{
			Enabled: true,
			File:    ".topt_events.jsonl",
		},
	}
}

// LoadConfig reads .topt.yaml from the base path. Environment variables
// prefixed with TOPT_ override file values (TOPT_DEFAULTS_AVAILABLE_HOURS).
// A missing file yields the defaults.
func (cm *viperConfigManager) LoadConfig() (*models.GlobalConfig, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)
	v.SetEnvPrefix("TOPT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("defaults.available_hours", cfg.DefaultAvailableHours)
	v.SetDefault("defaults.focus_tag", cfg.DefaultFocusTag)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("events.enabled", cfg.Events.Enabled)
	v.SetDefault("events.file", cfg.Events.File)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading %s.yaml: %w", ConfigFileName, err)
		}
	}

	cfg.DefaultAvailableHours = v.GetInt("defaults.available_hours")
	cfg.DefaultFocusTag = v.GetString("defaults.focus_tag")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	cfg.Events.Enabled = v.GetBool("events.enabled")
	cfg.Events.File = v.GetString("events.file")

	return cfg, nil
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true,
}

// ValidateConfig checks cfg for invalid values and lists every problem.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if cfg.DefaultAvailableHours < 0 || cfg.DefaultAvailableHours > MaxTaskDuration {
		errs = append(errs, fmt.Sprintf(
			"defaults.available_hours %d is invalid, must be between 0 and %d",
			cfg.DefaultAvailableHours, MaxTaskDuration,
		))
	}

	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level %q is invalid", cfg.Log.Level))
	}

	if cfg.Log.Format != "console" && cfg.Log.Format != "json" {
		errs = append(errs, fmt.Sprintf("log.format %q is invalid, must be console or json", cfg.Log.Format))
	}

	if cfg.Events.Enabled && cfg.Events.File == "" {
		errs = append(errs, "events.file must not be empty when events are enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
