package models

// LogConfig controls the zerolog logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // console or json
}

// EventsConfig controls the JSONL event log.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	File    string `yaml:"file" mapstructure:"file"`
}

// GlobalConfig holds settings read from .topt.yaml via Viper.
type GlobalConfig struct {
	DefaultAvailableHours int          `yaml:"available_hours" mapstructure:"available_hours"`
	DefaultFocusTag       string       `yaml:"focus_tag" mapstructure:"focus_tag"`
	Log                   LogConfig    `yaml:"log" mapstructure:"log"`
	Events                EventsConfig `yaml:"events" mapstructure:"events"`
}
