package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "text"
	DefaultOutputFormat  = "text"
	DefaultWatchDebounce = 150 * time.Millisecond
)

func SetDefaults() {
	viper.SetDefault("logging.level", DefaultLogLevel)
	viper.SetDefault("logging.format", DefaultLogFormat)

	viper.SetDefault("output.plain", false)
	viper.SetDefault("output.format", DefaultOutputFormat)

	viper.SetDefault("watch.debounce", DefaultWatchDebounce)
}

// DefaultConfig returns the built-in settings without consulting the
// environment or any config file.
func DefaultConfig() *Config {
	var cfg Config
	cfg.Logging.Level = DefaultLogLevel
	cfg.Logging.Format = DefaultLogFormat
	cfg.Output.Format = DefaultOutputFormat
	cfg.Watch.Debounce = DefaultWatchDebounce
	return &cfg
}

func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

func ValidLogFormats() []string {
	return []string{"text", "json"}
}

func ValidOutputFormats() []string {
	return []string{"text", "json", "yaml"}
}
