// Package config holds the gitscope application settings.
//
// Settings come from viper: built-in defaults, an optional user config file,
// GITSCOPE_* environment variables and bound command-line flags, in rising
// order of precedence. Repository-specific settings live in the project file
// (see file.go).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// GITSCOPE_LOGGING_LEVEL.
const EnvPrefix = "GITSCOPE"

// Config is the decoded application configuration.
type Config struct {
	Logging struct {
		Level  string `mapstructure:"level" json:"level" yaml:"level"`
		Format string `mapstructure:"format" json:"format" yaml:"format"`
	} `mapstructure:"logging" json:"logging" yaml:"logging"`
	Output struct {
		Plain  bool   `mapstructure:"plain" json:"plain" yaml:"plain"`
		Format string `mapstructure:"format" json:"format" yaml:"format"`
	} `mapstructure:"output" json:"output" yaml:"output"`
	Watch struct {
		Debounce time.Duration `mapstructure:"debounce" json:"debounce" yaml:"debounce"`
	} `mapstructure:"watch" json:"watch" yaml:"watch"`
}

// Initialize resets the global viper instance, installs defaults and reads
// the first user config file found on the search path. A missing file is not
// an error.
func Initialize() error {
	viper.Reset()
	SetDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	for _, path := range GetConfigPaths() {
		viper.AddConfigPath(path)
	}
	if file := ExplicitConfigFile(); file != "" {
		viper.SetConfigFile(file)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Get decodes the current settings.
func Get() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// UsedFile returns the config file viper loaded, or "" when none was found.
func UsedFile() string {
	return viper.ConfigFileUsed()
}

func GetString(key string) string { return viper.GetString(key) }
func GetBool(key string) bool { return viper.GetBool(key) }
func GetDuration(key string) time.Duration { return viper.GetDuration(key) }
func Set(key string, value interface{}) { viper.Set(key, value) }
func IsSet(key string) bool { return viper.IsSet(key) }
func AllSettings() map[string]interface{} { return viper.AllSettings() }

// IsPlain reports whether colors and symbols are disabled.
func IsPlain() bool {
	return viper.GetBool("output.plain")
}
