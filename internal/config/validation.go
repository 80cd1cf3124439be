package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// MaxWatchDebounce bounds watch.debounce.
const MaxWatchDebounce = time.Minute

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("configuration validation failed:\n%s", strings.Join(messages, "\n"))
}

// Validate validates the current configuration
func Validate() error {
	cfg, err := Get()
	if err != nil {
		return fmt.Errorf("failed to get config for validation: %w", err)
	}

	return ValidateConfig(cfg)
}

// ValidateConfig returns ValidationErrors listing every invalid field, or nil.
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if !slices.Contains(ValidLogLevels(), cfg.Logging.Level) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   cfg.Logging.Level,
			Message: fmt.Sprintf("must be one of: %v", ValidLogLevels()),
		})
	}

	if !slices.Contains(ValidLogFormats(), cfg.Logging.Format) {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Value:   cfg.Logging.Format,
			Message: fmt.Sprintf("must be one of: %v", ValidLogFormats()),
		})
	}

	if !slices.Contains(ValidOutputFormats(), cfg.Output.Format) {
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Value:   cfg.Output.Format,
			Message: fmt.Sprintf("must be one of: %v", ValidOutputFormats()),
		})
	}

	if cfg.Watch.Debounce <= 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Value:   cfg.Watch.Debounce,
			Message: "debounce must be positive",
		})
	} else if cfg.Watch.Debounce > MaxWatchDebounce {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Value:   cfg.Watch.Debounce,
			Message: fmt.Sprintf("debounce should not exceed %s", MaxWatchDebounce),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// GetValidKeys returns all valid configuration keys
func GetValidKeys() []string {
	return []string{
		"logging.level",
		"logging.format",
		"output.plain",
		"output.format",
		"watch.debounce",
	}
}

// IsValidKey checks if a configuration key is valid
func IsValidKey(key string) bool {
	return slices.Contains(GetValidKeys(), key)
}
