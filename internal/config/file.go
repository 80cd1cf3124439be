package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/sqve/gitscope/internal/fs"
	"github.com/sqve/gitscope/internal/gitconfig"
)

const FileName = ".gitscope.toml"

//go:embed gitscope.template.toml
var initTemplate string

// FileConfig is the project file kept next to a repository.
type FileConfig struct {
	Output struct {
		Format string `toml:"format,omitempty"`
		Plain  *bool  `toml:"plain,omitempty"`
	} `toml:"output"`
	Git struct {
		ObjectFormat string   `toml:"object_format,omitempty"`
		Overrides    []string `toml:"overrides,omitempty"`
	} `toml:"git"`
}

// LoadFromFile returns empty config if file missing, error if file invalid.
func LoadFromFile(dir string) (FileConfig, error) {
	var cfg FileConfig
	path := filepath.Join(dir, FileName)

	data, err := os.ReadFile(path) //nolint:gosec // Project file next to the inspected repository
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

func FileConfigExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil
}

// Merge layers the project file's output settings over the user config file.
// Environment variables and bound flags still take precedence.
func (c FileConfig) Merge() error {
	settings := map[string]interface{}{}
	output := map[string]interface{}{}
	if c.Output.Format != "" {
		output["format"] = c.Output.Format
	}
	if c.Output.Plain != nil {
		output["plain"] = *c.Output.Plain
	}
	if len(output) > 0 {
		settings["output"] = output
	}
	if len(settings) == 0 {
		return nil
	}
	return viper.MergeConfigMap(settings)
}

// ConfigOverrides parses git.overrides into config entries.
func (c FileConfig) ConfigOverrides() ([]gitconfig.Entry, error) {
	return ParseOverrides("git.overrides", c.Git.Overrides)
}

// ParseOverrides parses items of the form "name=value", as given to
// `git -c`. A bare name is an implicit true. field names the setting the
// items came from in validation errors.
func ParseOverrides(field string, items []string) ([]gitconfig.Entry, error) {
	if len(items) == 0 {
		return nil, nil
	}

	var errs ValidationErrors
	entries := make([]gitconfig.Entry, 0, len(items))
	for _, item := range items {
		name, value, _ := strings.Cut(item, "=")
		section, subsection, key, err := gitconfig.SplitKey(strings.TrimSpace(name))
		if err != nil {
			errs = append(errs, ValidationError{Field: field, Value: item, Message: err.Error()})
			continue
		}
		entries = append(entries, gitconfig.Entry{
			Section:    section,
			Subsection: subsection,
			Key:        key,
			Value:      value,
		})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return entries, nil
}

// ObjectHash parses git.object_format. Unset returns zero.
func (c FileConfig) ObjectHash() (gitconfig.ObjectHash, error) {
	if c.Git.ObjectFormat == "" {
		return 0, nil
	}
	h, err := gitconfig.ParseObjectHash(c.Git.ObjectFormat)
	if err != nil {
		return 0, ValidationError{Field: "git.object_format", Value: c.Git.ObjectFormat, Message: err.Error()}
	}
	return h, nil
}

// WriteTemplateToFile writes the commented default project file. An existing
// file is left alone unless force is set.
func WriteTemplateToFile(dir string, force bool) error {
	path := filepath.Join(dir, FileName)
	if !force && FileConfigExists(dir) {
		return fmt.Errorf("%s already exists", path)
	}
	return fs.WriteFileAtomic(path, []byte(initTemplate), fs.FileGit)
}
