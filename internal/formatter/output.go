package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sqve/gitscope/internal/config"
)

// Format selects how a command prints its result.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts any of config.ValidOutputFormats, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(config.ValidOutputFormats(), f) {
		return "", fmt.Errorf("unknown output format %q (want one of %v)", s, config.ValidOutputFormats())
	}
	return Format(f), nil
}

// Write prints v in the requested format. Text output is produced by text;
// JSON and YAML encode v directly.
func Write(w io.Writer, format Format, v any, text func() string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, text())
		return err
	}
}
