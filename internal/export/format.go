package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format represents a supported output format.
type Format string

const (
	// FormatText is an aligned "Key: value" listing.
	FormatText Format = "text"

	// FormatJSON is a single JSON object.
	FormatJSON Format = "json"

	// FormatYAML is a YAML mapping.
	FormatYAML Format = "yaml"

	// FormatTOML is a TOML table.
	FormatTOML Format = "toml"

	// FormatEnv is KEY=VALUE lines, as consumed by GITHUB_OUTPUT and dotenv.
	FormatEnv Format = "env"
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known valid format.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML, FormatTOML, FormatEnv:
		return true
	default:
		return false
	}
}

// ParseFormat converts a flag value to a Format. The empty string means text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	f := Format(strings.ToLower(s))
	if !f.IsValid() {
		return "", fmt.Errorf("invalid format %q: must be one of text, json, yaml, toml, env", s)
	}
	return f, nil
}

// FormatForFile picks a format from the file extension. Unknown extensions,
// and files without one such as GITHUB_OUTPUT, use KEY=VALUE lines.
func FormatForFile(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".txt":
		return FormatText
	default:
		return FormatEnv
	}
}
