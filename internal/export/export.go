package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/stamp/internal/core"
	"github.com/indaco/stamp/internal/engine"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/sjson"
)

// Keys are the output names, in rendering order.
var Keys = []string{"VersionFull", "Version", "VersionShort", "Suffix", "Major", "Minor", "Build", "Revision"}

// outputs mirrors Keys for the struct-based encoders.
type outputs struct {
	VersionFull  string `toml:"VersionFull"`
	Version      string `toml:"Version"`
	VersionShort string `toml:"VersionShort"`
	Suffix       string `toml:"Suffix"`
	Major        int    `toml:"Major"`
	Minor        int    `toml:"Minor"`
	Build        int    `toml:"Build"`
	Revision     int    `toml:"Revision"`
}

type field struct {
	key   string
	value any
}

func fields(r engine.RunResult) []field {
	return []field{
		{"VersionFull", r.VersionFull},
		{"Version", r.Version},
		{"VersionShort", r.VersionShort},
		{"Suffix", r.Suffix},
		{"Major", r.Major},
		{"Minor", r.Minor},
		{"Build", r.Build},
		{"Revision", r.Revision},
	}
}

// Render encodes r in the given format.
func Render(f Format, r engine.RunResult) ([]byte, error) {
	switch f {
	case FormatText:
		return renderText(r), nil
	case FormatJSON:
		return renderJSON(r)
	case FormatYAML:
		return renderYAML(r)
	case FormatTOML:
		return renderTOML(r)
	case FormatEnv:
		return renderEnv(r), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", f)
	}
}

func renderText(r engine.RunResult) []byte {
	var b strings.Builder
	for _, fd := range fields(r) {
		fmt.Fprintf(&b, "%-13s %v\n", fd.key+":", fd.value)
	}
	return []byte(b.String())
}

// renderJSON builds the object with sjson so keys keep their order.
func renderJSON(r engine.RunResult) ([]byte, error) {
	data := []byte("{}")
	for _, fd := range fields(r) {
		var err error
		data, err = sjson.SetBytes(data, fd.key, fd.value)
		if err != nil {
			return nil, fmt.Errorf("failed to set %q: %w", fd.key, err)
		}
	}
	return append(data, '\n'), nil
}

func renderYAML(r engine.RunResult) ([]byte, error) {
	var ms yaml.MapSlice
	for _, fd := range fields(r) {
		ms = append(ms, yaml.MapItem{Key: fd.key, Value: fd.value})
	}
	data, err := yaml.Marshal(ms)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return data, nil
}

func renderTOML(r engine.RunResult) ([]byte, error) {
	data, err := toml.Marshal(outputs{
		VersionFull:  r.VersionFull,
		Version:      r.Version,
		VersionShort: r.VersionShort,
		Suffix:       r.Suffix,
		Major:        r.Major,
		Minor:        r.Minor,
		Build:        r.Build,
		Revision:     r.Revision,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TOML: %w", err)
	}
	return data, nil
}

func renderEnv(r engine.RunResult) []byte {
	var b strings.Builder
	for _, fd := range fields(r) {
		fmt.Fprintf(&b, "%s=%v\n", fd.key, fd.value)
	}
	return []byte(b.String())
}

// Writer writes run outputs to files.
type Writer struct {
	fs core.FileSystem
}

// NewWriter creates a new Writer with the given filesystem.
func NewWriter(fs core.FileSystem) *Writer {
	return &Writer{fs: fs}
}

// WriteFile writes r to path in the format matching its extension. KEY=VALUE
// files are appended to; every other format replaces the file.
func (w *Writer) WriteFile(ctx context.Context, path string, r engine.RunResult) error {
	if path == "" {
		return fmt.Errorf("file path is required")
	}

	format := FormatForFile(path)
	data, err := Render(format, r)
	if err != nil {
		return fmt.Errorf("failed to render %q: %w", path, err)
	}

	if format == FormatEnv {
		existing, err := w.fs.ReadFile(ctx, path)
		switch {
		case err == nil:
			if len(existing) > 0 && existing[len(existing)-1] != '\n' {
				existing = append(existing, '\n')
			}
			data = append(existing, data...)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("failed to read file %q: %w", path, err)
		}
	}

	if err := w.fs.WriteFile(ctx, path, data, core.PermDefaultFile); err != nil {
		return fmt.Errorf("failed to write file %q: %w", path, err)
	}
	return nil
}
