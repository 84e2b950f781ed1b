// Package config loads, validates and saves the stamp task configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/stamp/internal/core"
	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigFile is the file written by "stamp init".
const DefaultConfigFile = ".stamp.yaml"

// configCandidates are probed in order when no explicit config path is given.
var configCandidates = []string{".stamp.yaml", ".stamp.yml", ".stamp.toml"}

// Config is the main configuration structure for stamp.
type Config struct {
	// InputFile is a single legacy input, scanned before InputFiles.
	InputFile   string         `yaml:"input-file,omitempty" toml:"input-file,omitempty"`
	InputFiles  []InputSource  `yaml:"input-files,omitempty" toml:"input-files,omitempty"`
	UpdateFiles []UpdateTarget `yaml:"update-files,omitempty" toml:"update-files,omitempty"`

	// ProjectFile is offered to input autofill when no inputs are configured.
	ProjectFile string `yaml:"project-file,omitempty" toml:"project-file,omitempty"`

	Defaults `yaml:",inline"`
}

// New returns a Config populated with the built-in defaults.
func New() *Config {
	return &Config{Defaults: NewDefaults()}
}

// Sources returns the ordered input list with the legacy InputFile first.
func (c *Config) Sources() []InputSource {
	sources := make([]InputSource, 0, len(c.InputFiles)+1)
	if c.InputFile != "" {
		sources = append(sources, InputSource{Path: c.InputFile})
	}
	return append(sources, c.InputFiles...)
}

// FileOpener abstracts file opening operations for testability.
type FileOpener interface {
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
}

// FileWriter abstracts file writing operations for testability.
type FileWriter interface {
	WriteFile(file *os.File, data []byte) (int, error)
}

// ConfigSaver handles configuration saving with injected dependencies.
type ConfigSaver struct {
	marshaler  core.Marshaler
	fileOpener FileOpener
	fileWriter FileWriter
}

type osFileOpener struct{}

func (o *osFileOpener) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, flag, perm)
}

type osFileWriter struct{}

func (w *osFileWriter) WriteFile(file *os.File, data []byte) (int, error) {
	return file.Write(data)
}

type yamlMarshaler struct{}

func (m *yamlMarshaler) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// NewConfigSaver creates a ConfigSaver with the given dependencies.
// If any dependency is nil, the production default is used.
func NewConfigSaver(marshaler core.Marshaler, opener FileOpener, writer FileWriter) *ConfigSaver {
	if marshaler == nil {
		marshaler = &yamlMarshaler{}
	}
	if opener == nil {
		opener = &osFileOpener{}
	}
	if writer == nil {
		writer = &osFileWriter{}
	}
	return &ConfigSaver{
		marshaler:  marshaler,
		fileOpener: opener,
		fileWriter: writer,
	}
}

// SaveTo saves the configuration to the specified file path.
func (s *ConfigSaver) SaveTo(cfg *Config, configFile string) error {
	data, err := s.marshaler.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to %q: %w", configFile, err)
	}

	file, err := s.fileOpener.OpenFile(configFile, os.O_RDWR|os.O_CREATE|os.O_TRUNC, ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to open config file %q: %w", configFile, err)
	}
	defer file.Close()

	if _, err := s.fileWriter.WriteFile(file, data); err != nil {
		return fmt.Errorf("failed to write config to %q: %w", configFile, err)
	}

	return nil
}

// LoadConfigFn is a function variable so commands can be tested without
// touching the working directory.
var LoadConfigFn = loadConfig

// loadConfig resolves the config file and decodes it over the built-in defaults.
// Resolution order: explicit path, STAMP_CONFIG, then configCandidates in the
// working directory. No file at all yields New().
func loadConfig(path string) (*Config, error) {
	if path == "" {
		envPath, err := configFromEnv()
		if err != nil {
			return nil, err
		}
		path = envPath
	}

	if path == "" {
		for _, candidate := range configCandidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path == "" {
		return New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	return Decode(data, path)
}

func configFromEnv() (string, error) {
	envPath := os.Getenv("STAMP_CONFIG")
	if envPath == "" {
		return "", nil
	}
	cleanPath := filepath.Clean(envPath)
	if strings.Contains(cleanPath, "..") {
		return "", errors.New("invalid STAMP_CONFIG: path traversal not allowed, use absolute path instead")
	}
	return cleanPath, nil
}

// Decode parses config data in the format implied by name's extension
// (.toml for TOML, anything else YAML). Unknown keys are rejected.
func Decode(data []byte, name string) (*Config, error) {
	cfg := New()

	if strings.EqualFold(filepath.Ext(name), ".toml") {
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config %q: %w", name, err)
		}
	} else if len(bytes.TrimSpace(data)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config %q: %w", name, err)
		}
	}

	cfg.Defaults = cfg.Defaults.WithFallbacks()
	return cfg, nil
}

// ConfigFilePerm defines secure file permissions for config files (owner read/write only).
const ConfigFilePerm = core.PermOwnerRW
