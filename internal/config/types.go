package config

import (
	"fmt"
	"strings"

	"github.com/indaco/stamp/internal/pattern"
)

// DropRevision controls whether the revision component is written into update targets.
type DropRevision string

const (
	// DropRevisionUnset means "inherit the task-level default".
	DropRevisionUnset DropRevision = ""

	// DropRevisionKeep decides per match: tokens written with 1-2 dots get
	// major.minor.build, tokens written with 3 dots keep the revision.
	DropRevisionKeep DropRevision = "keep"

	// DropRevisionNever always writes the revision.
	DropRevisionNever DropRevision = "never"

	// DropRevisionAlways never writes the revision.
	DropRevisionAlways DropRevision = "always"
)

// String returns the string representation of the policy.
func (d DropRevision) String() string {
	if d == DropRevisionUnset {
		return "unset"
	}
	return string(d)
}

// IsValid reports whether d is a known policy or unset.
func (d DropRevision) IsValid() bool {
	switch d {
	case DropRevisionUnset, DropRevisionKeep, DropRevisionNever, DropRevisionAlways:
		return true
	default:
		return false
	}
}

// ParseDropRevision parses a policy name case-insensitively.
// "default" is accepted as an alias of "keep"; "" yields DropRevisionUnset.
func ParseDropRevision(s string) (DropRevision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DropRevisionUnset, nil
	case "keep", "default":
		return DropRevisionKeep, nil
	case "never":
		return DropRevisionNever, nil
	case "always":
		return DropRevisionAlways, nil
	default:
		return DropRevisionUnset, fmt.Errorf("invalid drop-revision %q (want keep, never or always)", s)
	}
}

// UnmarshalText normalizes the policy when decoding YAML or TOML.
func (d *DropRevision) UnmarshalText(text []byte) error {
	parsed, err := ParseDropRevision(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d DropRevision) MarshalText() ([]byte, error) {
	return []byte(d), nil
}

// InputSource is a file scanned for version tokens.
type InputSource struct {
	Path  string `yaml:"path" toml:"path"`
	Regex string `yaml:"regex,omitempty" toml:"regex,omitempty"`

	// MaxMatch and Max cap the number of matched lines; MaxMatch wins when both are set.
	MaxMatch *int `yaml:"max-match,omitempty" toml:"max-match,omitempty"`
	Max      *int `yaml:"max,omitempty" toml:"max,omitempty"`
}

// MatchLimit returns the per-file match budget override, if any.
func (s InputSource) MatchLimit() (int, bool) {
	return matchLimit(s.MaxMatch, s.Max)
}

// UpdateTarget is a file the derived version is written into.
type UpdateTarget struct {
	Path         string       `yaml:"path" toml:"path"`
	Regex        string       `yaml:"regex,omitempty" toml:"regex,omitempty"`
	Replacement  string       `yaml:"replacement,omitempty" toml:"replacement,omitempty"`
	DropRevision DropRevision `yaml:"drop-revision,omitempty" toml:"drop-revision,omitempty"`
	Touch        *bool        `yaml:"touch,omitempty" toml:"touch,omitempty"`
	MaxMatch     *int         `yaml:"max-match,omitempty" toml:"max-match,omitempty"`
	Max          *int         `yaml:"max,omitempty" toml:"max,omitempty"`
}

// MatchLimit returns the per-file match budget override, if any.
func (t UpdateTarget) MatchLimit() (int, bool) {
	return matchLimit(t.MaxMatch, t.Max)
}

func matchLimit(maxMatch, maxAlias *int) (int, bool) {
	if maxMatch != nil {
		return *maxMatch, true
	}
	if maxAlias != nil {
		return *maxAlias, true
	}
	return 0, false
}

// Defaults holds the task-level fallbacks applied to every input and target.
type Defaults struct {
	RegexInput   string       `yaml:"regex-input,omitempty" toml:"regex-input,omitempty"`
	RegexOutput  string       `yaml:"regex-output,omitempty" toml:"regex-output,omitempty"`
	RegexReplace string       `yaml:"regex-replace,omitempty" toml:"regex-replace,omitempty"`
	MaxMatch     int          `yaml:"max-match,omitempty" toml:"max-match,omitempty"`
	DropRevision DropRevision `yaml:"drop-revision,omitempty" toml:"drop-revision,omitempty"`
	TouchFiles   bool         `yaml:"touch-files,omitempty" toml:"touch-files,omitempty"`
	AutoIncrease bool         `yaml:"auto-increase,omitempty" toml:"auto-increase,omitempty"`
	Silent       bool         `yaml:"silent,omitempty" toml:"silent,omitempty"`
}

// DefaultReplacement is the replacement template used when none is configured.
const DefaultReplacement = "{version}{suffix}"

// NewDefaults returns the built-in task defaults.
func NewDefaults() Defaults {
	return Defaults{
		RegexInput:   pattern.Default,
		RegexOutput:  pattern.Default,
		RegexReplace: DefaultReplacement,
		MaxMatch:     1,
		DropRevision: DropRevisionKeep,
	}
}

// WithFallbacks fills empty fields of d from NewDefaults.
func (d Defaults) WithFallbacks() Defaults {
	base := NewDefaults()
	if d.RegexInput == "" {
		d.RegexInput = base.RegexInput
	}
	if d.RegexOutput == "" {
		d.RegexOutput = base.RegexOutput
	}
	if d.RegexReplace == "" {
		d.RegexReplace = base.RegexReplace
	}
	if d.MaxMatch == 0 {
		d.MaxMatch = base.MaxMatch
	}
	if d.DropRevision == DropRevisionUnset {
		d.DropRevision = base.DropRevision
	}
	return d
}
