// Package policy resolves the effective per-file settings of a run: every knob
// comes from the file's own override when present and non-empty, otherwise
// from the task defaults.
package policy

import (
	"regexp"

	"github.com/indaco/stamp/internal/config"
	"github.com/indaco/stamp/internal/dotver"
	"github.com/indaco/stamp/internal/pattern"
)

// Input is the resolved configuration for one input source.
type Input struct {
	Regex    string
	MaxMatch int
}

// Update is the resolved configuration for one update target.
type Update struct {
	Regex        string
	Replacement  string
	DropRevision config.DropRevision
	Touch        bool
	MaxMatch     int
}

// ForInput resolves the effective settings of src.
func ForInput(src config.InputSource, d config.Defaults) Input {
	limit, ok := src.MatchLimit()
	return Input{
		Regex:    coalesce(src.Regex, d.RegexInput),
		MaxMatch: budget(limit, ok, d.MaxMatch),
	}
}

// ForUpdate resolves the effective settings of target.
func ForUpdate(target config.UpdateTarget, d config.Defaults) Update {
	limit, ok := target.MatchLimit()

	drop := target.DropRevision
	if drop == config.DropRevisionUnset {
		drop = d.DropRevision
	}
	if drop == config.DropRevisionUnset {
		drop = config.DropRevisionKeep
	}

	touch := d.TouchFiles
	if target.Touch != nil {
		touch = *target.Touch
	}

	return Update{
		Regex:        coalesce(target.Regex, d.RegexOutput),
		Replacement:  coalesce(target.Replacement, d.RegexReplace),
		DropRevision: drop,
		Touch:        touch,
		MaxMatch:     budget(limit, ok, d.MaxMatch),
	}
}

// Versions carries the derived version strings a replacement can use.
type Versions struct {
	Version      string // major.minor.build.revision
	VersionShort string // major.minor.build
	Suffix       string
}

// VersionFor returns the version string to write over a matched token.
// With keep, a token written with one or two dots gets VersionShort and
// anything else gets Version.
func (u Update) VersionFor(token string, v Versions) string {
	switch u.DropRevision {
	case config.DropRevisionAlways:
		return v.VersionShort
	case config.DropRevisionNever:
		return v.Version
	default:
		if dots := dotver.DotCount(token); dots > 0 && dots < 3 {
			return v.VersionShort
		}
		return v.Version
	}
}

// Patterns compiles and memoizes patterns for the duration of a run.
type Patterns struct {
	cache map[string]*regexp.Regexp
}

// NewPatterns returns an empty pattern cache.
func NewPatterns() *Patterns {
	return &Patterns{cache: make(map[string]*regexp.Regexp)}
}

// Get returns the compiled form of expr.
func (p *Patterns) Get(expr string) (*regexp.Regexp, error) {
	if rx, ok := p.cache[expr]; ok {
		return rx, nil
	}
	rx, err := pattern.Compile(expr)
	if err != nil {
		return nil, err
	}
	p.cache[expr] = rx
	return rx, nil
}

func coalesce(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

// budget resolves a match budget. At least one match is always attempted.
func budget(override int, ok bool, fallback int) int {
	n := fallback
	if ok {
		n = override
	}
	return max(n, 1)
}
