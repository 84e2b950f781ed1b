// Package pattern compiles the user supplied version patterns and extracts
// the version and suffix capture groups from their matches.
package pattern

import (
	"fmt"
	"regexp"
)

// Capture group names recognized in version patterns.
const (
	GroupVersion = "version"
	GroupSuffix  = "suffix"
)

// Default matches a 3 or 4 component version followed by an optional
// alphanumeric/hyphen suffix.
const Default = `(?P<version>\d+(?:\.\d+){2,3})(?P<suffix>[0-9A-Za-z-]*)`

// quotedGroup matches the (?'name' group opener, which RE2 does not accept.
var quotedGroup = regexp.MustCompile(`\(\?'([A-Za-z_][A-Za-z0-9_]*)'`)

// Compile compiles expr. Group openers written as (?'name' are rewritten to
// (?P<name> first, so patterns carried over from other regex dialects work.
func Compile(expr string) (*regexp.Regexp, error) {
	rx, err := regexp.Compile(quotedGroup.ReplaceAllString(expr, `(?P<$1>`))
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern %q: %w", expr, err)
	}
	return rx, nil
}

// Match is one regex match within a line, as submatch byte offsets.
type Match struct {
	rx   *regexp.Regexp
	line string
	loc  []int
}

// NewMatch wraps a submatch index slice produced by rx on line.
func NewMatch(rx *regexp.Regexp, line string, loc []int) Match {
	return Match{rx: rx, line: line, loc: loc}
}

// FindFirst returns the first match of rx in line.
func FindFirst(rx *regexp.Regexp, line string) (Match, bool) {
	loc := rx.FindStringSubmatchIndex(line)
	if loc == nil {
		return Match{}, false
	}
	return NewMatch(rx, line, loc), true
}

// Text returns the whole matched text.
func (m Match) Text() string {
	return m.line[m.loc[0]:m.loc[1]]
}

// Start and End return the byte offsets of the whole match.
func (m Match) Start() int { return m.loc[0] }
func (m Match) End() int   { return m.loc[1] }

// Loc returns the raw submatch index slice.
func (m Match) Loc() []int { return m.loc }

// group returns the text of group i and whether it participated with a non-empty value.
func (m Match) group(i int) (string, bool) {
	if i <= 0 || 2*i+1 >= len(m.loc) || m.loc[2*i] < 0 {
		return "", false
	}
	s := m.line[m.loc[2*i]:m.loc[2*i+1]]
	return s, s != ""
}

// Named returns the non-empty text of the named group.
func (m Match) Named(name string) (string, bool) {
	return m.group(m.rx.SubexpIndex(name))
}

// Version extracts the version token in two steps: the "version" group,
// then the first unnamed group. It reports false when neither captured text.
func (m Match) Version() (string, bool) {
	if v, ok := m.Named(GroupVersion); ok {
		return v, true
	}
	return m.group(firstUnnamed(m.rx))
}

// Suffix returns the "suffix" group, or "" when absent or empty.
func (m Match) Suffix() string {
	s, _ := m.Named(GroupSuffix)
	return s
}

func firstUnnamed(rx *regexp.Regexp) int {
	for i, name := range rx.SubexpNames() {
		if i > 0 && name == "" {
			return i
		}
	}
	return -1
}
