// Package updater rewrites the version tokens of a target file in place.
package updater

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"time"

	"github.com/indaco/stamp/internal/core"
	"github.com/indaco/stamp/internal/pattern"
	"github.com/indaco/stamp/internal/policy"
	"github.com/indaco/stamp/internal/report"
)

// ErrTargetNotFound is returned for a target path that does not exist.
var ErrTargetNotFound = errors.New("target file not found")

// TouchOffset is added to a target's previous modification time when the
// touch policy is off, so the file is still strictly newer than before.
const TouchOffset = time.Second

// Outcome describes what Update did to one target.
type Outcome struct {
	Path string

	// Matched is the number of lines that matched the pattern.
	Matched int

	// Replaced is the number of lines whose content changed.
	Replaced int

	// Written reports whether the file was rewritten.
	Written bool
}

// Writer applies resolved update policies to target files.
type Writer struct {
	fs       core.FileSystem
	reporter report.Reporter
	patterns *policy.Patterns
}

// New creates a Writer. A nil reporter discards messages and a nil pattern
// cache gets a fresh one.
func New(fs core.FileSystem, reporter report.Reporter, patterns *policy.Patterns) *Writer {
	if reporter == nil {
		reporter = report.Discard{}
	}
	if patterns == nil {
		patterns = policy.NewPatterns()
	}
	return &Writer{fs: fs, reporter: reporter, patterns: patterns}
}

// Update rewrites the matching lines of path. Lines are visited in order and
// each matching line spends one unit of pol.MaxMatch; within a line every
// match is replaced. The file is only written when a line actually changed.
func (w *Writer) Update(ctx context.Context, path string, pol policy.Update, versions policy.Versions) (Outcome, error) {
	out := Outcome{Path: path}

	info, err := w.fs.Stat(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, fmt.Errorf("%w: %s", ErrTargetNotFound, path)
		}
		return out, fmt.Errorf("failed to stat target %q: %w", path, err)
	}
	if info.IsDir() {
		return out, fmt.Errorf("%w: %s", ErrTargetNotFound, path)
	}

	rx, err := w.patterns.Get(pol.Regex)
	if err != nil {
		return out, fmt.Errorf("target %q: %w", path, err)
	}

	data, err := w.fs.ReadFile(ctx, path)
	if err != nil {
		return out, fmt.Errorf("failed to read file %q: %w", path, err)
	}

	lines := splitLines(string(data))
	remaining := max(pol.MaxMatch, 1)
	for i := range lines {
		locs := rx.FindAllStringSubmatchIndex(lines[i].body, -1)
		if locs == nil {
			continue
		}
		out.Matched++

		updated := replaceLine(rx, lines[i].body, locs, pol, versions)
		if updated != lines[i].body {
			lines[i].body = updated
			out.Replaced++
			w.reporter.Debug(fmt.Sprintf("Updated entry in '%s'", path), "line", i+1)
		}

		remaining--
		if remaining <= 0 {
			break
		}
	}

	if out.Replaced == 0 {
		return out, nil
	}

	perm := info.Mode().Perm()
	if perm == 0 {
		perm = core.PermDefaultFile
	}
	if err := w.fs.WriteFile(ctx, path, []byte(joinLines(lines)), perm); err != nil {
		return out, fmt.Errorf("failed to write file %q: %w", path, err)
	}
	out.Written = true

	if !pol.Touch {
		mtime := info.ModTime().Add(TouchOffset)
		if err := w.fs.Chtimes(ctx, path, time.Time{}, mtime); err != nil {
			return out, fmt.Errorf("failed to restore modification time of %q: %w", path, err)
		}
	}

	return out, nil
}

// replaceLine substitutes every match in line. The keep policy is decided
// for each match from the dots in its own version token.
func replaceLine(rx *regexp.Regexp, line string, locs [][]int, pol policy.Update, versions policy.Versions) string {
	var sb strings.Builder
	sb.Grow(len(line) + 16)
	last := 0
	for _, loc := range locs {
		token, _ := pattern.NewMatch(rx, line, loc).Version()
		version := pol.VersionFor(token, versions)

		sb.WriteString(line[last:loc[0]])
		sb.WriteString(Render(rx, line, loc, pol.Replacement, version, versions.Suffix))
		last = loc[1]
	}
	sb.WriteString(line[last:])
	return sb.String()
}

// Render produces the concrete replacement for one match: the literal
// {version} and {suffix} tokens are substituted first, then $1 / ${name}
// references are expanded against the match. A token directly preceded by
// '$' is a group reference and is left for expansion.
func Render(rx *regexp.Regexp, line string, loc []int, template, version, suffix string) string {
	tmpl := substituteTokens(template, version, suffix)
	return string(rx.ExpandString(nil, tmpl, line, loc))
}

const (
	tokenVersion = "{version}"
	tokenSuffix  = "{suffix}"
)

func substituteTokens(template, version, suffix string) string {
	var sb strings.Builder
	sb.Grow(len(template) + len(version) + len(suffix))
	for i := 0; i < len(template); {
		switch {
		case template[i] == '$' && i+1 < len(template):
			sb.WriteString(template[i : i+2])
			i += 2
		case strings.HasPrefix(template[i:], tokenVersion):
			sb.WriteString(escapeDollar(version))
			i += len(tokenVersion)
		case strings.HasPrefix(template[i:], tokenSuffix):
			sb.WriteString(escapeDollar(suffix))
			i += len(tokenSuffix)
		default:
			sb.WriteByte(template[i])
			i++
		}
	}
	return sb.String()
}

func escapeDollar(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}

// line is one line of a target file with its original terminator.
type line struct {
	body string
	eol  string
}

func splitLines(s string) []line {
	parts := strings.SplitAfter(s, "\n")
	out := make([]line, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		switch {
		case strings.HasSuffix(p, "\r\n"):
			out = append(out, line{body: p[:len(p)-2], eol: "\r\n"})
		case strings.HasSuffix(p, "\n"):
			out = append(out, line{body: p[:len(p)-1], eol: "\n"})
		default:
			out = append(out, line{body: p})
		}
	}
	return out
}

func joinLines(lines []line) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l.body)
		sb.WriteString(l.eol)
	}
	return sb.String()
}
