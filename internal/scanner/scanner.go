// Package scanner finds the greatest version token across a list of input sources.
package scanner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"regexp"
	"strings"

	"github.com/indaco/stamp/internal/config"
	"github.com/indaco/stamp/internal/core"
	"github.com/indaco/stamp/internal/dotver"
	"github.com/indaco/stamp/internal/pattern"
	"github.com/indaco/stamp/internal/policy"
	"github.com/indaco/stamp/internal/report"
)

// Result is the running maximum threaded through a scan.
type Result struct {
	// Version is the greatest version seen, or dotver.Unset.
	Version dotver.Version

	// Suffix belongs to Version and is replaced together with it.
	Suffix string

	// Matches counts every parsed candidate, including ones that lost.
	Matches int

	// Sources counts the sources that existed and were read.
	Sources int
}

// Found reports whether any source produced a version.
func (r Result) Found() bool {
	return !r.Version.IsUnset()
}

// fold applies one candidate to acc. Only a strictly greater candidate
// replaces the version and its suffix.
func fold(acc Result, candidate dotver.Version, suffix string) Result {
	acc.Matches++
	if candidate.GreaterThan(acc.Version) {
		acc.Version = candidate
		acc.Suffix = suffix
	}
	return acc
}

// Scanner reads input sources line by line.
type Scanner struct {
	fs       core.FileSystem
	reporter report.Reporter
	patterns *policy.Patterns
}

// New creates a Scanner. A nil reporter discards messages and a nil
// pattern cache gets a fresh one.
func New(fs core.FileSystem, reporter report.Reporter, patterns *policy.Patterns) *Scanner {
	if reporter == nil {
		reporter = report.Discard{}
	}
	if patterns == nil {
		patterns = policy.NewPatterns()
	}
	return &Scanner{fs: fs, reporter: reporter, patterns: patterns}
}

// Scan folds every source, in order, into a single Result. Missing sources
// and directories are reported as warnings and skipped; invalid patterns and read failures
// abort the scan.
func (s *Scanner) Scan(ctx context.Context, sources []config.InputSource, defaults config.Defaults) (Result, error) {
	acc := Result{Version: dotver.Unset}
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		next, err := s.scanSource(ctx, acc, src, policy.ForInput(src, defaults))
		if err != nil {
			return Result{}, err
		}
		acc = next
	}
	return acc, nil
}

func (s *Scanner) scanSource(ctx context.Context, acc Result, src config.InputSource, pol policy.Input) (Result, error) {
	info, err := s.fs.Stat(ctx, src.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Result{}, fmt.Errorf("failed to stat input %q: %w", src.Path, err)
	}
	if err != nil || info.IsDir() {
		s.reporter.Warn(fmt.Sprintf("input file doesn't exist %s", src.Path))
		return acc, nil
	}

	rx, err := s.patterns.Get(pol.Regex)
	if err != nil {
		return Result{}, fmt.Errorf("input %q: %w", src.Path, err)
	}

	rc, err := s.fs.Open(ctx, src.Path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read input %q: %w", src.Path, err)
	}
	defer rc.Close()

	acc.Sources++
	before := acc.Matches
	remaining := pol.MaxMatch

	for line, err := range lines(ctx, rc) {
		if err != nil {
			return Result{}, fmt.Errorf("failed to read input %q: %w", src.Path, err)
		}
		candidate, suffix, ok := s.extract(rx, line, src.Path)
		if !ok {
			continue
		}
		acc = fold(acc, candidate, suffix)
		remaining--
		if remaining <= 0 {
			break
		}
	}

	if acc.Matches == before {
		s.reporter.Warn(fmt.Sprintf("no version found in %s", src.Path))
	}
	return acc, nil
}

// extract returns the version and suffix matched on line. Lines without a
// match, without a version capture, or with an unparseable capture are skipped.
func (s *Scanner) extract(rx *regexp.Regexp, line, path string) (dotver.Version, string, bool) {
	m, ok := pattern.FindFirst(rx, line)
	if !ok {
		return dotver.Version{}, "", false
	}
	token, ok := m.Version()
	if !ok {
		return dotver.Version{}, "", false
	}

	s.reporter.Debug(fmt.Sprintf("Parsed entry '%s' in '%s'", m.Text(), path))

	v, err := dotver.Parse(token)
	if err != nil {
		s.reporter.Debug("skipping unparseable version", "path", path, "token", token, "err", err)
		return dotver.Version{}, "", false
	}
	return v, m.Suffix(), true
}

// lines yields every line of r without its terminator. Read errors and
// context cancellation are yielded once and end the sequence.
func lines(ctx context.Context, r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		br := bufio.NewReader(r)
		for {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			line, err := br.ReadString('\n')
			if line != "" && !yield(strings.TrimRight(line, "\r\n"), nil) {
				return
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				yield("", err)
				return
			}
		}
	}
}
