package discovery

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/indaco/stamp/internal/config"
	"github.com/indaco/stamp/internal/core"
	"github.com/indaco/stamp/internal/report"
)

// GlobFn is the glob implementation used for discovery and expansion.
// Only files are returned. It is a variable so tests can substitute it.
var GlobFn = func(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
}

// skipDirs are never descended into by recursive patterns.
var skipDirs = []string{".git", "node_modules", "vendor", "bin", "obj", ".vs"}

// Service provides version source discovery.
type Service struct {
	fs          core.FileSystem
	root        string
	projectFile string
	reporter    report.Reporter
}

// NewService creates a discovery Service rooted at root. projectFile, when
// set, is preferred over globbing for project files.
func NewService(fs core.FileSystem, root, projectFile string, reporter report.Reporter) *Service {
	if reporter == nil {
		reporter = report.Discard{}
	}
	return &Service{fs: fs, root: root, projectFile: projectFile, reporter: reporter}
}

// Discover returns the conventional inputs, plus the matching targets when
// autoIncrease is on.
func (s *Service) Discover(ctx context.Context, autoIncrease bool) ([]config.InputSource, []config.UpdateTarget, error) {
	candidates, err := s.Candidates(ctx)
	if err != nil {
		return nil, nil, err
	}
	inputs, updates := Split(candidates, autoIncrease)
	return inputs, updates, nil
}

// Candidates lists the conventional sources present under the root.
// A changelog is always used when present; AssemblyInfo.cs takes precedence
// over project files.
func (s *Service) Candidates(ctx context.Context) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var candidates []Candidate

	changelog := s.path(ChangelogFile)
	if core.Exists(ctx, s.fs, changelog) {
		s.reporter.Debug("Found input", "path", changelog, "kind", KindChangelog)
		candidates = append(candidates, Candidate{Path: changelog, Kind: KindChangelog})
	}

	assemblyInfo := s.path(filepath.FromSlash(AssemblyInfoFile))
	if core.Exists(ctx, s.fs, assemblyInfo) {
		s.reporter.Debug("Found input", "path", assemblyInfo, "kind", KindAssemblyInfo)
		return append(candidates, Candidate{Path: assemblyInfo, Kind: KindAssemblyInfo, Max: assemblyInfoMax, Target: true}), nil
	}

	projects, err := s.projects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		s.reporter.Debug("Found input", "path", p, "kind", KindProject)
		candidates = append(candidates, Candidate{Path: p, Kind: KindProject, Target: true})
	}

	return candidates, nil
}

func (s *Service) projects(ctx context.Context) ([]string, error) {
	if s.projectFile != "" && strings.EqualFold(filepath.Ext(s.projectFile), ".csproj") {
		if p := s.path(s.projectFile); core.Exists(ctx, s.fs, p) {
			return []string{p}, nil
		}
	}

	matches, err := GlobFn(s.path(ProjectPattern))
	if err != nil {
		return nil, fmt.Errorf("failed to glob %q: %w", ProjectPattern, err)
	}
	slices.Sort(matches)
	return matches, nil
}

// path joins a relative name onto the root.
func (s *Service) path(name string) string {
	if s.root == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.root, name)
}
