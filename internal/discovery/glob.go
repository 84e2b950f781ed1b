package discovery

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/indaco/stamp/internal/config"
)

// Expansion is the result of expanding glob patterns.
type Expansion[T any] struct {
	Items []T

	// Unmatched lists the patterns that matched nothing.
	Unmatched []string
}

// HasMeta reports whether path contains glob metacharacters.
func HasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// ExpandInputs replaces every input whose path is a glob with one input per
// matching file. Plain paths are kept as-is, missing or not.
func ExpandInputs(sources []config.InputSource) (Expansion[config.InputSource], error) {
	return expand(sources,
		func(s config.InputSource) string { return s.Path },
		func(s config.InputSource, p string) config.InputSource { s.Path = p; return s })
}

// ExpandTargets is ExpandInputs for update targets.
func ExpandTargets(targets []config.UpdateTarget) (Expansion[config.UpdateTarget], error) {
	return expand(targets,
		func(t config.UpdateTarget) string { return t.Path },
		func(t config.UpdateTarget, p string) config.UpdateTarget { t.Path = p; return t })
}

func expand[T any](items []T, pathOf func(T) string, withPath func(T, string) T) (Expansion[T], error) {
	var out Expansion[T]
	seen := make(map[string]bool)

	for _, item := range items {
		p := pathOf(item)
		if !HasMeta(p) {
			out.Items = append(out.Items, item)
			continue
		}

		slashed := filepath.ToSlash(p)
		if !doublestar.ValidatePattern(slashed) {
			return out, fmt.Errorf("invalid glob pattern %q", p)
		}
		base, _ := doublestar.SplitPattern(slashed)
		matches, err := GlobFn(p)
		if err != nil {
			return out, fmt.Errorf("failed to glob %q: %w", p, err)
		}
		slices.Sort(matches)

		n := 0
		for _, m := range matches {
			if skipped(base, m) {
				continue
			}
			n++
			if seen[m] {
				continue
			}
			seen[m] = true
			out.Items = append(out.Items, withPath(item, m))
		}
		if n == 0 {
			out.Unmatched = append(out.Unmatched, p)
		}
	}
	return out, nil
}

// skipped reports whether any directory of path below the pattern base is
// in skipDirs.
func skipped(base, path string) bool {
	rel := strings.TrimPrefix(filepath.ToSlash(filepath.Dir(path)), base)
	for _, part := range strings.Split(rel, "/") {
		if slices.Contains(skipDirs, part) {
			return true
		}
	}
	return false
}
