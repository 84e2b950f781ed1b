package discovery

import "github.com/indaco/stamp/internal/config"

// Kind identifies which convention produced a Candidate.
type Kind int

const (
	// KindChangelog is a changelog.md at the project root.
	KindChangelog Kind = iota

	// KindAssemblyInfo is Properties/AssemblyInfo.cs.
	KindAssemblyInfo

	// KindProject is a .csproj project file.
	KindProject
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindChangelog:
		return "changelog"
	case KindAssemblyInfo:
		return "assembly-info"
	case KindProject:
		return "project"
	default:
		return "unknown"
	}
}

const (
	// ChangelogFile is looked up at the project root.
	ChangelogFile = "changelog.md"

	// AssemblyInfoFile is looked up relative to the project root.
	AssemblyInfoFile = "Properties/AssemblyInfo.cs"

	// ProjectPattern matches project files at the project root.
	ProjectPattern = "*.csproj"

	// assemblyInfoMax covers AssemblyVersion and AssemblyFileVersion.
	assemblyInfoMax = 2
)

// Candidate is a discovered version source.
type Candidate struct {
	Path string
	Kind Kind

	// Max is the match budget for the source, 0 meaning the default.
	Max int

	// Target reports whether the file should also receive the new version
	// when auto-increase is on.
	Target bool
}

// Input converts the candidate to an input source.
func (c Candidate) Input() config.InputSource {
	src := config.InputSource{Path: c.Path}
	if c.Max > 0 {
		limit := c.Max
		src.Max = &limit
	}
	return src
}

// Update converts the candidate to an update target.
func (c Candidate) Update() config.UpdateTarget {
	target := config.UpdateTarget{Path: c.Path}
	if c.Max > 0 {
		limit := c.Max
		target.Max = &limit
	}
	return target
}

// Split converts candidates to the inputs and targets a run should use.
func Split(candidates []Candidate, autoIncrease bool) ([]config.InputSource, []config.UpdateTarget) {
	var inputs []config.InputSource
	var updates []config.UpdateTarget
	for _, c := range candidates {
		inputs = append(inputs, c.Input())
		if autoIncrease && c.Target {
			updates = append(updates, c.Update())
		}
	}
	return inputs, updates
}
