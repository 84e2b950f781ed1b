package engine

import (
	"fmt"

	"github.com/indaco/stamp/internal/config"
	"github.com/indaco/stamp/internal/dotver"
	"github.com/indaco/stamp/internal/scanner"
	"github.com/indaco/stamp/internal/updater"
)

// State is a step of the run state machine:
// Idle -> Scanning -> (Derived | Failed) -> Updating -> Done.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateDerived
	StateFailed
	StateUpdating
	StateDone
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateScanning:
		return "Scanning"
	case StateDerived:
		return "Derived"
	case StateFailed:
		return "Failed"
	case StateUpdating:
		return "Updating"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// RunResult holds the outputs of a successful scan.
type RunResult struct {
	// VersionFull is Version followed by Suffix.
	VersionFull string

	// Version is major.minor.build.revision, with the revision incremented
	// when auto-increase is on.
	Version string

	// VersionShort is major.minor.build.
	VersionShort string

	Suffix string

	// Major, Minor, Build and Revision are the components of the version that
	// was found. Build and Revision are -1 when the token omitted them.
	Major    int
	Minor    int
	Build    int
	Revision int
}

// Derive computes the run outputs from the greatest version found.
func Derive(v dotver.Version, suffix string, autoIncrease bool) RunResult {
	revision := max(v.Revision, 0)
	if autoIncrease {
		revision = v.Revision + 1
	}

	short := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, max(v.Build, 0))
	version := fmt.Sprintf("%s.%d", short, revision)

	return RunResult{
		VersionFull:  version + suffix,
		Version:      version,
		VersionShort: short,
		Suffix:       suffix,
		Major:        v.Major,
		Minor:        v.Minor,
		Build:        v.Build,
		Revision:     v.Revision,
	}
}

// Request is everything a run needs from its host.
type Request struct {
	Inputs   []config.InputSource
	Updates  []config.UpdateTarget
	Defaults config.Defaults

	// ScanOnly stops the run after the version has been derived.
	ScanOnly bool
}

// RequestFromConfig builds a Request from a loaded configuration.
func RequestFromConfig(cfg *config.Config) Request {
	return Request{
		Inputs:   cfg.Sources(),
		Updates:  cfg.UpdateFiles,
		Defaults: cfg.Defaults,
	}
}

// Report summarizes a run.
type Report struct {
	State State

	// Result is nil unless the scan found a version.
	Result *RunResult

	Scan     scanner.Result
	Outcomes []updater.Outcome

	// Warnings collects every recoverable problem reported during the run.
	Warnings []string
}

// Written returns the paths of the targets that were rewritten.
func (r *Report) Written() []string {
	var paths []string
	for _, o := range r.Outcomes {
		if o.Written {
			paths = append(paths, o.Path)
		}
	}
	return paths
}
