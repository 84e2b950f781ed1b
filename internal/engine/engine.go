// Package engine orchestrates a stamp run: it scans the input sources for the
// greatest version, derives the outputs and writes them into the update targets.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/indaco/stamp/internal/config"
	"github.com/indaco/stamp/internal/core"
	"github.com/indaco/stamp/internal/policy"
	"github.com/indaco/stamp/internal/report"
	"github.com/indaco/stamp/internal/scanner"
	"github.com/indaco/stamp/internal/updater"
)

var (
	// ErrNoInputVersion is returned when no input source yields a version.
	ErrNoInputVersion = errors.New("no input version")

	// ErrInvalidConfig is returned when patterns or policies cannot be used.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnexpected wraps a panic recovered at the run boundary.
	ErrUnexpected = errors.New("unexpected failure")
)

// Discoverer supplies conventional inputs, and optionally matching update
// targets, when a run has no inputs configured.
type Discoverer interface {
	Discover(ctx context.Context, autoIncrease bool) ([]config.InputSource, []config.UpdateTarget, error)
}

// ConfirmFunc is asked before any target is written. Returning false ends
// the run successfully without touching the targets.
type ConfirmFunc func(result RunResult, targets []config.UpdateTarget) (bool, error)

// Engine runs the scan and update passes.
type Engine struct {
	fs         core.FileSystem
	reporter   report.Reporter
	discoverer Discoverer
	confirm    ConfirmFunc
	state      State
}

// Option configures an Engine.
type Option func(*Engine)

// WithReporter sets the message channel. Defaults to report.Discard.
func WithReporter(r report.Reporter) Option {
	return func(e *Engine) {
		e.reporter = r
	}
}

// WithDiscoverer enables input autofill.
func WithDiscoverer(d Discoverer) Option {
	return func(e *Engine) {
		e.discoverer = d
	}
}

// WithConfirm installs a confirmation step before the update pass.
func WithConfirm(fn ConfirmFunc) Option {
	return func(e *Engine) {
		e.confirm = fn
	}
}

// New creates an Engine over fs.
func New(fs core.FileSystem, opts ...Option) *Engine {
	e := &Engine{fs: fs, reporter: report.Discard{}, state: StateIdle}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the state the last run ended in.
func (e *Engine) State() State {
	return e.state
}

// Run executes one complete run. Fatal conditions are returned as errors;
// missing files and per-target failures end up in Report.Warnings.
func (e *Engine) Run(ctx context.Context, req Request) (rep *Report, err error) {
	rep = &Report{State: StateIdle}
	e.state = StateIdle

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnexpected, r)
		}
		if err != nil {
			e.state = StateFailed
		}
		rep.State = e.state
	}()

	defaults := req.Defaults.WithFallbacks()
	var out report.Reporter = e.reporter
	if defaults.Silent {
		out = report.Discard{}
	}
	rr := &collector{next: out}
	defer func() { rep.Warnings = rr.warnings }()

	rr.Debug("Start stamp", "auto", defaults.AutoIncrease, "max", defaults.MaxMatch, "touch", defaults.TouchFiles)

	inputs, updates, err := e.gather(ctx, req, defaults, rr)
	if err != nil {
		return rep, err
	}

	e.state = StateScanning
	patterns := policy.NewPatterns()
	scan, err := scanner.New(e.fs, rr, patterns).Scan(ctx, inputs, defaults)
	if err != nil {
		return rep, err
	}
	rep.Scan = scan
	if !scan.Found() {
		return rep, fmt.Errorf("%w found in %d source(s)", ErrNoInputVersion, len(inputs))
	}

	result := Derive(scan.Version, scan.Suffix, defaults.AutoIncrease)
	rep.Result = &result
	e.state = StateDerived
	rr.Info("Read version as " + result.VersionFull)

	if req.ScanOnly {
		e.state = StateDone
		return rep, nil
	}

	if e.confirm != nil && len(updates) > 0 {
		ok, err := e.confirm(result, updates)
		if err != nil {
			return rep, fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			rr.Info("Update cancelled, no files written")
			e.state = StateDone
			return rep, nil
		}
	}

	e.state = StateUpdating
	if err := e.update(ctx, rep, updates, defaults, patterns, rr); err != nil {
		return rep, err
	}

	e.state = StateDone
	rr.Info("Version updated!")
	return rep, nil
}

// gather validates the configuration and resolves the final input and target lists.
func (e *Engine) gather(ctx context.Context, req Request, defaults config.Defaults, rr report.Reporter) ([]config.InputSource, []config.UpdateTarget, error) {
	cfg := &config.Config{InputFiles: req.Inputs, UpdateFiles: req.Updates, Defaults: defaults}
	if results := config.ValidateRules(cfg); config.HasErrors(results) {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(config.Errors(results), "; "))
	}

	inputs := req.Inputs
	updates := req.Updates
	if len(inputs) == 0 && e.discoverer != nil {
		rr.Debug("No input files, searching...")
		found, extra, err := e.discoverer.Discover(ctx, defaults.AutoIncrease)
		if err != nil {
			return nil, nil, fmt.Errorf("input discovery failed: %w", err)
		}
		inputs = found
		updates = append(append([]config.UpdateTarget(nil), updates...), extra...)
	}
	return inputs, updates, nil
}

// update runs every target through the writer. Only cancellation is fatal here.
func (e *Engine) update(ctx context.Context, rep *Report, targets []config.UpdateTarget, defaults config.Defaults, patterns *policy.Patterns, rr report.Reporter) error {
	writer := updater.New(e.fs, rr, patterns)
	versions := policy.Versions{
		Version:      rep.Result.Version,
		VersionShort: rep.Result.VersionShort,
		Suffix:       rep.Result.Suffix,
	}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		outcome, err := writer.Update(ctx, target.Path, policy.ForUpdate(target, defaults), versions)
		rep.Outcomes = append(rep.Outcomes, outcome)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		case errors.Is(err, updater.ErrTargetNotFound):
			rr.Warn("file doesn't exist " + target.Path)
		default:
			rr.Warn(err.Error())
		}
	}
	return nil
}

// collector forwards messages and keeps the warnings for the Report.
type collector struct {
	next     report.Reporter
	warnings []string
}

func (c *collector) Info(msg string) {
	c.next.Info(msg)
}

func (c *collector) Warn(msg string) {
	c.warnings = append(c.warnings, msg)
	c.next.Warn(msg)
}

func (c *collector) Debug(msg string, keyvals ...any) {
	c.next.Debug(msg, keyvals...)
}
