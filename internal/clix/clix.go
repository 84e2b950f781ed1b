// Package clix turns parsed command-line flags and the loaded configuration
// into an engine request.
package clix

import (
	"fmt"
	"io"
	"os"

	"github.com/indaco/stamp/internal/config"
	"github.com/indaco/stamp/internal/discovery"
	"github.com/indaco/stamp/internal/engine"
	"github.com/indaco/stamp/internal/report"
	"github.com/urfave/cli/v3"
)

// ApplyFlags returns a copy of cfg with every explicitly set flag applied.
// --input and --update replace the configured lists rather than extending them.
func ApplyFlags(cmd *cli.Command, cfg *config.Config) (*config.Config, error) {
	out := *cfg

	if cmd.IsSet("input") {
		out.InputFile = ""
		out.InputFiles = nil
		for _, p := range cmd.StringSlice("input") {
			out.InputFiles = append(out.InputFiles, config.InputSource{Path: p})
		}
	}
	if cmd.IsSet("update") {
		out.UpdateFiles = nil
		for _, p := range cmd.StringSlice("update") {
			out.UpdateFiles = append(out.UpdateFiles, config.UpdateTarget{Path: p})
		}
	}

	if cmd.IsSet("max-match") {
		out.MaxMatch = cmd.Int("max-match")
	}
	if cmd.IsSet("regex-input") {
		out.RegexInput = cmd.String("regex-input")
	}
	if cmd.IsSet("regex-output") {
		out.RegexOutput = cmd.String("regex-output")
	}
	if cmd.IsSet("regex-replace") {
		out.RegexReplace = cmd.String("regex-replace")
	}
	if cmd.IsSet("drop-revision") {
		d, err := config.ParseDropRevision(cmd.String("drop-revision"))
		if err != nil {
			return nil, err
		}
		out.DropRevision = d
	}
	if cmd.IsSet("auto-increase") {
		out.AutoIncrease = cmd.Bool("auto-increase")
	}
	if cmd.IsSet("touch-files") {
		out.TouchFiles = cmd.Bool("touch-files")
	}
	if cmd.IsSet("silent") {
		out.Silent = cmd.Bool("silent")
	}

	return &out, nil
}

// BuildRequest applies flags to cfg and expands glob patterns in the input
// and update paths. Patterns that matched nothing are returned separately.
func BuildRequest(cmd *cli.Command, cfg *config.Config) (engine.Request, []string, error) {
	merged, err := ApplyFlags(cmd, cfg)
	if err != nil {
		return engine.Request{}, nil, err
	}

	inputs, err := discovery.ExpandInputs(merged.Sources())
	if err != nil {
		return engine.Request{}, nil, fmt.Errorf("input files: %w", err)
	}
	targets, err := discovery.ExpandTargets(merged.UpdateFiles)
	if err != nil {
		return engine.Request{}, nil, fmt.Errorf("update files: %w", err)
	}

	req := engine.Request{
		Inputs:   inputs.Items,
		Updates:  targets.Items,
		Defaults: merged.Defaults,
	}
	unmatched := append(inputs.Unmatched, targets.Unmatched...)
	return req, unmatched, nil
}

// NewReporter returns the console reporter for cmd. Debug output is enabled
// by --verbose and goes to the root command's error writer.
func NewReporter(cmd *cli.Command) report.Reporter {
	var w io.Writer = os.Stderr
	if root := cmd.Root(); root != nil && root.ErrWriter != nil {
		w = root.ErrWriter
	}
	return report.NewConsole(w, cmd.Bool("verbose"))
}
