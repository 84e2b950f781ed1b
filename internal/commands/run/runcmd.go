package run

import (
	"context"
	"fmt"
	"strings"

	"github.com/indaco/stamp/internal/clix"
	"github.com/indaco/stamp/internal/config"
	"github.com/indaco/stamp/internal/core"
	"github.com/indaco/stamp/internal/discovery"
	"github.com/indaco/stamp/internal/engine"
	"github.com/indaco/stamp/internal/export"
	"github.com/indaco/stamp/internal/printer"
	"github.com/indaco/stamp/internal/tui"
	"github.com/urfave/cli/v3"
)

// ConfirmFn asks the user before targets are written. It is a variable so
// tests can substitute it.
var ConfirmFn = tui.Confirm

// Run returns the "run" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Read the greatest version from the inputs and write it into the update files",
		UsageText: `stamp run [-i <file>]... [-u <file>]... [options]

Without inputs, stamp looks for changelog.md, Properties/AssemblyInfo.cs and
*.csproj files in the current directory.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return Execute(ctx, cmd, cfg, false)
		},
	}
}

// Execute performs a run for cmd. With scanOnly the update files are left
// untouched and the outputs are always printed.
func Execute(ctx context.Context, cmd *cli.Command, cfg *config.Config, scanOnly bool) error {
	format, err := export.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	root := cmd.Root()
	if format != export.FormatText {
		prev := printer.SetOutput(root.ErrWriter)
		defer printer.SetOutput(prev)
	}

	req, unmatched, err := clix.BuildRequest(cmd, cfg)
	if err != nil {
		return err
	}
	req.ScanOnly = scanOnly

	reporter := clix.NewReporter(cmd)
	if !req.Defaults.Silent {
		for _, p := range unmatched {
			reporter.Warn("no files match " + p)
		}
	}

	fs := core.NewOSFileSystem()
	opts := []engine.Option{
		engine.WithReporter(reporter),
		engine.WithDiscoverer(discovery.NewService(fs, "", cfg.ProjectFile, reporter)),
	}
	if cmd.Bool("confirm") {
		tui.SetTheme(cmd.String("theme"))
		opts = append(opts, engine.WithConfirm(confirmUpdate))
	}

	rep, err := engine.New(fs, opts...).Run(ctx, req)
	if err != nil {
		return err
	}

	if scanOnly || format != export.FormatText {
		data, err := export.Render(format, *rep.Result)
		if err != nil {
			return err
		}
		if _, err := root.Writer.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	if path := cmd.String("outputs-file"); path != "" {
		if err := export.NewWriter(fs).WriteFile(ctx, path, *rep.Result); err != nil {
			return err
		}
	}

	if !req.Defaults.Silent {
		for _, p := range rep.Written() {
			printer.Print(printer.Faint, "  "+p)
		}
	}
	return nil
}

func confirmUpdate(result engine.RunResult, targets []config.UpdateTarget) (bool, error) {
	paths := make([]string, len(targets))
	for i, t := range targets {
		paths[i] = t.Path
	}
	title := fmt.Sprintf("Write %s to %d file(s)?", result.VersionFull, len(targets))
	return ConfirmFn(title, strings.Join(paths, "\n"))
}
