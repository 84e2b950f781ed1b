package cli

import (
	"context"
	"fmt"

	"github.com/indaco/stamp/internal/cliflags"
	"github.com/indaco/stamp/internal/commands/check"
	"github.com/indaco/stamp/internal/commands/initialize"
	"github.com/indaco/stamp/internal/commands/run"
	"github.com/indaco/stamp/internal/commands/show"
	"github.com/indaco/stamp/internal/config"
	"github.com/indaco/stamp/internal/printer"
	"github.com/indaco/stamp/internal/version"
	urfavecli "github.com/urfave/cli/v3"
)

// rootFlags are persistent, so every subcommand accepts them.
func rootFlags() []urfavecli.Flag {
	flags := cliflags.GlobalFlags()
	flags = append(flags, cliflags.ScanFlags()...)
	return append(flags, cliflags.UpdateFlags()...)
}

// New builds and returns the root CLI command. Without a subcommand it
// behaves like "run". The configuration is loaded before any action runs,
// from --config when given.
func New() *urfavecli.Command {
	cfg := config.New()

	return &urfavecli.Command{
		Name:                  "stamp",
		Version:               fmt.Sprintf("v%s", version.GetVersion()),
		Usage:                 "Find the greatest version in your files and propagate it",
		EnableShellCompletion: true,
		Flags:                 rootFlags(),
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			printer.SetNoColor(cmd.Bool("no-color"))

			loaded, err := config.LoadConfigFn(cmd.String("config"))
			if err != nil {
				return ctx, err
			}
			*cfg = *loaded
			return ctx, nil
		},
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			return run.Execute(ctx, cmd, cfg, false)
		},
		Commands: []*urfavecli.Command{
			run.Run(cfg),
			show.Run(cfg),
			check.Run(cfg),
			initialize.Run(),
		},
	}
}
