package show

import (
	"context"

	"github.com/indaco/stamp/internal/commands/run"
	"github.com/indaco/stamp/internal/config"
	"github.com/urfave/cli/v3"
)

// Run returns the "show" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print the version the inputs resolve to without writing any file",
		UsageText: "stamp show [-i <file>]... [--format text|json|yaml|toml|env]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run.Execute(ctx, cmd, cfg, true)
		},
	}
}
