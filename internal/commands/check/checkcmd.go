package check

import (
	"context"
	"fmt"
	"os"

	"github.com/indaco/stamp/internal/clix"
	"github.com/indaco/stamp/internal/config"
	"github.com/indaco/stamp/internal/core"
	"github.com/indaco/stamp/internal/printer"
	"github.com/urfave/cli/v3"
)

// Run returns the "check" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Aliases:   []string{"doctor"},
		Usage:     "Validate the configuration without reading or writing versions",
		UsageText: "stamp check [options]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runCheckCmd(ctx, cmd, cfg)
		},
	}
}

func runCheckCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	merged, err := clix.ApplyFlags(cmd, cfg)
	if err != nil {
		return err
	}

	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	results, err := config.NewValidator(core.NewOSFileSystem(), merged, rootDir).Validate(ctx)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	printResults(results)

	if n := config.ErrorCount(results); n > 0 {
		return fmt.Errorf("configuration has %d error(s)", n)
	}
	return nil
}

func printResults(results []config.ValidationResult) {
	category := ""
	for _, r := range results {
		if r.Category != category {
			category = r.Category
			printer.Print(printer.Heading, category)
		}
		switch {
		case !r.Passed && !r.Warning:
			printer.Item(printer.Failure, r.Message)
		case r.Warning:
			printer.Item(printer.Warning, r.Message)
		default:
			printer.Item(printer.Success, r.Message)
		}
	}

	errs, warns := config.ErrorCount(results), config.WarningCount(results)
	switch {
	case errs > 0:
		printer.Printf(printer.Failure, "%d error(s), %d warning(s)", errs, warns)
	case warns > 0:
		printer.Printf(printer.Warning, "Configuration is usable with %d warning(s)", warns)
	default:
		printer.Print(printer.Success, "Configuration is valid")
	}
}
