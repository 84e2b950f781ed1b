package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/indaco/stamp/internal/cli"
	"github.com/indaco/stamp/internal/printer"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		printer.SetOutput(os.Stderr)
		printer.Print(printer.Failure, err.Error())
		os.Exit(1)
	}
}

// runCLI runs the stamp command with the given arguments.
func runCLI(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.New().Run(ctx, args)
}
