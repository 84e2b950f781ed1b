package initialize

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/indaco/stamp/internal/config"
	"github.com/indaco/stamp/internal/core"
	"github.com/indaco/stamp/internal/discovery"
	"github.com/indaco/stamp/internal/printer"
	"github.com/urfave/cli/v3"
)

// SaveConfigFn writes cfg to path with the commented header. Tests replace it.
var SaveConfigFn = func(cfg *config.Config, path string) error {
	return config.NewConfigSaver(&commentedMarshaler{}, nil, nil).SaveTo(cfg, path)
}

// Run returns the "init" command.
func Run() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Write a starter configuration file",
		UsageText: "stamp init [--template name] [--path .stamp.yaml] [--force]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   fmt.Sprintf("Start from a template %v instead of discovered files", TemplateNames()),
			},
			&cli.StringFlag{
				Name:  "path",
				Usage: "Configuration file to write",
				Value: config.DefaultConfigFile,
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runInitCmd(ctx, cmd)
		},
	}
}

func runInitCmd(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("config file %q already exists (use --force to overwrite)", path)
	}

	cfg := config.New()
	if name := cmd.String("template"); name != "" {
		tmpl, err := GetTemplate(name)
		if err != nil {
			return err
		}
		tmpl.Apply(cfg)
	} else {
		candidates, err := discovery.NewService(core.NewOSFileSystem(), "", "", nil).Candidates(ctx)
		if err != nil {
			return err
		}
		for _, c := range candidates {
			cfg.InputFiles = append(cfg.InputFiles, c.Input())
		}
		if len(candidates) == 0 {
			printer.Print(printer.Warning, "No changelog.md, AssemblyInfo.cs or .csproj found; add input-files by hand")
		}
	}

	if err := SaveConfigFn(cfg, path); err != nil {
		return err
	}

	printer.Printf(printer.Success, "Created %s with %d input file(s) and %d update file(s)", path, len(cfg.InputFiles), len(cfg.UpdateFiles))
	return nil
}

const configHeader = `# stamp configuration file
#
# input-files are scanned for the greatest version; update-files receive it.
# Per-file keys: regex, max-match (alias max), and for update files
# replacement, drop-revision (keep, never, always) and touch.
`

// commentedMarshaler renders the config as YAML behind an explanatory header.
type commentedMarshaler struct{}

func (commentedMarshaler) Marshal(v any) ([]byte, error) {
	return GenerateConfigWithComments(v)
}

// GenerateConfigWithComments renders v as YAML with the stamp header.
func GenerateConfigWithComments(v any) ([]byte, error) {
	body, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(configHeader)
	buf.WriteByte('\n')
	buf.Write(body)
	return buf.Bytes(), nil
}
