// Package cliflags defines the flags of the stamp root command. They are
// persistent, so subcommands see them too.
package cliflags

import (
	"github.com/urfave/cli/v3"
)

// GlobalFlags returns the flags every command understands.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the configuration file",
			DefaultText: ".stamp.yaml",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Print debug messages",
		},
		&cli.BoolFlag{
			Name:  "silent",
			Usage: "Suppress all messages",
		},
	}
}

// ScanFlags returns the flags that control how inputs are scanned and how
// the result is reported.
func ScanFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "Input file to scan for a version (repeatable, globs allowed)",
		},
		&cli.IntFlag{
			Name:        "max-match",
			Usage:       "Matched lines to consider per file",
			DefaultText: "1",
		},
		&cli.StringFlag{
			Name:  "regex-input",
			Usage: "Default pattern used to find versions in inputs",
		},
		&cli.BoolFlag{
			Name:  "auto-increase",
			Usage: "Increment the revision of the version found",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json, yaml, toml, env",
			Value:   "text",
		},
		&cli.StringFlag{
			Name:  "outputs-file",
			Usage: "Also write the outputs to a file (format from extension, KEY=VALUE lines are appended)",
		},
	}
}

// UpdateFlags returns the flags that control how targets are rewritten.
func UpdateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "update",
			Aliases: []string{"u"},
			Usage:   "File to write the version into (repeatable, globs allowed)",
		},
		&cli.StringFlag{
			Name:  "regex-output",
			Usage: "Default pattern used to find versions in update files",
		},
		&cli.StringFlag{
			Name:  "regex-replace",
			Usage: "Default replacement template ({version} and {suffix} are substituted)",
		},
		&cli.StringFlag{
			Name:        "drop-revision",
			Usage:       "Revision policy for update files: keep, never, always",
			DefaultText: "keep",
		},
		&cli.BoolFlag{
			Name:  "touch-files",
			Usage: "Let rewritten files take the current time instead of their old time plus one second",
		},
		&cli.BoolFlag{
			Name:  "confirm",
			Usage: "Ask before writing update files",
		},
		&cli.StringFlag{
			Name:  "theme",
			Usage: "Prompt theme: stamp, base, base16, catppuccin, charm, dracula",
			Value: "stamp",
		},
	}
}
