// Package main is the entry point for the fsentity command.
package main

import (
	"fmt"
	"os"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, l10n.F("Error: %v", err))
		os.Exit(1)
	}
}

func newApp() *cli.App {
	st := &state{}
	return &cli.App{
		Name:    "fsentity",
		Usage:   l10n.T("Inspect and edit filesystem entities"),
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   l10n.T("Configuration file path"),
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   l10n.T("Workspace root directory"),
			},
			&cli.StringFlag{
				Name:  "git-ref",
				Usage: l10n.T("Read entities from this git ref (read-only)"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   l10n.T("Log level (debug, info, warn, error, quiet)"),
			},
			&cli.StringFlag{
				Name:  "format",
				Value: formatAuto,
				Usage: l10n.T("Entity format (auto, serial, source)"),
			},
		},
		Before: st.setup,
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     l10n.T("Load an entity and print its value"),
				ArgsUsage: "PATH",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "php", Usage: l10n.T("Print the value as a PHP literal")},
				},
				Action: st.get,
			},
			{
				Name:      "set",
				Usage:     l10n.T("Set an entity's value and save it"),
				ArgsUsage: "PATH VALUE",
				Action:    st.set,
			},
			{
				Name:      "rm",
				Usage:     l10n.T("Delete an entity's file"),
				ArgsUsage: "PATH",
				Action:    st.rm,
			},
			{
				Name:      "eval",
				Usage:     l10n.T("Evaluate a PHP return-file"),
				ArgsUsage: "PATH",
				Action:    st.eval,
			},
			{
				Name:      "ls",
				Usage:     l10n.T("List a directory"),
				ArgsUsage: "[PATH]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "order", Aliases: []string{"o"}, Value: "asc", Usage: l10n.T("Sort order (asc, desc, none)")},
					&cli.BoolFlag{Name: "recursive", Aliases: []string{"R"}, Usage: l10n.T("Descend into subdirectories")},
				},
				Action: st.ls,
			},
			{
				Name:      "mkdir",
				Usage:     l10n.T("Create a directory"),
				ArgsUsage: "PATH",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: l10n.T("Directory permissions in octal (default: dir_mode)")},
				},
				Action: st.mkdir,
			},
			{
				Name:  "serve",
				Usage: l10n.T("Serve the workspace over HTTP"),
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: l10n.T("HTTP server port")},
				},
				Action: st.serve,
			},
		},
	}
}
