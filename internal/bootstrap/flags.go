// Package bootstrap provides CLI flag and command definitions for jctl.
package bootstrap

import (
	urfavecli "github.com/urfave/cli/v3"
)

// GlobalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via Command.Version
func GlobalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "journal-dir",
			Aliases: []string{"d"},
			Usage:   "Override the journal directory",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Mirror debug messages to stderr",
		},
	}
}
