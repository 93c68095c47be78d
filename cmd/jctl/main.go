// Package main is the entry point for the jctl journal manager.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	urfavecli "github.com/urfave/cli/v3"

	"github.com/chmouel/jctl/internal/bootstrap"
	"github.com/chmouel/jctl/internal/buildinfo"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date)

	root := &urfavecli.Command{
		Name:                  "jctl",
		Usage:                 "Manage a journal of dated entries recorded with git",
		Version:               buildinfo.Get().String(),
		EnableShellCompletion: true,
		Flags:                 bootstrap.GlobalFlags(),
		Commands:              bootstrap.Commands(),
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		code := 1
		var coder urfavecli.ExitCoder
		if errors.As(err, &coder) {
			code = coder.ExitCode()
		}
		os.Exit(code)
	}
}
