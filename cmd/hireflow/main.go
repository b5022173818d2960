// Package main provides the hireflow command: the API server plus one-off
// run and validate helpers for workflow files.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:                  "hireflow",
		Usage:                 "Run recruiting workflows",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			NewServeCommand(),
			NewRunCommand(),
			NewValidateCommand(),
		},
	}
}
