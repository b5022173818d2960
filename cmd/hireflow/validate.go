package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukex/hireflow/pkg/graph"
	"github.com/dukex/hireflow/pkg/log"
	"github.com/dukex/hireflow/pkg/registry"
	"github.com/dukex/hireflow/pkg/services"
	"github.com/dukex/hireflow/pkg/workflow"
	"github.com/urfave/cli/v3"
)

var ErrInvalidWorkflows = errors.New("invalid workflows found")

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Check workflow files for unknown node types and graph errors",
		ArgsUsage: "<workflow.yaml>...",
		Flags:     logFlags(),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"), command.String("log-format"))

			logger := log.WithModule("validate")

			if command.NArg() == 0 {
				return ErrMissingWorkflowFile
			}

			nodes := registry.NewRegistry(logger)
			nodes.RegisterDefaultNodes(registry.Dependencies{Logger: logger})

			workflowService := services.NewWorkflow(nil, nodes, nil)
			out := command.Root().Writer
			invalid := 0

			for _, path := range command.Args().Slice() {
				wf, err := workflow.Load(path)
				if err == nil {
					var report *graph.Report

					report, err = workflowService.Validate(wf)
					if err == nil {
						for _, warning := range report.Warnings {
							fmt.Fprintf(out, "%s: warning: %s\n", path, warning)
						}
					}
				}

				if err != nil {
					invalid++

					fmt.Fprintf(out, "%s: %s\n", path, err)
					logger.DebugContext(ctx, "Invalid workflow", "path", path, "error", err)

					continue
				}

				fmt.Fprintf(out, "%s: ok\n", path)
			}

			if invalid > 0 {
				return fmt.Errorf("%w: %d of %d", ErrInvalidWorkflows, invalid, command.NArg())
			}

			return nil
		},
	}
}
