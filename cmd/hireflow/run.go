package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dukex/hireflow/pkg/log"
	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/services"
	"github.com/dukex/hireflow/pkg/workflow"
	"github.com/urfave/cli/v3"
)

var (
	ErrMissingWorkflowFile = errors.New("workflow file argument is required")
	ErrExecutionFailed     = errors.New("execution failed")
)

func NewRunCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "variables",
			Usage: "JSON object of initial workflow variables",
		},
		&cli.StringFlag{
			Name:  "candidate",
			Usage: "JSON object with candidate data",
		},
		&cli.StringFlag{
			Name:  "job",
			Usage: "JSON object with job data",
		},
		&cli.StringFlag{
			Name:  "triggered-by",
			Usage: "Who or what started the run",
			Value: "cli",
		},
	}

	flags = append(flags, engineFlags()...)
	flags = append(flags, logFlags()...)

	return &cli.Command{
		Name:      "run",
		Aliases:   []string{"r"},
		Usage:     "Execute a workflow file once and print the execution",
		ArgsUsage: "<workflow.yaml>",
		Flags:     flags,
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"), command.String("log-format"))

			logger := log.WithModule("run")

			path := command.Args().First()
			if path == "" {
				return ErrMissingWorkflowFile
			}

			wf, err := workflow.Load(path)
			if err != nil {
				return err
			}

			execCtx, err := executionContextFromFlags(command)
			if err != nil {
				return err
			}

			a, err := newApp(ctx, command, logger)
			if err != nil {
				return err
			}
			defer a.close(context.WithoutCancel(ctx))

			report, err := services.NewWorkflow(a.persistence, a.registry, a.clock).Validate(wf)
			if err != nil {
				return err
			}

			for _, warning := range report.Warnings {
				logger.WarnContext(ctx, "Workflow warning", "warning", warning.Error())
			}

			execution, err := a.engine.Execute(ctx, wf, execCtx, command.String("triggered-by"))
			if execution == nil {
				return err
			}

			encoder := json.NewEncoder(command.Root().Writer)
			encoder.SetIndent("", "  ")

			if encodeErr := encoder.Encode(execution); encodeErr != nil {
				return encodeErr
			}

			if execution.WaitingForWebhook != nil {
				logger.InfoContext(ctx, "Execution is waiting for a webhook",
					"execution_id", execution.ID, "webhook_url", execution.WaitingForWebhook.WebhookURL)
			}

			if execution.Status == models.ExecutionStatusFailed {
				return fmt.Errorf("%w: %s", ErrExecutionFailed, execution.ID)
			}

			return err
		},
	}
}

func executionContextFromFlags(command *cli.Command) (models.ExecutionContext, error) {
	objects := make(map[string]map[string]any, 3)

	for _, name := range []string{"variables", "candidate", "job"} {
		raw := command.String(name)
		if raw == "" {
			continue
		}

		var value map[string]any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return models.ExecutionContext{}, fmt.Errorf("--%s must be a JSON object: %w", name, err)
		}

		objects[name] = value
	}

	return models.NewExecutionContext(objects["variables"], objects["candidate"], objects["job"]), nil
}
