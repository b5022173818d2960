package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dukex/hireflow/pkg/eventbus"
	"github.com/dukex/hireflow/pkg/events"
	"github.com/dukex/hireflow/pkg/log"
	"github.com/dukex/hireflow/pkg/scheduler"
	"github.com/gofiber/fiber/v3"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 30 * time.Second

func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the API server and the webhook listener sweeper",
		Flags:   serveFlags(),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"), command.String("log-format"))

			logger := log.WithModule("api")
			logger.InfoContext(ctx, "Initializing Hireflow API")

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, command, logger)
			if err != nil {
				return err
			}

			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
				defer cancel()

				a.close(shutdownCtx)
			}()

			if a.eventBus != nil {
				if err := subscribeAuditLog(ctx, a.eventBus); err != nil {
					return err
				}
			}

			sweeper, err := scheduler.NewSweeper(command.String("sweep-schedule"), a.engine, log.WithModule("sweeper"))
			if err != nil {
				return err
			}

			if err := sweeper.Start(ctx); err != nil {
				return err
			}

			defer func() {
				if err := sweeper.Stop(context.WithoutCancel(ctx)); err != nil {
					logger.ErrorContext(ctx, "Failed to stop sweeper", "error", err)
				}
			}()

			server := NewAPI(a).App()

			listenErr := make(chan error, 1)

			go func() {
				listenErr <- server.Listen(":"+strconv.Itoa(command.Int("port")), fiber.ListenConfig{
					DisableStartupMessage: true,
				})
			}()

			logger.InfoContext(ctx, "Hireflow API listening", "port", command.Int("port"))

			select {
			case err := <-listenErr:
				return err
			case <-ctx.Done():
			}

			logger.InfoContext(ctx, "Shutting down Hireflow API")

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()

			if err := server.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			return nil
		},
	}
}

// subscribeAuditLog logs every execution lifecycle event received from the bus.
func subscribeAuditLog(ctx context.Context, bus eventbus.EventBus) error {
	logger := log.WithModule("events")

	for _, eventType := range []events.EventType{
		events.ExecutionStartedEvent,
		events.ExecutionWaitingEvent,
		events.ExecutionResumedEvent,
		events.ExecutionCompletedEvent,
		events.ExecutionFailedEvent,
		events.ExecutionCancelledEvent,
		events.ExecutionTimeoutEvent,
	} {
		err := bus.Handle(eventType, func(ctx context.Context, event any) error {
			logger.InfoContext(ctx, "Execution event", "event_type", eventType, "event", event)

			return nil
		})
		if err != nil {
			return err
		}
	}

	return bus.Subscribe(ctx)
}
