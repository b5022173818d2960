package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dukex/hireflow/pkg/clock"
	"github.com/dukex/hireflow/pkg/cmd"
	"github.com/dukex/hireflow/pkg/engine"
	"github.com/dukex/hireflow/pkg/eventbus"
	"github.com/dukex/hireflow/pkg/listeners"
	"github.com/dukex/hireflow/pkg/otelhelper"
	"github.com/dukex/hireflow/pkg/persistence"
	"github.com/dukex/hireflow/pkg/registry"
	"github.com/urfave/cli/v3"
)

// app holds the components shared by serve and run.
type app struct {
	logger      *slog.Logger
	clock       clock.Clock
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	listeners   *listeners.Registry
	registry    *registry.Registry
	engine      *engine.Engine

	closers []func(ctx context.Context) error
}

func newApp(ctx context.Context, command *cli.Command, logger *slog.Logger) (_ *app, err error) {
	a := &app{logger: logger, clock: clock.New()}

	defer func() {
		if err != nil {
			a.close(context.WithoutCancel(ctx))
		}
	}()

	a.persistence, err = cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return nil, err
	}

	a.closers = append(a.closers, a.persistence.Close)

	if provider := command.String("event-bus"); provider != "none" {
		a.eventBus, err = cmd.NewEventBus(provider, command.String("kafka-brokers"), logger)
		if err != nil {
			return nil, err
		}

		a.closers = append(a.closers, func(context.Context) error { return a.eventBus.Close() })
	}

	tracer := otelhelper.NoopTracer()

	if command.Bool("otel") {
		var shutdown otelhelper.ShutdownFunc

		tracer, shutdown, err = otelhelper.NewTracer(ctx, "hireflow")
		if err != nil {
			return nil, err
		}

		a.closers = append(a.closers, shutdown)
	}

	a.listeners = listeners.NewRegistry(logger, a.persistence.WebhookListenerRepository(), command.String("origin"), a.clock)

	a.registry, err = cmd.NewRegistry(logger, cmd.ProviderConfig{
		URL:     command.String("provider-url"),
		APIKey:  command.String("provider-api-key"),
		Timeout: command.Duration("provider-timeout"),
	}, a.listeners, a.clock)
	if err != nil {
		return nil, err
	}

	a.engine = engine.New(engine.Config{
		Registry:    a.registry,
		Persistence: a.persistence,
		Listeners:   a.listeners,
		Publisher:   a.publisher(),
		Tracer:      tracer,
		Clock:       a.clock,
		Logger:      logger,
	})
	a.closers = append(a.closers, a.engine.Shutdown)

	return a, nil
}

//nolint:ireturn // nil when no event bus is configured
func (a *app) publisher() eventbus.EventPublisher {
	if a.eventBus == nil {
		return nil
	}

	return a.eventBus
}

// close releases components in reverse order of creation.
func (a *app) close(ctx context.Context) {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		a.logger.ErrorContext(ctx, "Failed to shut down cleanly", "error", err)
	}
}
