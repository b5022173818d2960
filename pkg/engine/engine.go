// Package engine drives workflow executions: it walks the graph depth-first,
// dispatches nodes to their handlers, suspends on webhook listeners and
// resumes when the callback arrives.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dukex/hireflow/pkg/clock"
	"github.com/dukex/hireflow/pkg/eventbus"
	"github.com/dukex/hireflow/pkg/listeners"
	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/otelhelper"
	"github.com/dukex/hireflow/pkg/persistence"
	"github.com/dukex/hireflow/pkg/registry"
	"go.opentelemetry.io/otel/trace"
)

// Config holds the engine's collaborators. Publisher, Tracer, Clock and
// Logger are optional.
type Config struct {
	Registry    *registry.Registry
	Persistence persistence.Persistence
	Listeners   *listeners.Registry
	Publisher   eventbus.EventPublisher
	Tracer      trace.Tracer
	Clock       clock.Clock
	Logger      *slog.Logger
}

type Engine struct {
	registry   *registry.Registry
	workflows  persistence.WorkflowRepository
	executions persistence.ExecutionRepository
	listeners  *listeners.Registry
	publisher  eventbus.EventPublisher
	tracer     trace.Tracer
	clock      clock.Clock
	logger     *slog.Logger

	mu       sync.Mutex
	inflight map[string]*inflightRun

	base context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// continuation drives an already persisted execution forward.
type continuation func(ctx context.Context) error

type inflightRun struct {
	mu        sync.Mutex
	cancel    context.CancelFunc
	cancelled bool
	done      chan struct{}
}

func New(cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	if cfg.Tracer == nil {
		cfg.Tracer = otelhelper.NoopTracer()
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	base, stop := context.WithCancel(context.Background())

	return &Engine{
		base:       base,
		stop:       stop,
		registry:   cfg.Registry,
		workflows:  cfg.Persistence.WorkflowRepository(),
		executions: cfg.Persistence.ExecutionRepository(),
		listeners:  cfg.Listeners,
		publisher:  cfg.Publisher,
		tracer:     cfg.Tracer,
		clock:      cfg.Clock,
		logger:     cfg.Logger.With("module", "engine"),
		inflight:   make(map[string]*inflightRun),
	}
}

// Executions returns the retained executions, most recent first.
func (e *Engine) Executions(ctx context.Context) ([]*models.WorkflowExecution, error) {
	return e.executions.List(ctx)
}

// Execution returns one retained execution or ErrNotFound.
func (e *Engine) Execution(ctx context.Context, id string) (*models.WorkflowExecution, error) {
	execution, err := e.executions.GetByID(ctx, id)
	if persistence.IsExecutionNotFound(err) {
		return nil, fmt.Errorf("%w: execution %s", ErrNotFound, id)
	}

	if err != nil {
		return nil, err
	}

	return execution, nil
}

// track registers a cancellable run for executionID. The run is visible to
// Cancel from this point on; the returned function derives its context and
// yields the function that unregisters it.
func (e *Engine) track(executionID string) func(ctx context.Context) (context.Context, func()) {
	run := &inflightRun{done: make(chan struct{})}

	e.mu.Lock()
	e.inflight[executionID] = run
	e.mu.Unlock()

	return func(ctx context.Context) (context.Context, func()) {
		runCtx, cancel := context.WithCancel(ctx)

		run.mu.Lock()
		run.cancel = cancel
		if run.cancelled {
			cancel()
		}
		run.mu.Unlock()

		return runCtx, func() {
			e.mu.Lock()
			if e.inflight[executionID] == run {
				delete(e.inflight, executionID)
			}
			e.mu.Unlock()

			cancel()
			close(run.done)
		}
	}
}

// cancelInFlight cancels a run executing in this process and waits for it to
// settle. It reports false when no such run exists.
func (e *Engine) cancelInFlight(ctx context.Context, executionID string) (bool, error) {
	e.mu.Lock()
	run, ok := e.inflight[executionID]
	e.mu.Unlock()

	if !ok {
		return false, nil
	}

	run.mu.Lock()
	run.cancelled = true
	if run.cancel != nil {
		run.cancel()
	}
	run.mu.Unlock()

	select {
	case <-run.done:
		return true, nil
	case <-ctx.Done():
		return true, ctx.Err()
	}
}

func (e *Engine) background(execution *models.WorkflowExecution, cont continuation) {
	e.wg.Add(1)

	go func() {
		defer e.wg.Done()

		if err := cont(e.base); err != nil {
			e.logger.Error("Background execution failed",
				"execution_id", execution.ID, "workflow_id", execution.WorkflowID, "error", err)
		}
	}()
}

// Shutdown cancels every background run and waits for them to settle or for
// ctx to be done. Interrupted runs are recorded as cancelled.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.stop()

	done := make(chan struct{})

	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
