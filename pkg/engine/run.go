package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dukex/hireflow/pkg/events"
	"github.com/dukex/hireflow/pkg/graph"
	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/otelhelper"
	"github.com/dukex/hireflow/pkg/persistence"
	"github.com/dukex/hireflow/pkg/protocol"
	"go.opentelemetry.io/otel/attribute"
)

// Execute starts a run of workflow and drives it until it reaches a terminal
// state or suspends on a webhook listener. Node failures are reported through
// the returned execution's status and logs; the error is reserved for
// persistence failures.
func (e *Engine) Execute(ctx context.Context, workflow *models.Workflow, execCtx models.ExecutionContext, triggeredBy string) (*models.WorkflowExecution, error) {
	execution, cont, err := e.begin(ctx, workflow, execCtx, triggeredBy)
	if err != nil {
		return nil, err
	}

	return execution, cont(ctx)
}

// ExecuteAsync creates and persists the execution, then drives it in the
// background. The returned copy reflects the record at the time the run
// started.
func (e *Engine) ExecuteAsync(ctx context.Context, workflow *models.Workflow, execCtx models.ExecutionContext, triggeredBy string) (*models.WorkflowExecution, error) {
	execution, cont, err := e.begin(ctx, workflow, execCtx, triggeredBy)
	if err != nil {
		return nil, err
	}

	snapshot := execution.Clone()
	e.background(execution, cont)

	return snapshot, nil
}

func (e *Engine) begin(ctx context.Context, workflow *models.Workflow, execCtx models.ExecutionContext, triggeredBy string) (*models.WorkflowExecution, continuation, error) {
	now := e.clock.Now()
	execution := models.NewWorkflowExecution(workflow, execCtx, triggeredBy, now)

	logger := e.logger.With("execution_id", execution.ID, "workflow_id", workflow.ID)
	logger.InfoContext(ctx, "Starting workflow execution", "triggered_by", triggeredBy)

	execution.Log(now, models.LogLevelInfo, "", fmt.Sprintf("Starting workflow %s", workflow.Name))

	if err := e.executions.Save(ctx, execution); err != nil {
		return nil, nil, fmt.Errorf("failed to persist execution: %w", err)
	}

	e.touchLastRun(ctx, workflow.ID, now)
	e.publish(ctx, execution, events.ExecutionStarted{
		BaseEvent:   e.baseEvent(events.ExecutionStartedEvent, execution),
		TriggeredBy: triggeredBy,
	})

	done := e.track(execution.ID)

	return execution, func(ctx context.Context) error {
		runCtx, finish := done(ctx)
		defer finish()

		ctx, span := otelhelper.StartSpan(runCtx, e.tracer, "workflow.execute",
			attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
			attribute.String(otelhelper.WorkflowNameKey, workflow.Name),
			attribute.String(otelhelper.ExecutionIDKey, execution.ID),
			attribute.String(otelhelper.TriggeredByKey, triggeredBy),
		)
		defer span.End()

		store := context.WithoutCancel(ctx)

		g, err := graph.FromSnapshot(execution.Graph)
		if err != nil {
			return e.fail(store, execution, "", err)
		}

		start, err := g.Start()
		if err != nil {
			return e.fail(store, execution, "", err)
		}

		err = e.drive(ctx, execution, g, []string{start.ID})
		if err != nil {
			otelhelper.SetError(span, err)
		}

		span.SetAttributes(attribute.String(otelhelper.StatusKey, string(execution.Status)))

		return err
	}, nil
}

// Resume continues the execution waiting on its current webhook listener.
func (e *Engine) Resume(ctx context.Context, executionID string, payload map[string]any) (*models.WorkflowExecution, error) {
	execution, err := e.Execution(ctx, executionID)
	if err != nil {
		return nil, err
	}

	if execution.Status != models.ExecutionStatusWaiting || execution.WaitingForWebhook == nil {
		return nil, fmt.Errorf("%w: execution %s is %s", ErrNotWaiting, executionID, execution.Status)
	}

	return e.ResumeWebhook(ctx, executionID, execution.WaitingForWebhook.NodeID, payload)
}

// ResumeWebhook handles a callback on {origin}/api/webhook/{executionID}/{nodeID}.
// The listener is consumed before traversal continues, so of several
// concurrent callbacks exactly one resumes the run and the others get
// ErrNotFound.
func (e *Engine) ResumeWebhook(ctx context.Context, executionID, nodeID string, payload map[string]any) (*models.WorkflowExecution, error) {
	execution, cont, err := e.claim(ctx, executionID, nodeID, payload)
	if err != nil {
		return nil, err
	}

	return execution, cont(ctx)
}

// ResumeWebhookAsync claims the listener and merges the payload like
// ResumeWebhook, then continues the run in the background.
func (e *Engine) ResumeWebhookAsync(ctx context.Context, executionID, nodeID string, payload map[string]any) (*models.WorkflowExecution, error) {
	execution, cont, err := e.claim(ctx, executionID, nodeID, payload)
	if err != nil {
		return nil, err
	}

	snapshot := execution.Clone()
	e.background(execution, cont)

	return snapshot, nil
}

func (e *Engine) claim(ctx context.Context, executionID, nodeID string, payload map[string]any) (*models.WorkflowExecution, continuation, error) {
	listener, err := e.listeners.FindFor(ctx, executionID, nodeID)
	if persistence.IsListenerNotFound(err) {
		return nil, nil, fmt.Errorf("%w: no webhook listener for %s/%s", ErrNotFound, executionID, nodeID)
	}

	if err != nil {
		return nil, nil, err
	}

	if !listener.IsActive {
		return nil, nil, fmt.Errorf("%w: webhook listener for %s/%s already consumed", ErrNotFound, executionID, nodeID)
	}

	execution, err := e.Execution(ctx, executionID)
	if err != nil {
		return nil, nil, err
	}

	waiting := execution.WaitingForWebhook
	if execution.Status != models.ExecutionStatusWaiting || waiting == nil || waiting.NodeID != nodeID {
		return nil, nil, fmt.Errorf("%w: execution %s is %s", ErrNotWaiting, executionID, execution.Status)
	}

	if err := validatePayload(waiting.ExpectedPayload, payload); err != nil {
		return nil, nil, err
	}

	claimed, err := e.listeners.Deactivate(ctx, listener.WebhookURL)
	if err != nil {
		return nil, nil, err
	}

	if !claimed {
		return nil, nil, fmt.Errorf("%w: webhook listener for %s/%s already consumed", ErrNotFound, executionID, nodeID)
	}

	e.logger.InfoContext(ctx, "Resuming execution from webhook",
		"execution_id", execution.ID, "workflow_id", execution.WorkflowID, "node_id", nodeID)

	execution.Context.Merge(payload)
	execution.Status = models.ExecutionStatusRunning
	execution.WaitingForWebhook = nil
	execution.Log(e.clock.Now(), models.LogLevelInfo, nodeID, "Webhook received, resuming workflow")

	pending := execution.Pending
	execution.Pending = nil

	// registered before the save so a concurrent Cancel waits for this claim
	done := e.track(execution.ID)

	if err := e.executions.Save(ctx, execution); err != nil {
		if rerr := e.listeners.Reactivate(context.WithoutCancel(ctx), listener); rerr != nil {
			e.logger.ErrorContext(ctx, "Failed to reactivate webhook listener",
				"execution_id", executionID, "node_id", nodeID, "error", rerr)
		}

		_, release := done(ctx)
		release()

		return nil, nil, fmt.Errorf("failed to persist execution: %w", err)
	}

	e.publish(ctx, execution, events.ExecutionResumed{
		BaseEvent: e.baseEvent(events.ExecutionResumedEvent, execution),
		NodeID:    nodeID,
	})

	return execution, func(ctx context.Context) error {
		runCtx, finish := done(ctx)
		defer finish()

		ctx, span := otelhelper.StartSpan(runCtx, e.tracer, "workflow.resume",
			attribute.String(otelhelper.WorkflowIDKey, execution.WorkflowID),
			attribute.String(otelhelper.ExecutionIDKey, execution.ID),
			attribute.String(otelhelper.NodeIDKey, nodeID),
		)
		defer span.End()

		g, err := graph.FromSnapshot(execution.Graph)
		if err != nil {
			return e.fail(context.WithoutCancel(ctx), execution, nodeID, err)
		}

		stack := push(slices.Clone(pending), g.Successors(nodeID))

		err = e.drive(ctx, execution, g, stack)
		if err != nil {
			otelhelper.SetError(span, err)
		}

		span.SetAttributes(attribute.String(otelhelper.StatusKey, string(execution.Status)))

		return err
	}, nil
}

// drive pops node ids off stack until it is empty (success), a node suspends
// (waiting), a node fails (failed) or ctx is cancelled (cancelled). Successors
// are pushed in reverse so the first declared connection runs first, giving a
// depth-first pre-order walk.
func (e *Engine) drive(ctx context.Context, execution *models.WorkflowExecution, g *graph.Graph, stack []string) error {
	store := context.WithoutCancel(ctx)

	for len(stack) > 0 {
		if ctx.Err() != nil {
			return e.cancelled(store, execution, "", "Execution cancelled")
		}

		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if execution.HasVisited(id) {
			continue
		}

		node, ok := g.Node(id)
		if !ok {
			return e.fail(store, execution, id, fmt.Errorf("%w: %s", graph.ErrDanglingConnection, id))
		}

		execution.Visited = append(execution.Visited, id)

		result, err := e.executeNode(ctx, execution, node)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, context.Canceled) {
				return e.cancelled(store, execution, id, "Execution cancelled")
			}

			return e.fail(store, execution, id, err)
		}

		if result.Suspend {
			execution.Pending = slices.Clone(stack)

			return e.suspend(store, execution)
		}

		if err := e.executions.Save(store, execution); err != nil {
			return fmt.Errorf("failed to persist execution: %w", err)
		}

		if node.Type == models.NodeTypeEnd {
			continue
		}

		stack = push(stack, follow(g, id, result.Branch))
	}

	return e.succeed(store, execution)
}

func (e *Engine) executeNode(ctx context.Context, execution *models.WorkflowExecution, node *models.WorkflowNode) (protocol.Result, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "node.execute",
		attribute.String(otelhelper.ExecutionIDKey, execution.ID),
		attribute.String(otelhelper.NodeIDKey, node.ID),
		attribute.String(otelhelper.NodeTypeKey, string(node.Type)),
	)
	defer span.End()

	e.logger.DebugContext(ctx, "Executing node",
		"execution_id", execution.ID, "node_id", node.ID, "node_type", node.Type)

	handler, err := e.registry.CreateNode(ctx, node)
	if err != nil {
		otelhelper.SetError(span, err)

		return protocol.Continue, &protocol.NodeExecutionError{NodeID: node.ID, NodeType: node.Type, Err: err}
	}

	run := &protocol.Run{Node: node, Execution: execution, Clock: e.clock}

	result, err := handler.Execute(ctx, run)
	if err != nil {
		otelhelper.SetError(span, err)

		return protocol.Continue, &protocol.NodeExecutionError{NodeID: node.ID, NodeType: node.Type, Err: err}
	}

	return result, nil
}

// follow returns the successors to walk after nodeID: every untagged
// connection plus, when branch is set, the connections tagged with it.
func follow(g *graph.Graph, nodeID, branch string) []string {
	outgoing := g.Outgoing(nodeID)
	next := make([]string, 0, len(outgoing))

	for _, conn := range outgoing {
		if branch == "" || conn.Branch == "" || conn.Branch == branch {
			next = append(next, conn.To)
		}
	}

	return next
}

// push adds ids to stack so that ids[0] is popped first.
func push(stack []string, ids []string) []string {
	for i := len(ids) - 1; i >= 0; i-- {
		stack = append(stack, ids[i])
	}

	return stack
}
