package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukex/hireflow/pkg/eventbus"
	"github.com/dukex/hireflow/pkg/events"
	"github.com/dukex/hireflow/pkg/listeners"
	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/persistence"
	"github.com/dukex/hireflow/pkg/protocol"
	"github.com/google/uuid"
)

func (e *Engine) succeed(ctx context.Context, execution *models.WorkflowExecution) error {
	now := e.clock.Now()
	execution.Log(now, models.LogLevelInfo, "", "Workflow completed successfully")
	execution.Finish(models.ExecutionStatusSuccess, now)

	if err := e.executions.Save(ctx, execution); err != nil {
		return fmt.Errorf("failed to persist execution: %w", err)
	}

	e.logger.InfoContext(ctx, "Workflow execution completed",
		"execution_id", execution.ID, "workflow_id", execution.WorkflowID, "duration_ms", *execution.DurationMs)

	e.publish(ctx, execution, events.ExecutionCompleted{
		BaseEvent:  e.baseEvent(events.ExecutionCompletedEvent, execution),
		DurationMs: *execution.DurationMs,
	})

	return nil
}

// fail records cause as the terminal error of the run. The message becomes
// the last log entry, attributed to nodeID when the failure came from a node.
func (e *Engine) fail(ctx context.Context, execution *models.WorkflowExecution, nodeID string, cause error) error {
	now := e.clock.Now()
	message := cause.Error()

	var nodeErr *protocol.NodeExecutionError
	if errors.As(cause, &nodeErr) {
		message = nodeErr.Err.Error()
	}

	execution.Error = message
	execution.Log(now, models.LogLevelError, nodeID, message)
	execution.Finish(models.ExecutionStatusFailed, now)

	e.logger.ErrorContext(ctx, "Workflow execution failed",
		"execution_id", execution.ID, "workflow_id", execution.WorkflowID, "node_id", nodeID, "error", cause)

	if err := e.executions.Save(ctx, execution); err != nil {
		return fmt.Errorf("failed to persist execution: %w", err)
	}

	e.publish(ctx, execution, events.ExecutionFailed{
		BaseEvent: e.baseEvent(events.ExecutionFailedEvent, execution),
		NodeID:    nodeID,
		Error:     message,
	})

	return nil
}

func (e *Engine) suspend(ctx context.Context, execution *models.WorkflowExecution) error {
	execution.Status = models.ExecutionStatusWaiting

	if err := e.executions.Save(ctx, execution); err != nil {
		return fmt.Errorf("failed to persist execution: %w", err)
	}

	event := events.ExecutionWaiting{BaseEvent: e.baseEvent(events.ExecutionWaitingEvent, execution)}
	if waiting := execution.WaitingForWebhook; waiting != nil {
		event.NodeID = waiting.NodeID
		event.WebhookURL = waiting.WebhookURL
	}

	e.logger.InfoContext(ctx, "Workflow execution waiting for webhook",
		"execution_id", execution.ID, "workflow_id", execution.WorkflowID, "node_id", event.NodeID)

	e.publish(ctx, execution, event)

	return nil
}

func (e *Engine) cancelled(ctx context.Context, execution *models.WorkflowExecution, nodeID, message string) error {
	now := e.clock.Now()
	execution.Log(now, models.LogLevelWarning, nodeID, message)
	execution.Finish(models.ExecutionStatusCancelled, now)

	if err := e.executions.Save(ctx, execution); err != nil {
		return fmt.Errorf("failed to persist execution: %w", err)
	}

	e.logger.InfoContext(ctx, "Workflow execution cancelled",
		"execution_id", execution.ID, "workflow_id", execution.WorkflowID, "node_id", nodeID)

	e.publish(ctx, execution, events.ExecutionCancelled{
		BaseEvent: e.baseEvent(events.ExecutionCancelledEvent, execution),
		Reason:    message,
	})

	return nil
}

// Cancel stops a running or waiting execution. A run executing in this process
// is interrupted and finalized by its own loop; a waiting run is finalized
// here and its listeners are released. A waiting run whose listener was
// consumed by a resume that never took over is cancelled as well.
func (e *Engine) Cancel(ctx context.Context, executionID string) (*models.WorkflowExecution, error) {
	execution, settled, err := e.interrupt(ctx, executionID)
	if err != nil || settled {
		return execution, err
	}

	if execution.Status.Terminal() {
		return nil, fmt.Errorf("%w: execution %s is %s", ErrNotCancellable, executionID, execution.Status)
	}

	if waiting := execution.WaitingForWebhook; execution.Status == models.ExecutionStatusWaiting && waiting != nil {
		claimed, err := e.listeners.Deactivate(ctx, waiting.WebhookURL)
		if err != nil && !persistence.IsListenerNotFound(err) {
			return nil, err
		}

		if err == nil && !claimed {
			// a callback consumed the listener first; follow the run it started
			execution, settled, err = e.interrupt(ctx, executionID)
			if err != nil || settled {
				return execution, err
			}

			if execution.Status != models.ExecutionStatusWaiting {
				return nil, fmt.Errorf("%w: execution %s was resumed concurrently", ErrNotCancellable, executionID)
			}
		}
	}

	if err := e.listeners.DeactivateExecution(ctx, executionID); err != nil {
		return nil, err
	}

	if err := e.cancelled(ctx, execution, "", "Execution cancelled"); err != nil {
		return nil, err
	}

	return execution, nil
}

// interrupt cancels the run of executionID in flight in this process, if any,
// and loads the stored record. settled reports that the interrupted run
// already finished the execution.
func (e *Engine) interrupt(ctx context.Context, executionID string) (*models.WorkflowExecution, bool, error) {
	interrupted, err := e.cancelInFlight(ctx, executionID)
	if err != nil {
		return nil, false, err
	}

	execution, err := e.Execution(ctx, executionID)
	if err != nil {
		return nil, false, err
	}

	return execution, interrupted && execution.Status.Terminal(), nil
}

// ExpireListeners sweeps expired webhook listeners and cancels the executions
// waiting on them. It returns how many listeners expired.
func (e *Engine) ExpireListeners(ctx context.Context) (int, error) {
	return e.listeners.Expire(ctx, e.timeout)
}

func (e *Engine) timeout(ctx context.Context, listener *models.WebhookListener) error {
	execution, err := e.executions.GetByID(ctx, listener.ExecutionID)
	if persistence.IsExecutionNotFound(err) {
		return nil
	}

	if err != nil {
		return err
	}

	waiting := execution.WaitingForWebhook
	if execution.Status != models.ExecutionStatusWaiting || waiting == nil || waiting.NodeID != listener.NodeID {
		return nil
	}

	if err := e.cancelled(ctx, execution, listener.NodeID, "Webhook listener timed out"); err != nil {
		return err
	}

	e.publish(ctx, execution, events.ExecutionTimeout{
		BaseEvent:  e.baseEvent(events.ExecutionTimeoutEvent, execution),
		NodeID:     listener.NodeID,
		WebhookURL: listener.WebhookURL,
	})

	return nil
}

func (e *Engine) touchLastRun(ctx context.Context, workflowID string, now time.Time) {
	if workflowID == "" {
		return
	}

	workflow, err := e.workflows.GetByID(ctx, workflowID)
	if err != nil {
		if !persistence.IsWorkflowNotFound(err) {
			e.logger.WarnContext(ctx, "Failed to load workflow for last run update", "workflow_id", workflowID, "error", err)
		}

		return
	}

	workflow.LastRun = &now

	if err := e.workflows.Save(ctx, workflow); err != nil {
		e.logger.WarnContext(ctx, "Failed to update workflow last run", "workflow_id", workflowID, "error", err)
	}
}

func (e *Engine) baseEvent(eventType events.EventType, execution *models.WorkflowExecution) events.BaseEvent {
	return events.NewBaseEvent(uuid.New().String(), eventType, execution, e.clock.Now())
}

// publish never fails a run; delivery problems are only logged.
func (e *Engine) publish(ctx context.Context, execution *models.WorkflowExecution, event eventbus.Event) {
	if e.publisher == nil {
		return
	}

	if err := e.publisher.Publish(ctx, execution.ID, event); err != nil {
		e.logger.WarnContext(ctx, "Failed to publish execution event",
			"execution_id", execution.ID, "event_type", event.GetType(), "error", err)
	}
}

func validatePayload(schema map[string]any, payload map[string]any) error {
	return listeners.ValidatePayload(schema, payload)
}
