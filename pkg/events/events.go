// Package events defines the execution lifecycle events published to the bus.
package events

import (
	"time"

	"github.com/dukex/hireflow/pkg/models"
)

type EventType string

// Topic carries every execution lifecycle event.
const Topic = "hireflow.executions"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ExecutionStartedEvent   EventType = "execution.started"
	ExecutionWaitingEvent   EventType = "execution.waiting"
	ExecutionResumedEvent   EventType = "execution.resumed"
	ExecutionCompletedEvent EventType = "execution.completed"
	ExecutionFailedEvent    EventType = "execution.failed"
	ExecutionCancelledEvent EventType = "execution.cancelled"
	ExecutionTimeoutEvent   EventType = "execution.timeout"
)

type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	WorkflowID  string    `json:"workflow_id"`
	ExecutionID string    `json:"execution_id"`
}

// NewBaseEvent fills the common fields from execution.
func NewBaseEvent(id string, eventType EventType, execution *models.WorkflowExecution, now time.Time) BaseEvent {
	return BaseEvent{
		ID:          id,
		Type:        eventType,
		Timestamp:   now,
		WorkflowID:  execution.WorkflowID,
		ExecutionID: execution.ID,
	}
}

type ExecutionStarted struct {
	BaseEvent

	TriggeredBy string `json:"triggered_by,omitempty"`
}

func (ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

type ExecutionWaiting struct {
	BaseEvent

	NodeID     string `json:"node_id"`
	WebhookURL string `json:"webhook_url"`
}

func (ExecutionWaiting) GetType() EventType {
	return ExecutionWaitingEvent
}

type ExecutionResumed struct {
	BaseEvent

	NodeID string `json:"node_id"`
}

func (ExecutionResumed) GetType() EventType {
	return ExecutionResumedEvent
}

type ExecutionCompleted struct {
	BaseEvent

	DurationMs int64 `json:"duration_ms"`
}

func (ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

type ExecutionFailed struct {
	BaseEvent

	NodeID string `json:"node_id,omitempty"`
	Error  string `json:"error"`
}

func (ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

type ExecutionCancelled struct {
	BaseEvent

	Reason string `json:"reason,omitempty"`
}

func (ExecutionCancelled) GetType() EventType {
	return ExecutionCancelledEvent
}

// ExecutionTimeout is published when a webhook listener expires and the
// waiting execution is cancelled.
type ExecutionTimeout struct {
	BaseEvent

	NodeID     string `json:"node_id"`
	WebhookURL string `json:"webhook_url"`
}

func (ExecutionTimeout) GetType() EventType {
	return ExecutionTimeoutEvent
}

// New returns an empty event value for eventType, ready to be unmarshalled into.
func New(eventType EventType) (any, bool) {
	switch eventType {
	case ExecutionStartedEvent:
		return &ExecutionStarted{}, true
	case ExecutionWaitingEvent:
		return &ExecutionWaiting{}, true
	case ExecutionResumedEvent:
		return &ExecutionResumed{}, true
	case ExecutionCompletedEvent:
		return &ExecutionCompleted{}, true
	case ExecutionFailedEvent:
		return &ExecutionFailed{}, true
	case ExecutionCancelledEvent:
		return &ExecutionCancelled{}, true
	case ExecutionTimeoutEvent:
		return &ExecutionTimeout{}, true
	default:
		return nil, false
	}
}
