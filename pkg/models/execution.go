package models

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// ExecutionStatus is the lifecycle state of a single workflow run.
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusWaiting   ExecutionStatus = "waiting"
	ExecutionStatusSuccess   ExecutionStatus = "success"
	ExecutionStatusFailed    ExecutionStatus = "failed"
	ExecutionStatusCancelled ExecutionStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed out of s.
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionStatusSuccess || s == ExecutionStatusFailed || s == ExecutionStatusCancelled
}

// LogLevel is the severity of an execution log entry.
type LogLevel string

const (
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// WorkflowLog is one append-only audit entry of an execution.
type WorkflowLog struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     LogLevel  `json:"level"`
	Message   string    `json:"message"`
	NodeID    string    `json:"node_id,omitempty"`
}

// WaitingForWebhook describes the callback a suspended execution is waiting on.
type WaitingForWebhook struct {
	NodeID          string         `json:"node_id"`
	WebhookURL      string         `json:"webhook_url"`
	ExpectedPayload map[string]any `json:"expected_payload,omitempty"`
}

// WorkflowExecution is the durable record of one run. It is written whole on
// every state transition and carries everything needed to resume.
type WorkflowExecution struct {
	ID                string             `json:"id"`
	WorkflowID        string             `json:"workflow_id"`
	Status            ExecutionStatus    `json:"status"`
	StartTime         time.Time          `json:"start_time"`
	EndTime           *time.Time         `json:"end_time,omitempty"`
	DurationMs        *int64             `json:"duration_ms,omitempty"`
	TriggeredBy       string             `json:"triggered_by"`
	Logs              []WorkflowLog      `json:"logs"`
	WaitingForWebhook *WaitingForWebhook `json:"waiting_for_webhook,omitempty"`
	Error             string             `json:"error,omitempty"`

	Context ExecutionContext `json:"context"`
	Graph   GraphSnapshot    `json:"graph"`
	Visited []string         `json:"visited,omitempty"`
	Pending []string         `json:"pending,omitempty"`
}

// NewWorkflowExecution creates a running execution for workflow.
func NewWorkflowExecution(workflow *Workflow, execCtx ExecutionContext, triggeredBy string, now time.Time) *WorkflowExecution {
	return &WorkflowExecution{
		ID:          uuid.New().String(),
		WorkflowID:  workflow.ID,
		Status:      ExecutionStatusRunning,
		StartTime:   now,
		TriggeredBy: triggeredBy,
		Logs:        make([]WorkflowLog, 0),
		Context:     execCtx,
		Graph:       workflow.Snapshot(),
	}
}

// Log appends an entry to the execution audit trail.
func (e *WorkflowExecution) Log(now time.Time, level LogLevel, nodeID, message string) {
	e.Logs = append(e.Logs, WorkflowLog{
		ID:        uuid.New().String(),
		Timestamp: now,
		Level:     level,
		Message:   message,
		NodeID:    nodeID,
	})
}

// Finish moves the execution into a terminal status and records its duration.
func (e *WorkflowExecution) Finish(status ExecutionStatus, now time.Time) {
	e.Status = status
	e.WaitingForWebhook = nil
	e.Pending = nil
	e.EndTime = &now

	duration := now.Sub(e.StartTime).Milliseconds()
	e.DurationMs = &duration
}

// HasVisited reports whether nodeID already ran in this execution.
func (e *WorkflowExecution) HasVisited(nodeID string) bool {
	for _, id := range e.Visited {
		if id == nodeID {
			return true
		}
	}

	return false
}

// LastLog returns the most recent log entry, if any.
func (e *WorkflowExecution) LastLog() (WorkflowLog, bool) {
	if len(e.Logs) == 0 {
		return WorkflowLog{}, false
	}

	return e.Logs[len(e.Logs)-1], true
}

// Clone returns a copy that shares no mutable state with e.
func (e *WorkflowExecution) Clone() *WorkflowExecution {
	c := *e
	c.Logs = slices.Clone(e.Logs)
	c.Visited = slices.Clone(e.Visited)
	c.Pending = slices.Clone(e.Pending)
	c.Context.Variables = maps.Clone(e.Context.Variables)

	if e.EndTime != nil {
		end := *e.EndTime
		c.EndTime = &end
	}

	if e.DurationMs != nil {
		d := *e.DurationMs
		c.DurationMs = &d
	}

	if e.WaitingForWebhook != nil {
		w := *e.WaitingForWebhook
		c.WaitingForWebhook = &w
	}

	return &c
}
