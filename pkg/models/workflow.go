// Package models defines the core domain models for workflow automation.
package models

import "time"

// WorkflowStatus represents the lifecycle state of a workflow definition.
type WorkflowStatus string

const (
	WorkflowStatusDraft    WorkflowStatus = "draft"    // Being edited
	WorkflowStatusActive   WorkflowStatus = "active"   // Enabled for triggering
	WorkflowStatusInactive WorkflowStatus = "inactive" // Kept for history, not triggered
)

// Workflow is a graph of typed nodes joined by directed connections.
type Workflow struct {
	ID          string          `json:"id"                     yaml:"id"`
	Name        string          `json:"name"                   validate:"required,min=3"                            yaml:"name"`
	Description string          `json:"description"            yaml:"description"`
	Status      WorkflowStatus  `json:"status"                 validate:"omitempty,oneof=draft active inactive"     yaml:"status"`
	Nodes       []*WorkflowNode `json:"nodes"                  validate:"dive"                                      yaml:"nodes"`
	Connections []*Connection   `json:"connections"            validate:"dive"                                      yaml:"connections"`
	CreatedBy   string          `json:"created_by,omitempty"   yaml:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"             yaml:"created_at,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"             yaml:"updated_at,omitempty"`
	LastRun     *time.Time      `json:"last_run,omitempty"     yaml:"last_run,omitempty"`
}

// Snapshot returns a copy of the workflow structure that an execution can keep
// independently of later edits to the definition.
func (w *Workflow) Snapshot() GraphSnapshot {
	nodes := make([]*WorkflowNode, 0, len(w.Nodes))
	for _, n := range w.Nodes {
		node := *n
		node.Data = cloneMap(n.Data)
		nodes = append(nodes, &node)
	}

	connections := make([]*Connection, 0, len(w.Connections))
	for _, c := range w.Connections {
		conn := *c
		connections = append(connections, &conn)
	}

	return GraphSnapshot{Nodes: nodes, Connections: connections}
}

// GraphSnapshot is the denormalized node/connection list an execution runs against.
type GraphSnapshot struct {
	Nodes       []*WorkflowNode `json:"nodes"`
	Connections []*Connection   `json:"connections"`
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}

	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}

	return out
}
