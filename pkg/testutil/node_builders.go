// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"time"

	"github.com/dukex/hireflow/pkg/clock"
	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/protocol"
	"github.com/google/uuid"
)

// CreateTestNode creates a WorkflowNode of nodeType with empty data that can be overridden.
func CreateTestNode(id string, nodeType models.NodeType, overrides ...func(*models.WorkflowNode)) *models.WorkflowNode {
	node := &models.WorkflowNode{
		ID:       id,
		Type:     nodeType,
		Name:     string(nodeType),
		Data:     map[string]any{},
		Position: models.Position{X: 100, Y: 200},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithData sets the node configuration.
func WithData(data map[string]any) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Data = data
	}
}

// Connect creates a connection from one node id to another.
func Connect(from, to string) *models.Connection {
	return &models.Connection{ID: uuid.New().String(), From: from, To: to}
}

// ConnectBranch creates a branch-tagged connection leaving a condition node.
func ConnectBranch(from, to, branch string) *models.Connection {
	return &models.Connection{ID: uuid.New().String(), From: from, To: to, Branch: branch}
}

// CreateTestWorkflow creates an active workflow from nodes and connections.
func CreateTestWorkflow(nodes []*models.WorkflowNode, connections ...*models.Connection) *models.Workflow {
	now := time.Now().UTC()

	return &models.Workflow{
		ID:          uuid.New().String(),
		Name:        "Test Workflow",
		Description: "workflow used in tests",
		Status:      models.WorkflowStatusActive,
		Nodes:       nodes,
		Connections: connections,
		CreatedBy:   "tester",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTestRun builds a handler run for node with a fresh running execution.
func NewTestRun(node *models.WorkflowNode, execCtx models.ExecutionContext) *protocol.Run {
	if execCtx.Variables == nil {
		execCtx.Variables = map[string]any{}
	}

	workflow := CreateTestWorkflow([]*models.WorkflowNode{node})
	execution := models.NewWorkflowExecution(workflow, execCtx, "test", time.Now().UTC())

	return &protocol.Run{
		Node:      node,
		Execution: execution,
		Clock:     clock.New(),
	}
}
