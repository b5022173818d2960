package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/google/uuid"
)

// CreateNodeRequest represents the request to add a node to a workflow.
type CreateNodeRequest struct {
	ID       string          `json:"id"`
	Type     models.NodeType `json:"type"     validate:"required"`
	Name     string          `json:"name"`
	Position models.Position `json:"position"`
	Data     map[string]any  `json:"data"`
}

// UpdateNodeRequest represents the request to update an existing workflow node.
// The node type cannot change.
type UpdateNodeRequest struct {
	Name     string          `json:"name"`
	Position models.Position `json:"position"`
	Data     map[string]any  `json:"data"`
}

// ConnectRequest represents the request to connect two nodes.
type ConnectRequest struct {
	From   string `json:"from"   validate:"required"`
	To     string `json:"to"     validate:"required"`
	Branch string `json:"branch" validate:"omitempty,oneof=true false"`
}

// Node edits single nodes and connections of a stored workflow. Every edit
// revalidates and saves the whole workflow document.
type Node struct {
	workflows *Workflow
}

// NewNode creates a new node service.
func NewNode(workflows *Workflow) *Node {
	return &Node{workflows: workflows}
}

// CreateNode adds a node to the specified workflow.
func (n *Node) CreateNode(ctx context.Context, workflowID string, req *CreateNodeRequest) (*models.WorkflowNode, error) {
	if err := n.workflows.validate.Struct(req); err != nil {
		return nil, NewValidationError("CreateNode", describeValidation(err), ErrInvalidRequest)
	}

	workflow, err := n.workflows.FetchByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	node := &models.WorkflowNode{
		ID:       req.ID,
		Type:     req.Type,
		Name:     req.Name,
		Position: req.Position,
		Data:     req.Data,
	}

	if node.ID == "" {
		node.ID = uuid.New().String()
	}

	if node.Data == nil {
		node.Data = make(map[string]any)
	}

	if indexOfNode(workflow, node.ID) >= 0 {
		return nil, newConflictError("CreateNode", "node "+node.ID+" already exists", ErrNodeExists)
	}

	workflow.Nodes = append(workflow.Nodes, node)

	if _, _, err := n.workflows.Update(ctx, workflowID, workflow); err != nil {
		return nil, err
	}

	return node, nil
}

// GetNode retrieves a specific node from the specified workflow.
func (n *Node) GetNode(ctx context.Context, workflowID, nodeID string) (*models.WorkflowNode, error) {
	workflow, err := n.workflows.FetchByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	i := indexOfNode(workflow, nodeID)
	if i < 0 {
		return nil, newNotFoundError("GetNode", "node "+nodeID+" not found", ErrNodeNotFound)
	}

	return workflow.Nodes[i], nil
}

// UpdateNode updates an existing node in the specified workflow.
func (n *Node) UpdateNode(ctx context.Context, workflowID, nodeID string, req *UpdateNodeRequest) (*models.WorkflowNode, error) {
	workflow, err := n.workflows.FetchByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	i := indexOfNode(workflow, nodeID)
	if i < 0 {
		return nil, newNotFoundError("UpdateNode", "node "+nodeID+" not found", ErrNodeNotFound)
	}

	node := workflow.Nodes[i]
	node.Name = req.Name
	node.Position = req.Position
	node.Data = req.Data

	if node.Data == nil {
		node.Data = make(map[string]any)
	}

	if _, _, err := n.workflows.Update(ctx, workflowID, workflow); err != nil {
		return nil, err
	}

	return node, nil
}

// DeleteNode deletes a node and all its connections from the specified workflow.
func (n *Node) DeleteNode(ctx context.Context, workflowID, nodeID string) error {
	workflow, err := n.workflows.FetchByID(ctx, workflowID)
	if err != nil {
		return err
	}

	i := indexOfNode(workflow, nodeID)
	if i < 0 {
		return newNotFoundError("DeleteNode", "node "+nodeID+" not found", ErrNodeNotFound)
	}

	workflow.Nodes = slices.Delete(workflow.Nodes, i, i+1)
	workflow.Connections = slices.DeleteFunc(workflow.Connections, func(c *models.Connection) bool {
		return c.From == nodeID || c.To == nodeID
	})

	if _, _, err := n.workflows.Update(ctx, workflowID, workflow); err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}

	return nil
}

// Connect adds a connection between two existing nodes.
func (n *Node) Connect(ctx context.Context, workflowID string, req *ConnectRequest) (*models.Connection, error) {
	if err := n.workflows.validate.Struct(req); err != nil {
		return nil, NewValidationError("Connect", describeValidation(err), ErrInvalidRequest)
	}

	workflow, err := n.workflows.FetchByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	conn := &models.Connection{
		ID:     uuid.New().String(),
		From:   req.From,
		To:     req.To,
		Branch: req.Branch,
	}
	workflow.Connections = append(workflow.Connections, conn)

	if _, _, err := n.workflows.Update(ctx, workflowID, workflow); err != nil {
		return nil, err
	}

	return conn, nil
}

// Disconnect removes a connection by its ID.
func (n *Node) Disconnect(ctx context.Context, workflowID, connectionID string) error {
	workflow, err := n.workflows.FetchByID(ctx, workflowID)
	if err != nil {
		return err
	}

	before := len(workflow.Connections)
	workflow.Connections = slices.DeleteFunc(workflow.Connections, func(c *models.Connection) bool {
		return c.ID == connectionID
	})

	if len(workflow.Connections) == before {
		return newNotFoundError("Disconnect", "connection "+connectionID+" not found", ErrConnectionNotFound)
	}

	_, _, err = n.workflows.Update(ctx, workflowID, workflow)

	return err
}

func indexOfNode(workflow *models.Workflow, nodeID string) int {
	return slices.IndexFunc(workflow.Nodes, func(node *models.WorkflowNode) bool {
		return node.ID == nodeID
	})
}
