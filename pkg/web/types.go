// Package web provides HTTP request and response types for the workflow API.
package web

import "github.com/dukex/hireflow/pkg/models"

// WorkflowRequest represents the request body for creating or replacing a
// workflow. Status defaults to draft on create and is kept on update.
type WorkflowRequest struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"        validate:"required,min=3"`
	Description string                 `json:"description"`
	Status      models.WorkflowStatus  `json:"status"      validate:"omitempty,oneof=draft active inactive"`
	Nodes       []*models.WorkflowNode `json:"nodes"`
	Connections []*models.Connection   `json:"connections"`
	CreatedBy   string                 `json:"created_by"`
}

// Workflow converts the request into a workflow model.
func (r *WorkflowRequest) Workflow() *models.Workflow {
	nodes := r.Nodes
	if nodes == nil {
		nodes = []*models.WorkflowNode{}
	}

	connections := r.Connections
	if connections == nil {
		connections = []*models.Connection{}
	}

	return &models.Workflow{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		Nodes:       nodes,
		Connections: connections,
		CreatedBy:   r.CreatedBy,
	}
}

// WorkflowResponse is a stored workflow plus the structural warnings found
// while saving it.
type WorkflowResponse struct {
	*models.Workflow

	Warnings []string `json:"warnings,omitempty"`
}

// ExecuteWorkflowRequest represents the request body for starting a run.
type ExecuteWorkflowRequest struct {
	Variables     map[string]any `json:"variables"`
	CandidateData map[string]any `json:"candidate_data"`
	JobData       map[string]any `json:"job_data"`
	TriggeredBy   string         `json:"triggered_by" validate:"omitempty,max=200"`
}

// NodeTypeResponse describes a registered node type.
type NodeTypeResponse struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema"`
}
