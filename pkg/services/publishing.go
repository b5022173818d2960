package services

import (
	"context"

	"github.com/dukex/hireflow/pkg/models"
)

// Publishing moves workflows between draft, active and inactive.
type Publishing struct {
	workflows *Workflow
}

// NewPublishing creates a new workflow publishing service.
func NewPublishing(workflows *Workflow) *Publishing {
	return &Publishing{workflows: workflows}
}

// Activate marks a workflow active. It must pass validation and contain a
// start node.
func (p *Publishing) Activate(ctx context.Context, workflowID string) (*models.Workflow, error) {
	return p.setStatus(ctx, workflowID, models.WorkflowStatusActive)
}

// Deactivate marks a workflow inactive. Executions already running are
// unaffected.
func (p *Publishing) Deactivate(ctx context.Context, workflowID string) (*models.Workflow, error) {
	return p.setStatus(ctx, workflowID, models.WorkflowStatusInactive)
}

func (p *Publishing) setStatus(ctx context.Context, workflowID string, status models.WorkflowStatus) (*models.Workflow, error) {
	workflow, err := p.workflows.FetchByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if workflow.Status == status {
		return workflow, nil
	}

	workflow.Status = status

	updated, _, err := p.workflows.Update(ctx, workflowID, workflow)

	return updated, err
}
