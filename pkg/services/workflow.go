package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dukex/hireflow/pkg/clock"
	"github.com/dukex/hireflow/pkg/graph"
	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/persistence"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// NodeTypes reports which node types can be executed.
type NodeTypes interface {
	HasNode(nodeType models.NodeType) bool
}

type Workflow struct {
	persistence persistence.Persistence
	nodeTypes   NodeTypes
	validate    *validator.Validate
	clock       clock.Clock
}

// NewWorkflow creates a new workflow service. Node types are checked against
// nodeTypes on every save.
func NewWorkflow(persistence persistence.Persistence, nodeTypes NodeTypes, c clock.Clock) *Workflow {
	if c == nil {
		c = clock.New()
	}

	return &Workflow{
		persistence: persistence,
		nodeTypes:   nodeTypes,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		clock:       c,
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List returns every stored workflow, newest first.
func (w *Workflow) List(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := w.persistence.WorkflowRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	return workflows, nil
}

// FetchByID retrieves a workflow by its ID.
func (w *Workflow) FetchByID(ctx context.Context, id string) (*models.Workflow, error) {
	workflow, err := w.persistence.WorkflowRepository().GetByID(ctx, id)
	if persistence.IsWorkflowNotFound(err) {
		return nil, newNotFoundError("FetchByID", "workflow "+id+" not found", err)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}

	return workflow, nil
}

// Validate checks the workflow's fields, node types and graph structure.
// Structural warnings such as unreachable nodes are returned in the report
// and do not fail validation.
func (w *Workflow) Validate(workflow *models.Workflow) (*graph.Report, error) {
	if workflow == nil {
		return nil, ErrWorkflowNil
	}

	if err := w.validate.Struct(workflow); err != nil {
		return nil, NewValidationError("Validate", describeValidation(err), ErrInvalidRequest)
	}

	if w.nodeTypes != nil {
		for _, node := range workflow.Nodes {
			if !w.nodeTypes.HasNode(node.Type) {
				return nil, NewValidationError("Validate",
					fmt.Sprintf("node %s has unknown type %q", node.ID, node.Type), ErrUnknownNodeType)
			}
		}
	}

	report, err := graph.Validate(workflow)
	if err != nil {
		return nil, NewValidationError("Validate", err.Error(), err)
	}

	if workflow.Status == models.WorkflowStatusActive {
		if _, err := findStart(workflow); err != nil {
			return nil, NewValidationError("Validate", ErrStartNodeRequired.Error(), ErrStartNodeRequired)
		}
	}

	return report, nil
}

// Create validates and stores a new workflow. A missing ID is generated; an
// ID that is already taken is a conflict.
func (w *Workflow) Create(ctx context.Context, workflow *models.Workflow) (*models.Workflow, *graph.Report, error) {
	if workflow == nil {
		return nil, nil, ErrWorkflowNil
	}

	if workflow.Status == "" {
		workflow.Status = models.WorkflowStatusDraft
	}

	report, err := w.Validate(workflow)
	if err != nil {
		return nil, nil, err
	}

	if workflow.ID == "" {
		workflow.ID = uuid.New().String()
	} else {
		_, err := w.persistence.WorkflowRepository().GetByID(ctx, workflow.ID)
		if err == nil {
			return nil, nil, newConflictError("Create", "workflow "+workflow.ID+" already exists", ErrWorkflowExists)
		}

		if !persistence.IsWorkflowNotFound(err) {
			return nil, nil, fmt.Errorf("failed to check workflow: %w", err)
		}
	}

	now := w.clock.Now()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now
	workflow.LastRun = nil

	if err := w.persistence.WorkflowRepository().Save(ctx, workflow); err != nil {
		return nil, nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	return workflow, report, nil
}

// Update replaces an existing workflow definition. Creation time, author and
// last run are preserved. Running executions are unaffected because they keep
// their own graph snapshot.
func (w *Workflow) Update(ctx context.Context, workflowID string, workflow *models.Workflow) (*models.Workflow, *graph.Report, error) {
	if workflow == nil {
		return nil, nil, ErrWorkflowNil
	}

	existing, err := w.FetchByID(ctx, workflowID)
	if err != nil {
		return nil, nil, err
	}

	workflow.ID = workflowID

	if workflow.Status == "" {
		workflow.Status = existing.Status
	}

	report, err := w.Validate(workflow)
	if err != nil {
		return nil, nil, err
	}

	workflow.CreatedAt = existing.CreatedAt
	workflow.CreatedBy = existing.CreatedBy
	workflow.LastRun = existing.LastRun
	workflow.UpdatedAt = w.clock.Now()

	if err := w.persistence.WorkflowRepository().Save(ctx, workflow); err != nil {
		return nil, nil, fmt.Errorf("failed to update workflow: %w", err)
	}

	return workflow, report, nil
}

// Delete removes a workflow by its ID.
func (w *Workflow) Delete(ctx context.Context, workflowID string) error {
	err := w.persistence.WorkflowRepository().Delete(ctx, workflowID)
	if persistence.IsWorkflowNotFound(err) {
		return newNotFoundError("Delete", "workflow "+workflowID+" not found", err)
	}

	if err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}

	return nil
}

func findStart(workflow *models.Workflow) (*models.WorkflowNode, error) {
	for _, node := range workflow.Nodes {
		if node.Type == models.NodeTypeStart {
			return node, nil
		}
	}

	return nil, graph.ErrMissingStartNode
}

func describeValidation(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s failed on %s", fieldErr.Namespace(), fieldErr.Tag()))
	}

	return strings.Join(messages, "; ")
}
