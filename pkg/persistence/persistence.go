// Package persistence provides the data storage abstraction for workflows,
// executions and webhook listeners.
package persistence

import (
	"context"

	"github.com/dukex/hireflow/pkg/models"
)

// MaxRetainedExecutions is the size of the execution ring: saving a new
// execution beyond it evicts the oldest one.
const MaxRetainedExecutions = 100

type Persistence interface {
	WorkflowRepository() WorkflowRepository
	ExecutionRepository() ExecutionRepository
	WebhookListenerRepository() WebhookListenerRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// WorkflowRepository stores workflow definitions.
type WorkflowRepository interface {
	GetAll(ctx context.Context) ([]*models.Workflow, error)
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	Save(ctx context.Context, workflow *models.Workflow) error
	Delete(ctx context.Context, id string) error
}

// ExecutionRepository stores execution records as a bounded ring. Save writes
// the whole record atomically; a record is created on first save and keeps its
// position in the ring on later saves.
type ExecutionRepository interface {
	Save(ctx context.Context, execution *models.WorkflowExecution) error
	GetByID(ctx context.Context, id string) (*models.WorkflowExecution, error)
	// List returns the retained executions, most recent first.
	List(ctx context.Context) ([]*models.WorkflowExecution, error)
}

// WebhookListenerRepository stores webhook listeners keyed by callback URL.
type WebhookListenerRepository interface {
	Save(ctx context.Context, listener *models.WebhookListener) error
	GetByURL(ctx context.Context, webhookURL string) (*models.WebhookListener, error)
	// Deactivate marks the listener inactive and reports whether this call
	// performed the transition. Concurrent callers race; exactly one wins.
	Deactivate(ctx context.Context, webhookURL string) (bool, error)
	ListActive(ctx context.Context) ([]*models.WebhookListener, error)
	ListByExecution(ctx context.Context, executionID string) ([]*models.WebhookListener, error)
}
