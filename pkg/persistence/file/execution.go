package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/persistence"
)

// ExecutionRepository keeps the execution ring in a single executions.json
// file, most recent first. Every save rewrites the file whole.
type ExecutionRepository struct {
	root     string
	capacity int
	mu       sync.Mutex
}

// NewExecutionRepository creates a ring holding at most capacity executions.
func NewExecutionRepository(root string, capacity int) *ExecutionRepository {
	return &ExecutionRepository{root: root, capacity: capacity}
}

func (er *ExecutionRepository) path() string {
	return filepath.Join(er.root, "executions.json")
}

func (er *ExecutionRepository) load() ([]*models.WorkflowExecution, error) {
	executions := make([]*models.WorkflowExecution, 0)

	err := readJSON(er.path(), &executions)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	return executions, nil
}

// Save inserts a new execution at the head of the ring, evicting the oldest
// beyond capacity, or replaces an existing one in place.
func (er *ExecutionRepository) Save(_ context.Context, execution *models.WorkflowExecution) error {
	er.mu.Lock()
	defer er.mu.Unlock()

	executions, err := er.load()
	if err != nil {
		return persistence.NewExecutionError("Save", execution.ID, err)
	}

	replaced := false

	for i, existing := range executions {
		if existing.ID == execution.ID {
			executions[i] = execution
			replaced = true

			break
		}
	}

	if !replaced {
		executions = append([]*models.WorkflowExecution{execution}, executions...)
		if len(executions) > er.capacity {
			executions = executions[:er.capacity]
		}
	}

	if err := writeJSON(er.path(), executions); err != nil {
		return persistence.NewExecutionError("Save", execution.ID, err)
	}

	return nil
}

// GetByID returns a retained execution.
func (er *ExecutionRepository) GetByID(_ context.Context, id string) (*models.WorkflowExecution, error) {
	er.mu.Lock()
	defer er.mu.Unlock()

	executions, err := er.load()
	if err != nil {
		return nil, persistence.NewExecutionError("GetByID", id, err)
	}

	for _, execution := range executions {
		if execution.ID == id {
			return execution, nil
		}
	}

	return nil, persistence.NewExecutionError("GetByID", id, persistence.ErrExecutionNotFound)
}

// List returns the retained executions, most recent first.
func (er *ExecutionRepository) List(_ context.Context) ([]*models.WorkflowExecution, error) {
	er.mu.Lock()
	defer er.mu.Unlock()

	executions, err := er.load()
	if err != nil {
		return nil, persistence.NewExecutionError("List", "", err)
	}

	return executions, nil
}
