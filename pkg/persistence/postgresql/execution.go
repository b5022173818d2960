package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/persistence"
)

// ExecutionRepository stores execution records as JSONB rows. The BIGSERIAL
// seq column orders the ring; an update keeps the original seq.
type ExecutionRepository struct {
	db       *sql.DB
	logger   *slog.Logger
	capacity int
}

// NewExecutionRepository creates a new execution repository retaining at most
// capacity rows.
func NewExecutionRepository(db *sql.DB, logger *slog.Logger, capacity int) *ExecutionRepository {
	return &ExecutionRepository{db: db, logger: logger, capacity: capacity}
}

// Save upserts the execution and trims the ring in the same transaction.
func (r *ExecutionRepository) Save(ctx context.Context, execution *models.WorkflowExecution) error {
	data, err := json.Marshal(execution)
	if err != nil {
		return persistence.NewExecutionError("Save", execution.ID, fmt.Errorf("failed to marshal execution: %w", err))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence.NewExecutionError("Save", execution.ID, fmt.Errorf("failed to begin transaction: %w", err))
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO workflow_executions (id, workflow_id, status, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status
		  , data = EXCLUDED.data
	`, execution.ID, execution.WorkflowID, string(execution.Status), data)
	if err != nil {
		return persistence.NewExecutionError("Save", execution.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM workflow_executions
		WHERE seq NOT IN (
			SELECT seq FROM workflow_executions ORDER BY seq DESC LIMIT $1
		)
	`, r.capacity)
	if err != nil {
		return persistence.NewExecutionError("Save", execution.ID, fmt.Errorf("failed to trim executions: %w", err))
	}

	err = tx.Commit()
	if err != nil {
		return persistence.NewExecutionError("Save", execution.ID, fmt.Errorf("failed to commit: %w", err))
	}

	return nil
}

func (r *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.WorkflowExecution, error) {
	var data []byte

	err := r.db.QueryRowContext(ctx, "SELECT data FROM workflow_executions WHERE id = $1", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewExecutionError("GetByID", id, persistence.ErrExecutionNotFound)
	}

	if err != nil {
		return nil, persistence.NewExecutionError("GetByID", id, err)
	}

	var execution models.WorkflowExecution
	if err := json.Unmarshal(data, &execution); err != nil {
		return nil, persistence.NewExecutionError("GetByID", id, fmt.Errorf("failed to unmarshal execution: %w", err))
	}

	return &execution, nil
}

func (r *ExecutionRepository) List(ctx context.Context) ([]*models.WorkflowExecution, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT data FROM workflow_executions ORDER BY seq DESC LIMIT $1", r.capacity)
	if err != nil {
		return nil, persistence.NewExecutionError("List", "", err)
	}

	defer closeRows(ctx, r.logger, rows)

	executions := make([]*models.WorkflowExecution, 0)

	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, persistence.NewExecutionError("List", "", err)
		}

		var execution models.WorkflowExecution
		if err := json.Unmarshal(data, &execution); err != nil {
			return nil, persistence.NewExecutionError("List", "", fmt.Errorf("failed to unmarshal execution: %w", err))
		}

		executions = append(executions, &execution)
	}

	if err := rows.Err(); err != nil {
		return nil, persistence.NewExecutionError("List", "", err)
	}

	return executions, nil
}
