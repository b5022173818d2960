package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/persistence"
)

const listenerColumns = `
	id
  , workflow_id
  , execution_id
  , node_id
  , webhook_url
  , is_active
  , created_at
  , expires_at
`

// WebhookListenerRepository stores webhook listeners keyed by callback URL.
type WebhookListenerRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewWebhookListenerRepository creates a new listener repository.
func NewWebhookListenerRepository(db *sql.DB, logger *slog.Logger) *WebhookListenerRepository {
	return &WebhookListenerRepository{db: db, logger: logger}
}

func (r *WebhookListenerRepository) Save(ctx context.Context, listener *models.WebhookListener) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO webhook_listeners (id, workflow_id, execution_id, node_id, webhook_url, is_active, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (webhook_url) DO UPDATE SET
			id = EXCLUDED.id
		  , workflow_id = EXCLUDED.workflow_id
		  , execution_id = EXCLUDED.execution_id
		  , node_id = EXCLUDED.node_id
		  , is_active = EXCLUDED.is_active
		  , created_at = EXCLUDED.created_at
		  , expires_at = EXCLUDED.expires_at
	`,
		listener.ID,
		listener.WorkflowID,
		listener.ExecutionID,
		listener.NodeID,
		listener.WebhookURL,
		listener.IsActive,
		listener.CreatedAt,
		listener.ExpiresAt,
	)
	if err != nil {
		return persistence.NewListenerError("Save", listener.WebhookURL, err)
	}

	return nil
}

func (r *WebhookListenerRepository) GetByURL(ctx context.Context, webhookURL string) (*models.WebhookListener, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+listenerColumns+" FROM webhook_listeners WHERE webhook_url = $1", webhookURL)

	listener, err := scanListener(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewListenerError("GetByURL", webhookURL, persistence.ErrListenerNotFound)
	}

	if err != nil {
		return nil, persistence.NewListenerError("GetByURL", webhookURL, err)
	}

	return listener, nil
}

// Deactivate flips is_active only when it is still set, so concurrent callers
// see exactly one affected row between them.
func (r *WebhookListenerRepository) Deactivate(ctx context.Context, webhookURL string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE webhook_listeners SET is_active = FALSE WHERE webhook_url = $1 AND is_active", webhookURL)
	if err != nil {
		return false, persistence.NewListenerError("Deactivate", webhookURL, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, persistence.NewListenerError("Deactivate", webhookURL, err)
	}

	if affected == 1 {
		return true, nil
	}

	var exists bool

	err = r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM webhook_listeners WHERE webhook_url = $1)", webhookURL).Scan(&exists)
	if err != nil {
		return false, persistence.NewListenerError("Deactivate", webhookURL, err)
	}

	if !exists {
		return false, persistence.NewListenerError("Deactivate", webhookURL, persistence.ErrListenerNotFound)
	}

	return false, nil
}

func (r *WebhookListenerRepository) ListActive(ctx context.Context) ([]*models.WebhookListener, error) {
	return r.list(ctx, "ListActive",
		"SELECT "+listenerColumns+" FROM webhook_listeners WHERE is_active ORDER BY created_at")
}

func (r *WebhookListenerRepository) ListByExecution(ctx context.Context, executionID string) ([]*models.WebhookListener, error) {
	return r.list(ctx, "ListByExecution",
		"SELECT "+listenerColumns+" FROM webhook_listeners WHERE execution_id = $1 ORDER BY created_at", executionID)
}

func (r *WebhookListenerRepository) list(ctx context.Context, op, query string, args ...any) ([]*models.WebhookListener, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistence.NewListenerError(op, "", err)
	}

	defer closeRows(ctx, r.logger, rows)

	listeners := make([]*models.WebhookListener, 0)

	for rows.Next() {
		listener, err := scanListener(rows)
		if err != nil {
			return nil, persistence.NewListenerError(op, "", fmt.Errorf("failed to scan listener: %w", err))
		}

		listeners = append(listeners, listener)
	}

	if err := rows.Err(); err != nil {
		return nil, persistence.NewListenerError(op, "", err)
	}

	return listeners, nil
}

func scanListener(row rowScanner) (*models.WebhookListener, error) {
	var (
		listener  models.WebhookListener
		expiresAt sql.NullTime
	)

	err := row.Scan(
		&listener.ID,
		&listener.WorkflowID,
		&listener.ExecutionID,
		&listener.NodeID,
		&listener.WebhookURL,
		&listener.IsActive,
		&listener.CreatedAt,
		&expiresAt,
	)
	if err != nil {
		return nil, err
	}

	if expiresAt.Valid {
		t := expiresAt.Time
		listener.ExpiresAt = &t
	}

	return &listener, nil
}
