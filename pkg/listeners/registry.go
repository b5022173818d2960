// Package listeners maps generated callback URLs to suspended executions.
package listeners

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/dukex/hireflow/pkg/clock"
	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/persistence"
)

// CallbackPathPrefix is the path under the origin that webhook callbacks are served on.
const CallbackPathPrefix = "/api/webhook/"

// DefaultTimeout applies when a webhook_listener node does not configure one.
const DefaultTimeout = 3600 * time.Second

// Registry registers, finds and expires webhook listeners. State lives in the
// injected repository so several engine instances share it.
type Registry struct {
	repo   persistence.WebhookListenerRepository
	origin string
	clock  clock.Clock
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger, repo persistence.WebhookListenerRepository, origin string, c clock.Clock) *Registry {
	return &Registry{
		repo:   repo,
		origin: strings.TrimRight(origin, "/"),
		clock:  c,
		logger: logger.With("module", "webhook_listeners"),
	}
}

// URL builds the callback URL {origin}/api/webhook/{executionId}/{nodeId}.
func (r *Registry) URL(executionID, nodeID string) string {
	return r.origin + CallbackPathPrefix + url.PathEscape(executionID) + "/" + url.PathEscape(nodeID)
}

// Register creates and stores an active listener for executionID/nodeID. A
// non-positive timeout registers a listener that never expires.
func (r *Registry) Register(ctx context.Context, workflowID, executionID, nodeID string, timeout time.Duration) (*models.WebhookListener, error) {
	listener := models.NewWebhookListener(workflowID, executionID, nodeID, r.URL(executionID, nodeID), r.clock.Now(), timeout)

	if err := r.repo.Save(ctx, listener); err != nil {
		return nil, fmt.Errorf("failed to register webhook listener: %w", err)
	}

	r.logger.InfoContext(ctx, "Registered webhook listener",
		"execution_id", executionID,
		"node_id", nodeID,
		"webhook_url", listener.WebhookURL)

	return listener, nil
}

// Find returns the listener registered for webhookURL, active or not.
func (r *Registry) Find(ctx context.Context, webhookURL string) (*models.WebhookListener, error) {
	return r.repo.GetByURL(ctx, webhookURL)
}

// FindFor returns the listener registered for executionID/nodeID.
func (r *Registry) FindFor(ctx context.Context, executionID, nodeID string) (*models.WebhookListener, error) {
	return r.repo.GetByURL(ctx, r.URL(executionID, nodeID))
}

// Deactivate consumes the listener. It reports false when the listener was
// already inactive, meaning another caller consumed it first.
func (r *Registry) Deactivate(ctx context.Context, webhookURL string) (bool, error) {
	return r.repo.Deactivate(ctx, webhookURL)
}

// Reactivate puts a consumed listener back in service, for a claim whose
// resume could not be recorded.
func (r *Registry) Reactivate(ctx context.Context, listener *models.WebhookListener) error {
	restored := *listener
	restored.IsActive = true

	if err := r.repo.Save(ctx, &restored); err != nil {
		return fmt.Errorf("failed to reactivate webhook listener: %w", err)
	}

	return nil
}

// DeactivateExecution consumes every active listener of executionID.
func (r *Registry) DeactivateExecution(ctx context.Context, executionID string) error {
	registered, err := r.repo.ListByExecution(ctx, executionID)
	if err != nil {
		return err
	}

	for _, listener := range registered {
		if !listener.IsActive {
			continue
		}

		if _, err := r.repo.Deactivate(ctx, listener.WebhookURL); err != nil {
			return err
		}
	}

	return nil
}

// Expire deactivates every active listener past its expiry and calls
// onExpired for each listener this call consumed. It returns the number of
// expired listeners and the first callback error.
func (r *Registry) Expire(ctx context.Context, onExpired func(context.Context, *models.WebhookListener) error) (int, error) {
	active, err := r.repo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active webhook listeners: %w", err)
	}

	now := r.clock.Now()
	expired := 0

	var firstErr error

	for _, listener := range active {
		if !listener.Expired(now) {
			continue
		}

		claimed, err := r.repo.Deactivate(ctx, listener.WebhookURL)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to deactivate expired listener", "webhook_url", listener.WebhookURL, "error", err)

			if firstErr == nil {
				firstErr = err
			}

			continue
		}

		if !claimed {
			continue
		}

		expired++

		r.logger.InfoContext(ctx, "Webhook listener expired",
			"execution_id", listener.ExecutionID,
			"node_id", listener.NodeID)

		if onExpired == nil {
			continue
		}

		if err := onExpired(ctx, listener); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return expired, firstErr
}
