// Package redis provides a Redis-backed persistence layer. Workflows and
// listeners live in hashes; the execution ring is a sorted set scored by an
// insertion counter.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/hireflow/pkg/persistence"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "hireflow:"

// Persistence implements persistence.Persistence on top of a Redis client.
type Persistence struct {
	client        redis.UniversalClient
	logger        *slog.Logger
	workflowRepo  *WorkflowRepository
	executionRepo *ExecutionRepository
	listenerRepo  *WebhookListenerRepository
}

// NewPersistence parses a redis:// URL, connects and verifies the connection.
func NewPersistence(ctx context.Context, logger *slog.Logger, redisURL string) (*Persistence, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.InfoContext(ctx, "Connected to Redis", "addr", opts.Addr, "db", opts.DB)

	return NewPersistenceWithClient(logger, client), nil
}

// NewPersistenceWithClient wraps an existing client.
func NewPersistenceWithClient(logger *slog.Logger, client redis.UniversalClient) *Persistence {
	return &Persistence{
		client:        client,
		logger:        logger,
		workflowRepo:  NewWorkflowRepository(client),
		executionRepo: NewExecutionRepository(client, persistence.MaxRetainedExecutions),
		listenerRepo:  NewWebhookListenerRepository(client),
	}
}

func (p *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return p.workflowRepo
}

func (p *Persistence) ExecutionRepository() persistence.ExecutionRepository {
	return p.executionRepo
}

func (p *Persistence) WebhookListenerRepository() persistence.WebhookListenerRepository {
	return p.listenerRepo
}

// HealthCheck pings the server.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

// Close closes the underlying client.
func (p *Persistence) Close(ctx context.Context) error {
	if err := p.client.Close(); err != nil {
		p.logger.ErrorContext(ctx, "Error closing Redis client", "error", err)

		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}
