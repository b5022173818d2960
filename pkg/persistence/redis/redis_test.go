package redis_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/persistence"
	redispersistence "github.com/dukex/hireflow/pkg/persistence/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) (*redispersistence.Persistence, context.Context) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping Redis container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := redispersistence.NewPersistence(ctx, logger, fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = p.Close(ctx)
		_ = container.Terminate(ctx)

		cancel()
	})

	return p, ctx
}

func TestRedisPersistence(t *testing.T) {
	p, ctx := setupRedis(t)

	require.NoError(t, p.HealthCheck(ctx))

	t.Run("workflows", func(t *testing.T) {
		repo := p.WorkflowRepository()

		require.NoError(t, repo.Save(ctx, &models.Workflow{ID: "wf-1", Name: "First"}))
		require.NoError(t, repo.Save(ctx, &models.Workflow{ID: "wf-2", Name: "Second", CreatedAt: time.Now().Add(time.Hour)}))

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "wf-2", all[0].ID)

		require.NoError(t, repo.Delete(ctx, "wf-1"))
		_, err = repo.GetByID(ctx, "wf-1")
		assert.True(t, persistence.IsWorkflowNotFound(err))
	})

	t.Run("execution ring", func(t *testing.T) {
		repo := p.ExecutionRepository()

		for i := range persistence.MaxRetainedExecutions + 1 {
			require.NoError(t, repo.Save(ctx, &models.WorkflowExecution{
				ID:     fmt.Sprintf("e%03d", i),
				Status: models.ExecutionStatusRunning,
			}))
		}

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, persistence.MaxRetainedExecutions)
		assert.Equal(t, "e100", list[0].ID)

		_, err = repo.GetByID(ctx, "e000")
		assert.True(t, persistence.IsExecutionNotFound(err))

		require.NoError(t, repo.Save(ctx, &models.WorkflowExecution{ID: "e001", Status: models.ExecutionStatusSuccess}))

		list, err = repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, persistence.MaxRetainedExecutions)
		assert.Equal(t, "e001", list[len(list)-1].ID)
		assert.Equal(t, models.ExecutionStatusSuccess, list[len(list)-1].Status)
	})

	t.Run("listener claim", func(t *testing.T) {
		repo := p.WebhookListenerRepository()
		listener := models.NewWebhookListener("wf-1", "e1", "wait", "http://localhost/api/webhook/e1/wait", time.Now(), 0)
		require.NoError(t, repo.Save(ctx, listener))

		active, err := repo.ListActive(ctx)
		require.NoError(t, err)
		assert.Len(t, active, 1)

		claimed, err := repo.Deactivate(ctx, listener.WebhookURL)
		require.NoError(t, err)
		assert.True(t, claimed)

		claimed, err = repo.Deactivate(ctx, listener.WebhookURL)
		require.NoError(t, err)
		assert.False(t, claimed)

		got, err := repo.GetByURL(ctx, listener.WebhookURL)
		require.NoError(t, err)
		assert.False(t, got.IsActive)

		byExecution, err := repo.ListByExecution(ctx, "e1")
		require.NoError(t, err)
		assert.Len(t, byExecution, 1)

		_, err = repo.Deactivate(ctx, "missing")
		assert.True(t, persistence.IsListenerNotFound(err))
	})
}
