package postgresql_test

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/persistence"
	"github.com/dukex/hireflow/pkg/persistence/postgresql"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	for _, table := range []string{"webhook_listeners", "workflow_executions", "workflows", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	require.NoError(t, db.Close())
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context, string) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping PostgreSQL container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("hireflow_test"),
			postgres.WithUsername("hireflow"),
			postgres.WithPassword("hireflow"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)
		require.NoError(t, p.Close(ctx))
		cancel()
	})

	return p, ctx, databaseURL
}

func TestNewPersistence_Migrations(t *testing.T) {
	_, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer db.Close()

	var version int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 2, version)

	for _, table := range []string{"workflows", "workflow_executions", "webhook_listeners"} {
		var exists bool
		err := db.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = $1)", table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, table)
	}
}

func TestWorkflowRepository(t *testing.T) {
	p, ctx, _ := setupTestDB(t)
	repo := p.WorkflowRepository()

	workflow := &models.Workflow{
		ID:          "wf-1",
		Name:        "Screening",
		Description: "Phone screening flow",
		Status:      models.WorkflowStatusActive,
		Nodes: []*models.WorkflowNode{
			{ID: "start", Type: models.NodeTypeStart, Name: "Start"},
			{ID: "sms", Type: models.NodeTypeSMS, Data: map[string]any{"recipient": "{{candidate.phone}}"}},
		},
		Connections: []*models.Connection{{ID: "c1", From: "start", To: "sms"}},
		CreatedBy:   "recruiter",
	}
	require.NoError(t, repo.Save(ctx, workflow))

	got, err := repo.GetByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Screening", got.Name)
	assert.Equal(t, models.WorkflowStatusActive, got.Status)
	require.Len(t, got.Nodes, 2)
	assert.Equal(t, "{{candidate.phone}}", got.Nodes[1].Data["recipient"])
	assert.Nil(t, got.LastRun)

	now := time.Now().UTC().Truncate(time.Millisecond)
	got.LastRun = &now
	got.Name = "Screening v2"
	require.NoError(t, repo.Save(ctx, got))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Screening v2", all[0].Name)
	require.NotNil(t, all[0].LastRun)
	assert.WithinDuration(t, now, *all[0].LastRun, time.Millisecond)

	require.NoError(t, repo.Delete(ctx, "wf-1"))
	_, err = repo.GetByID(ctx, "wf-1")
	assert.True(t, persistence.IsWorkflowNotFound(err))
	assert.True(t, persistence.IsWorkflowNotFound(repo.Delete(ctx, "wf-1")))
}

func TestExecutionRepository_Ring(t *testing.T) {
	p, ctx, _ := setupTestDB(t)
	repo := p.ExecutionRepository()

	for i := range persistence.MaxRetainedExecutions + 1 {
		execution := &models.WorkflowExecution{
			ID:         fmt.Sprintf("e%03d", i),
			WorkflowID: "wf-1",
			Status:     models.ExecutionStatusRunning,
			StartTime:  time.Now().UTC(),
		}
		require.NoError(t, repo.Save(ctx, execution))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, persistence.MaxRetainedExecutions)
	assert.Equal(t, "e100", list[0].ID)

	_, err = repo.GetByID(ctx, "e000")
	assert.True(t, persistence.IsExecutionNotFound(err))

	updated, err := repo.GetByID(ctx, "e050")
	require.NoError(t, err)
	updated.Status = models.ExecutionStatusSuccess
	require.NoError(t, repo.Save(ctx, updated))

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "e100", list[0].ID)
	assert.Equal(t, models.ExecutionStatusSuccess, list[50].Status)
}

func TestWebhookListenerRepository(t *testing.T) {
	p, ctx, _ := setupTestDB(t)
	repo := p.WebhookListenerRepository()

	listener := models.NewWebhookListener("wf-1", "e1", "wait",
		"http://localhost:3000/api/webhook/e1/wait", time.Now().UTC(), time.Hour)
	require.NoError(t, repo.Save(ctx, listener))

	got, err := repo.GetByURL(ctx, listener.WebhookURL)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	require.NotNil(t, got.ExpiresAt)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	claimed, err := repo.Deactivate(ctx, listener.WebhookURL)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.Deactivate(ctx, listener.WebhookURL)
	require.NoError(t, err)
	assert.False(t, claimed)

	byExecution, err := repo.ListByExecution(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, byExecution, 1)
	assert.False(t, byExecution[0].IsActive)

	_, err = repo.Deactivate(ctx, "http://localhost:3000/api/webhook/none/none")
	assert.True(t, persistence.IsListenerNotFound(err))
}
