package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPersistence(t *testing.T) {
	p := NewPersistence("file:///tmp/test")
	assert.Equal(t, "/tmp/test", p.root)
}

func TestHealthCheck(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested")
	p := NewPersistence(root)

	require.NoError(t, p.HealthCheck(t.Context()))

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func testWorkflow(id string, created time.Time) *models.Workflow {
	return &models.Workflow{
		ID:     id,
		Name:   "Workflow " + id,
		Status: models.WorkflowStatusDraft,
		Nodes: []*models.WorkflowNode{
			{ID: "start", Type: models.NodeTypeStart},
			{ID: "end", Type: models.NodeTypeEnd},
		},
		Connections: []*models.Connection{{ID: "c1", From: "start", To: "end"}},
		CreatedAt:   created,
	}
}

func TestWorkflowRepository_CRUD(t *testing.T) {
	ctx := t.Context()
	repo := NewPersistence(t.TempDir()).WorkflowRepository()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, testWorkflow("wf-1", base)))
	require.NoError(t, repo.Save(ctx, testWorkflow("wf-2", base.Add(time.Hour))))

	got, err := repo.GetByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Workflow wf-1", got.Name)
	assert.Len(t, got.Nodes, 2)
	assert.False(t, got.UpdatedAt.IsZero())

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "wf-2", all[0].ID)

	require.NoError(t, repo.Delete(ctx, "wf-1"))

	_, err = repo.GetByID(ctx, "wf-1")
	assert.True(t, persistence.IsWorkflowNotFound(err))

	err = repo.Delete(ctx, "wf-1")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowRepository_GetAllEmpty(t *testing.T) {
	repo := NewPersistence(t.TempDir()).WorkflowRepository()

	all, err := repo.GetAll(t.Context())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestWorkflowRepository_RejectsTraversal(t *testing.T) {
	repo := NewPersistence(t.TempDir()).WorkflowRepository()

	for _, id := range []string{"", "../escape", "a/b", `a\b`} {
		_, err := repo.GetByID(t.Context(), id)
		require.ErrorIs(t, err, persistence.ErrInvalidID, id)
	}
}

func newExecution(id string) *models.WorkflowExecution {
	return &models.WorkflowExecution{
		ID:         id,
		WorkflowID: "wf-1",
		Status:     models.ExecutionStatusRunning,
		StartTime:  time.Now().UTC(),
	}
}

func TestExecutionRepository_SaveAndUpdateKeepsPosition(t *testing.T) {
	ctx := t.Context()
	repo := NewPersistence(t.TempDir()).ExecutionRepository()

	require.NoError(t, repo.Save(ctx, newExecution("e1")))
	require.NoError(t, repo.Save(ctx, newExecution("e2")))

	updated := newExecution("e1")
	updated.Status = models.ExecutionStatusSuccess
	require.NoError(t, repo.Save(ctx, updated))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "e2", list[0].ID)
	assert.Equal(t, "e1", list[1].ID)
	assert.Equal(t, models.ExecutionStatusSuccess, list[1].Status)

	got, err := repo.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusSuccess, got.Status)
}

func TestExecutionRepository_EvictsOldest(t *testing.T) {
	ctx := t.Context()
	repo := NewPersistence(t.TempDir()).ExecutionRepository()

	for i := range persistence.MaxRetainedExecutions + 1 {
		require.NoError(t, repo.Save(ctx, newExecution(fmt.Sprintf("e%03d", i))))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, persistence.MaxRetainedExecutions)
	assert.Equal(t, "e100", list[0].ID)
	assert.Equal(t, "e001", list[len(list)-1].ID)

	_, err = repo.GetByID(ctx, "e000")
	assert.True(t, persistence.IsExecutionNotFound(err))
}

func TestExecutionRepository_ListEmpty(t *testing.T) {
	repo := NewPersistence(t.TempDir()).ExecutionRepository()

	list, err := repo.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWebhookListenerRepository(t *testing.T) {
	ctx := t.Context()
	repo := NewPersistence(t.TempDir()).WebhookListenerRepository()
	now := time.Now().UTC()

	l1 := models.NewWebhookListener("wf-1", "e1", "wait", "http://localhost/api/webhook/e1/wait", now, time.Hour)
	l2 := models.NewWebhookListener("wf-1", "e2", "wait", "http://localhost/api/webhook/e2/wait", now.Add(time.Second), 0)
	require.NoError(t, repo.Save(ctx, l1))
	require.NoError(t, repo.Save(ctx, l2))

	got, err := repo.GetByURL(ctx, l1.WebhookURL)
	require.NoError(t, err)
	assert.Equal(t, "e1", got.ExecutionID)
	assert.True(t, got.IsActive)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	claimed, err := repo.Deactivate(ctx, l1.WebhookURL)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.Deactivate(ctx, l1.WebhookURL)
	require.NoError(t, err)
	assert.False(t, claimed)

	active, err = repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "e2", active[0].ExecutionID)

	byExec, err := repo.ListByExecution(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, byExec, 1)
	assert.False(t, byExec[0].IsActive)

	_, err = repo.Deactivate(ctx, "http://localhost/api/webhook/missing/x")
	assert.True(t, persistence.IsListenerNotFound(err))
}

func TestWebhookListenerRepository_ConcurrentClaim(t *testing.T) {
	ctx := t.Context()
	repo := NewPersistence(t.TempDir()).WebhookListenerRepository()
	listener := models.NewWebhookListener("wf-1", "e1", "wait", "http://localhost/api/webhook/e1/wait", time.Now(), 0)
	require.NoError(t, repo.Save(ctx, listener))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			claimed, err := repo.Deactivate(ctx, listener.WebhookURL)
			assert.NoError(t, err)

			if claimed {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, wins)
}
