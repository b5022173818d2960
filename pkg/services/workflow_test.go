package services

import (
	"errors"
	"testing"
	"time"

	"github.com/dukex/hireflow/pkg/clock"
	"github.com/dukex/hireflow/pkg/graph"
	"github.com/dukex/hireflow/pkg/mocks"
	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/persistence/file"
	"github.com/dukex/hireflow/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type nodeTypeSet map[models.NodeType]bool

func (s nodeTypeSet) HasNode(nodeType models.NodeType) bool {
	return s[nodeType]
}

var knownTypes = nodeTypeSet{
	models.NodeTypeStart:           true,
	models.NodeTypeEnd:             true,
	models.NodeTypeSMS:             true,
	models.NodeTypeCondition:       true,
	models.NodeTypeWebhookListener: true,
}

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*Workflow, *file.Persistence, *clock.Fake) {
	t.Helper()

	store := file.NewPersistence(t.TempDir())
	fake := clock.NewFake(testNow)

	return NewWorkflow(store, knownTypes, fake), store, fake
}

func simpleWorkflow() *models.Workflow {
	return &models.Workflow{
		Name:        "Interview follow-up",
		Description: "texts the candidate",
		Nodes: []*models.WorkflowNode{
			testutil.CreateTestNode("start", models.NodeTypeStart),
			testutil.CreateTestNode("sms", models.NodeTypeSMS),
			testutil.CreateTestNode("end", models.NodeTypeEnd),
		},
		Connections: []*models.Connection{
			testutil.Connect("start", "sms"),
			testutil.Connect("sms", "end"),
		},
		CreatedBy: "recruiter@example.com",
	}
}

func TestWorkflow_Create(t *testing.T) {
	service, store, _ := newService(t)

	created, report, err := service.Create(t.Context(), simpleWorkflow())
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.WorkflowStatusDraft, created.Status)
	assert.Equal(t, testNow, created.CreatedAt)
	assert.Equal(t, testNow, created.UpdatedAt)
	assert.False(t, report.HasWarnings())

	stored, err := store.WorkflowRepository().GetByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, stored.Name)
	assert.Len(t, stored.Nodes, 3)
}

func TestWorkflow_CreateWithTakenIDIsConflict(t *testing.T) {
	service, _, _ := newService(t)

	first := simpleWorkflow()
	first.ID = "onboarding"

	_, _, err := service.Create(t.Context(), first)
	require.NoError(t, err)

	second := simpleWorkflow()
	second.ID = "onboarding"

	_, _, err = service.Create(t.Context(), second)
	require.Error(t, err)
	assert.True(t, IsConflictError(err))

	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, CodeConflict, serviceErr.Code)
}

func TestWorkflow_Validate(t *testing.T) {
	service, _, _ := newService(t)

	tests := []struct {
		name    string
		mutate  func(*models.Workflow)
		wantErr error
		warning error
	}{
		{
			name:    "name too short",
			mutate:  func(w *models.Workflow) { w.Name = "x" },
			wantErr: ErrInvalidRequest,
		},
		{
			name: "unknown node type",
			mutate: func(w *models.Workflow) {
				w.Nodes = append(w.Nodes, testutil.CreateTestNode("fax", models.NodeType("fax")))
			},
			wantErr: ErrUnknownNodeType,
		},
		{
			name:    "dangling connection",
			mutate:  func(w *models.Workflow) { w.Connections = append(w.Connections, testutil.Connect("sms", "ghost")) },
			wantErr: graph.ErrDanglingConnection,
		},
		{
			name:    "cycle",
			mutate:  func(w *models.Workflow) { w.Connections = append(w.Connections, testutil.Connect("end", "sms")) },
			wantErr: graph.ErrCycleDetected,
		},
		{
			name:    "branch on non condition node",
			mutate:  func(w *models.Workflow) { w.Connections[1].Branch = models.BranchTrue },
			wantErr: graph.ErrInvalidBranch,
		},
		{
			name: "active without start",
			mutate: func(w *models.Workflow) {
				w.Status = models.WorkflowStatusActive
				w.Nodes = w.Nodes[1:]
				w.Connections = w.Connections[1:]
			},
			wantErr: ErrStartNodeRequired,
		},
		{
			name: "unreachable node is a warning",
			mutate: func(w *models.Workflow) {
				w.Nodes = append(w.Nodes, testutil.CreateTestNode("orphan", models.NodeTypeSMS))
			},
			warning: graph.ErrUnreachableNode,
		},
		{
			name: "draft without start is a warning",
			mutate: func(w *models.Workflow) {
				w.Nodes = w.Nodes[1:]
				w.Connections = w.Connections[1:]
			},
			warning: graph.ErrMissingStartNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workflow := simpleWorkflow()
			tt.mutate(workflow)

			report, err := service.Validate(workflow)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsValidationError(err))

				return
			}

			require.NoError(t, err)
			require.True(t, report.HasWarnings())
			assert.True(t, errors.Is(report.Warnings[0], tt.warning))
		})
	}
}

func TestWorkflow_Update(t *testing.T) {
	service, _, fake := newService(t)

	created, _, err := service.Create(t.Context(), simpleWorkflow())
	require.NoError(t, err)

	fake.Advance(time.Hour)

	replacement := simpleWorkflow()
	replacement.Name = "Interview follow-up v2"
	replacement.CreatedBy = "someone-else"

	updated, _, err := service.Update(t.Context(), created.ID, replacement)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Interview follow-up v2", updated.Name)
	assert.Equal(t, "recruiter@example.com", updated.CreatedBy)
	assert.Equal(t, testNow, updated.CreatedAt)
	assert.Equal(t, testNow.Add(time.Hour), updated.UpdatedAt)
	assert.Equal(t, models.WorkflowStatusDraft, updated.Status)
}

func TestWorkflow_UpdateMissing(t *testing.T) {
	service, _, _ := newService(t)

	_, _, err := service.Update(t.Context(), "missing", simpleWorkflow())
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestWorkflow_Delete(t *testing.T) {
	service, _, _ := newService(t)

	created, _, err := service.Create(t.Context(), simpleWorkflow())
	require.NoError(t, err)

	require.NoError(t, service.Delete(t.Context(), created.ID))

	_, err = service.FetchByID(t.Context(), created.ID)
	assert.True(t, IsNotFoundError(err))

	err = service.Delete(t.Context(), created.ID)
	assert.True(t, IsNotFoundError(err))
}

func TestWorkflow_List(t *testing.T) {
	service, _, fake := newService(t)

	first, _, err := service.Create(t.Context(), simpleWorkflow())
	require.NoError(t, err)

	fake.Advance(time.Minute)

	second, _, err := service.Create(t.Context(), simpleWorkflow())
	require.NoError(t, err)

	workflows, err := service.List(t.Context())
	require.NoError(t, err)
	require.Len(t, workflows, 2)
	assert.Equal(t, second.ID, workflows[0].ID)
	assert.Equal(t, first.ID, workflows[1].ID)
}

func TestWorkflow_HealthCheck(t *testing.T) {
	store := mocks.NewMockPersistence()
	store.On("HealthCheck", mock.Anything).Return(errors.New("disk full"))

	service := NewWorkflow(store, knownTypes, nil)

	message, ok := service.HealthCheck(t.Context())
	assert.False(t, ok)
	assert.Contains(t, message, "disk full")

	healthy, _, _ := newService(t)

	_, ok = healthy.HealthCheck(t.Context())
	assert.True(t, ok)
}
