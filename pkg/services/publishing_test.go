package services

import (
	"testing"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishing_ActivateAndDeactivate(t *testing.T) {
	workflows, _, _ := newService(t)
	publishing := NewPublishing(workflows)

	created, _, err := workflows.Create(t.Context(), simpleWorkflow())
	require.NoError(t, err)

	active, err := publishing.Activate(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusActive, active.Status)

	again, err := publishing.Activate(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusActive, again.Status)

	inactive, err := publishing.Deactivate(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusInactive, inactive.Status)

	stored, err := workflows.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusInactive, stored.Status)
}

func TestPublishing_ActivateRequiresStart(t *testing.T) {
	workflows, _, _ := newService(t)
	publishing := NewPublishing(workflows)

	workflow := simpleWorkflow()
	workflow.Nodes = workflow.Nodes[1:]
	workflow.Connections = workflow.Connections[1:]

	created, _, err := workflows.Create(t.Context(), workflow)
	require.NoError(t, err)

	_, err = publishing.Activate(t.Context(), created.ID)
	require.ErrorIs(t, err, ErrStartNodeRequired)

	stored, err := workflows.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusDraft, stored.Status)

	_, err = publishing.Activate(t.Context(), "missing")
	assert.True(t, IsNotFoundError(err))
}
