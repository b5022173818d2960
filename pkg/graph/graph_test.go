package graph_test

import (
	"errors"
	"testing"

	"github.com/dukex/hireflow/pkg/graph"
	"github.com/dukex/hireflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string, nodeType models.NodeType) *models.WorkflowNode {
	return &models.WorkflowNode{ID: id, Type: nodeType, Data: map[string]any{}}
}

func conn(id, from, to string) *models.Connection {
	return &models.Connection{ID: id, From: from, To: to}
}

func TestNew_OutgoingKeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	g, err := graph.New(
		[]*models.WorkflowNode{node("s", models.NodeTypeStart), node("b", models.NodeTypeSMS), node("a", models.NodeTypeEmail)},
		[]*models.Connection{conn("c1", "s", "b"), conn("c2", "s", "a")},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, g.Successors("s"))
	assert.Len(t, g.Outgoing("s"), 2)
	assert.Equal(t, "c1", g.Outgoing("s")[0].ID)
	assert.Empty(t, g.Successors("a"))
	assert.Nil(t, g.Outgoing("missing"))

	start, err := g.Start()
	require.NoError(t, err)
	assert.Equal(t, "s", start.ID)
}

func TestNew_StructuralErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		nodes       []*models.WorkflowNode
		connections []*models.Connection
		want        error
	}{
		{
			name:        "dangling connection",
			nodes:       []*models.WorkflowNode{node("s", models.NodeTypeStart)},
			connections: []*models.Connection{conn("c1", "s", "ghost")},
			want:        graph.ErrDanglingConnection,
		},
		{
			name:  "duplicate node id",
			nodes: []*models.WorkflowNode{node("s", models.NodeTypeStart), node("x", models.NodeTypeSMS), node("x", models.NodeTypeCall)},
			want:  graph.ErrDuplicateNodeID,
		},
		{
			name:  "multiple start nodes",
			nodes: []*models.WorkflowNode{node("s1", models.NodeTypeStart), node("s2", models.NodeTypeStart)},
			want:  graph.ErrMultipleStartNodes,
		},
		{
			name:  "branch outside condition",
			nodes: []*models.WorkflowNode{node("s", models.NodeTypeStart), node("e", models.NodeTypeEnd)},
			connections: []*models.Connection{
				{ID: "c1", From: "s", To: "e", Branch: models.BranchTrue},
			},
			want: graph.ErrInvalidBranch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := graph.New(tt.nodes, tt.connections)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var graphErr *graph.Error
			assert.True(t, errors.As(err, &graphErr))
		})
	}
}

func TestGraph_MissingStart(t *testing.T) {
	t.Parallel()

	g, err := graph.New([]*models.WorkflowNode{node("a", models.NodeTypeSMS)}, nil)
	require.NoError(t, err)

	_, err = g.Start()
	assert.ErrorIs(t, err, graph.ErrMissingStartNode)
}

func TestCheckAcyclic(t *testing.T) {
	t.Parallel()

	nodes := []*models.WorkflowNode{node("s", models.NodeTypeStart), node("a", models.NodeTypeSMS), node("b", models.NodeTypeCall)}

	g, err := graph.New(nodes, []*models.Connection{conn("c1", "s", "a"), conn("c2", "a", "b"), conn("c3", "b", "a")})
	require.NoError(t, err)
	assert.ErrorIs(t, g.CheckAcyclic(), graph.ErrCycleDetected)

	g, err = graph.New(nodes, []*models.Connection{conn("c1", "s", "a"), conn("c2", "s", "b"), conn("c3", "a", "b")})
	require.NoError(t, err)
	assert.NoError(t, g.CheckAcyclic())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("unreachable nodes are warnings", func(t *testing.T) {
		t.Parallel()

		workflow := &models.Workflow{
			Nodes:       []*models.WorkflowNode{node("s", models.NodeTypeStart), node("a", models.NodeTypeSMS), node("orphan", models.NodeTypeEmail)},
			Connections: []*models.Connection{conn("c1", "s", "a")},
		}

		report, err := graph.Validate(workflow)
		require.NoError(t, err)
		require.Len(t, report.Warnings, 1)
		assert.ErrorIs(t, report.Warnings[0], graph.ErrUnreachableNode)
		assert.Equal(t, "orphan", report.Warnings[0].NodeID)
	})

	t.Run("missing start is a warning", func(t *testing.T) {
		t.Parallel()

		report, err := graph.Validate(&models.Workflow{Nodes: []*models.WorkflowNode{node("a", models.NodeTypeSMS)}})
		require.NoError(t, err)
		require.True(t, report.HasWarnings())
		assert.ErrorIs(t, report.Warnings[0], graph.ErrMissingStartNode)
	})

	t.Run("cycle is an error", func(t *testing.T) {
		t.Parallel()

		workflow := &models.Workflow{
			Nodes:       []*models.WorkflowNode{node("s", models.NodeTypeStart), node("a", models.NodeTypeSMS)},
			Connections: []*models.Connection{conn("c1", "s", "a"), conn("c2", "a", "a")},
		}

		_, err := graph.Validate(workflow)
		assert.ErrorIs(t, err, graph.ErrCycleDetected)
	})

	t.Run("empty workflow is valid", func(t *testing.T) {
		t.Parallel()

		report, err := graph.Validate(&models.Workflow{})
		require.NoError(t, err)
		assert.False(t, report.HasWarnings())
	})
}
