package control

import (
	"context"
	"testing"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerNodes(t *testing.T) {
	tests := []struct {
		name    string
		factory func() *MarkerNodeFactory
		typ     models.NodeType
		message string
	}{
		{"start", func() *MarkerNodeFactory { return NewStartNodeFactory().(*MarkerNodeFactory) }, models.NodeTypeStart, "Workflow started"},
		{"end", func() *MarkerNodeFactory { return NewEndNodeFactory().(*MarkerNodeFactory) }, models.NodeTypeEnd, "Reached end of workflow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := tt.factory()
			assert.Equal(t, string(tt.typ), factory.ID())
			assert.NotEmpty(t, factory.Name())
			assert.NotEmpty(t, factory.Description())

			node := testutil.CreateTestNode(tt.name, tt.typ)
			run := testutil.NewTestRun(node, models.ExecutionContext{Variables: map[string]any{"a": 1}})

			handler, err := factory.Create(context.Background(), node.ID, node.Data)
			require.NoError(t, err)
			assert.Equal(t, tt.name, handler.ID())

			result, err := handler.Execute(context.Background(), run)
			require.NoError(t, err)
			assert.False(t, result.Suspend)
			assert.Equal(t, map[string]any{"a": 1}, run.Context().Variables)

			require.Len(t, run.Execution.Logs, 1)
			assert.Equal(t, tt.message, run.Execution.Logs[0].Message)
			assert.Equal(t, models.LogLevelInfo, run.Execution.Logs[0].Level)
		})
	}
}
