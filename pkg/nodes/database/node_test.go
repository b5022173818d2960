package database

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseNode_Execute_OnlyLogs(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	node := testutil.CreateTestNode("db", models.NodeTypeDatabase, testutil.WithData(map[string]any{
		"operation": "update",
		"table":     "candidates",
		"query":     "UPDATE candidates SET stage = 'screened' WHERE id = '{{candidate.id}}'",
	}))
	run := testutil.NewTestRun(node, models.ExecutionContext{
		Variables:     map[string]any{"keep": "me"},
		CandidateData: map[string]any{"id": "c-1"},
	})

	handler, err := NewDatabaseNodeFactory(logger).Create(context.Background(), node.ID, node.Data)
	require.NoError(t, err)

	result, err := handler.Execute(context.Background(), run)
	require.NoError(t, err)
	assert.False(t, result.Suspend)
	assert.Equal(t, map[string]any{"keep": "me"}, run.Context().Variables)

	require.Len(t, run.Execution.Logs, 2)
	assert.Contains(t, run.Execution.Logs[0].Message, "update on candidates")
	assert.Contains(t, run.Execution.Logs[1].Message, "id = 'c-1'")
}
