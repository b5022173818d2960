package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/protocol"
	"github.com/dukex/hireflow/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNode_Execute_PostsEnvelope(t *testing.T) {
	var received Envelope

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	node := testutil.CreateTestNode("hook", models.NodeTypeWebhook, testutil.WithData(map[string]any{"url": server.URL}))
	run := testutil.NewTestRun(node, models.ExecutionContext{
		Variables:     map[string]any{"stage": "interview"},
		CandidateData: map[string]any{"name": "Ada"},
	})

	handler, err := NewWebhookNode(node.ID, node.Data, server.Client())
	require.NoError(t, err)

	_, err = handler.Execute(context.Background(), run)
	require.NoError(t, err)

	assert.Equal(t, run.Execution.ID, received.ExecutionID)
	assert.Equal(t, run.Execution.WorkflowID, received.WorkflowID)
	assert.Equal(t, "interview", received.Data["stage"])
	assert.Equal(t, "Ada", received.Candidate["name"])
	assert.False(t, received.Timestamp.IsZero())
}

func TestWebhookNode_Execute_Non2xxFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("down for maintenance"))
	}))
	defer server.Close()

	node := testutil.CreateTestNode("hook", models.NodeTypeWebhook, testutil.WithData(map[string]any{"url": server.URL}))
	run := testutil.NewTestRun(node, models.ExecutionContext{})

	handler, err := NewWebhookNode(node.ID, node.Data, server.Client())
	require.NoError(t, err)

	_, err = handler.Execute(context.Background(), run)
	require.ErrorIs(t, err, protocol.ErrProviderError)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "down for maintenance")
}

func TestWebhookNode_Execute_MissingURL(t *testing.T) {
	node := testutil.CreateTestNode("hook", models.NodeTypeWebhook)

	handler, err := NewWebhookNode(node.ID, node.Data, http.DefaultClient)
	require.NoError(t, err)

	_, err = handler.Execute(context.Background(), testutil.NewTestRun(node, models.ExecutionContext{}))
	assert.ErrorIs(t, err, protocol.ErrMissingField)
}
