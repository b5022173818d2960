package registry

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/dukex/hireflow/pkg/mocks"
	"github.com/dukex/hireflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultRegistry() *Registry {
	registry := NewRegistry(slog.Default())
	registry.RegisterDefaultNodes(Dependencies{
		SMS:        &mocks.MockSMSProvider{},
		Call:       &mocks.MockCallProvider{},
		Email:      &mocks.MockEmailProvider{},
		HTTPClient: http.DefaultClient,
	})

	return registry
}

func TestRegisterDefaultNodes(t *testing.T) {
	registry := newDefaultRegistry()

	expected := []string{
		"api", "call", "condition", "database", "delay", "email",
		"end", "sms", "start", "webhook", "webhook_listener",
	}

	available := registry.GetAvailableNodes()
	require.Len(t, available, len(expected))

	for i, factory := range available {
		assert.Equal(t, expected[i], factory.ID())
		assert.NotEmpty(t, factory.Name())
		assert.NotEmpty(t, factory.Description())
		assert.Equal(t, "object", factory.Schema()["type"])
		assert.True(t, registry.HasNode(models.NodeType(factory.ID())))
	}
}

func TestCreateNode(t *testing.T) {
	registry := newDefaultRegistry()

	handler, err := registry.CreateNode(context.Background(), &models.WorkflowNode{
		ID:   "wait",
		Type: models.NodeTypeDelay,
		Data: map[string]any{"duration": 2, "unit": "minutes"},
	})
	require.NoError(t, err)
	assert.Equal(t, "wait", handler.ID())
	assert.Equal(t, models.NodeTypeDelay, handler.Type())

	_, err = registry.CreateNode(context.Background(), &models.WorkflowNode{ID: "x", Type: "teleport"})
	require.ErrorIs(t, err, ErrUnknownNodeType)
	assert.False(t, registry.HasNode("teleport"))

	_, err = registry.CreateNode(context.Background(), &models.WorkflowNode{ID: "d", Type: models.NodeTypeDelay})
	assert.Error(t, err)
}
