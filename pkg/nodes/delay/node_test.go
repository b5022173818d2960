package delay

import (
	"context"
	"testing"
	"time"

	"github.com/dukex/hireflow/pkg/clock"
	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/protocol"
	"github.com/dukex/hireflow/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDelayNode_Units(t *testing.T) {
	tests := []struct {
		config map[string]any
		want   time.Duration
	}{
		{map[string]any{"duration": 5}, 5 * time.Second},
		{map[string]any{"duration": 1, "unit": "minutes"}, time.Minute},
		{map[string]any{"duration": "2", "unit": "hour"}, 2 * time.Hour},
		{map[string]any{"duration": 1.5, "unit": "days"}, 36 * time.Hour},
	}

	for _, tt := range tests {
		node, err := NewDelayNode("d", tt.config, clock.New())
		require.NoError(t, err)
		assert.Equal(t, tt.want, node.Duration())
	}
}

func TestNewDelayNode_InvalidConfig(t *testing.T) {
	_, err := NewDelayNode("d", map[string]any{}, clock.New())
	require.ErrorIs(t, err, protocol.ErrMissingField)

	_, err = NewDelayNode("d", map[string]any{"duration": 1, "unit": "fortnights"}, clock.New())
	require.ErrorIs(t, err, protocol.ErrInvalidConfig)

	_, err = NewDelayNode("d", map[string]any{"duration": -1}, clock.New())
	require.ErrorIs(t, err, protocol.ErrInvalidConfig)

	for _, config := range []map[string]any{
		{"duration": 200000, "unit": "days"},
		{"duration": "NaN"},
		{"duration": "Inf", "unit": "days"},
		{"duration": "-Inf"},
	} {
		_, err = NewDelayNode("d", config, clock.New())
		require.ErrorIs(t, err, protocol.ErrInvalidConfig, "%v", config)
	}

	handler, err := NewDelayNode("d", map[string]any{"duration": 100000, "unit": "days"}, clock.New())
	require.NoError(t, err)
	assert.Equal(t, 100000*24*time.Hour, handler.Duration())
}

func TestDelayNode_Execute_WaitsFullDuration(t *testing.T) {
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	fake := clock.NewAutoFake(start)

	node := testutil.CreateTestNode("d", models.NodeTypeDelay, testutil.WithData(map[string]any{"duration": 1, "unit": "minutes"}))
	handler, err := NewDelayNode(node.ID, node.Data, fake)
	require.NoError(t, err)

	_, err = handler.Execute(context.Background(), testutil.NewTestRun(node, models.ExecutionContext{}))
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Minute}, fake.Waits())
	assert.GreaterOrEqual(t, fake.Now().Sub(start), 60*time.Second)
}

func TestDelayNode_Execute_Cancelled(t *testing.T) {
	fake := clock.NewFake(time.Now())

	node := testutil.CreateTestNode("d", models.NodeTypeDelay, testutil.WithData(map[string]any{"duration": 3, "unit": "days"}))
	handler, err := NewDelayNode(node.ID, node.Data, fake)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = handler.Execute(ctx, testutil.NewTestRun(node, models.ExecutionContext{}))
	assert.ErrorIs(t, err, context.Canceled)
}
