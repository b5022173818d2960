package eventbus_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/hireflow/pkg/channels/gochannel"
	"github.com/dukex/hireflow/pkg/eventbus"
	"github.com/dukex/hireflow/pkg/events"
	"github.com/dukex/hireflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillEventBus_PublishSubscribe(t *testing.T) {
	pub, sub, err := gochannel.CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(slog.Default(), pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	received := make(chan *events.ExecutionCompleted, 1)

	require.NoError(t, bus.Handle(events.ExecutionCompletedEvent, func(_ context.Context, event any) error {
		received <- event.(*events.ExecutionCompleted)

		return nil
	}))

	require.NoError(t, bus.Subscribe(t.Context()))

	execution := &models.WorkflowExecution{ID: "e1", WorkflowID: "wf-1"}
	completed := events.ExecutionCompleted{
		BaseEvent:  events.NewBaseEvent(bus.GenerateID(), events.ExecutionCompletedEvent, execution, time.Now().UTC()),
		DurationMs: 1200,
	}

	// events with no handler are dropped
	require.NoError(t, bus.Publish(t.Context(), "e1", events.ExecutionStarted{
		BaseEvent: events.NewBaseEvent(bus.GenerateID(), events.ExecutionStartedEvent, execution, time.Now().UTC()),
	}))
	require.NoError(t, bus.Publish(t.Context(), "e1", completed))

	select {
	case event := <-received:
		assert.Equal(t, "e1", event.ExecutionID)
		assert.Equal(t, "wf-1", event.WorkflowID)
		assert.Equal(t, int64(1200), event.DurationMs)
	case <-time.After(5 * time.Second):
		t.Fatal("event was not delivered")
	}
}
