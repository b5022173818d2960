// Package delay provides the node that pauses a run for a fixed duration.
package delay

import (
	"context"
	"strings"
	"time"

	"github.com/dukex/hireflow/pkg/clock"
	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/protocol"
)

var units = map[string]time.Duration{
	"seconds": time.Second,
	"minutes": time.Minute,
	"hours":   time.Hour,
	"days":    24 * time.Hour,
}

// DelayNode blocks the run for duration x unit on a real, cancellable timer.
type DelayNode struct {
	id       string
	duration time.Duration
	clock    clock.Clock
}

// NewDelayNode parses duration and unit. The unit defaults to seconds and
// accepts the singular spelling.
func NewDelayNode(id string, config map[string]any, c clock.Clock) (*DelayNode, error) {
	unitName := strings.ToLower(protocol.ConfigString(config, "unit"))
	if unitName == "" {
		unitName = "seconds"
	}

	if !strings.HasSuffix(unitName, "s") {
		unitName += "s"
	}

	unit, ok := units[unitName]
	if !ok {
		return nil, protocol.InvalidConfig("unit", "must be one of seconds, minutes, hours, days")
	}

	duration, ok, err := protocol.ConfigDuration(config, "duration", unit)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, protocol.MissingField("duration")
	}

	return &DelayNode{
		id:       id,
		duration: duration,
		clock:    c,
	}, nil
}

func (n *DelayNode) ID() string {
	return n.id
}

func (n *DelayNode) Type() models.NodeType {
	return models.NodeTypeDelay
}

// Duration returns the configured wait.
func (n *DelayNode) Duration() time.Duration {
	return n.duration
}

func (n *DelayNode) Execute(ctx context.Context, run *protocol.Run) (protocol.Result, error) {
	run.Logf(models.LogLevelInfo, "Waiting %s", n.duration)

	if err := clock.Sleep(ctx, n.clock, n.duration); err != nil {
		return protocol.Continue, err
	}

	run.Logf(models.LogLevelInfo, "Delay of %s elapsed", n.duration)

	return protocol.Continue, nil
}
