package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingExpirer struct {
	calls   atomic.Int32
	expired int
	err     error
}

func (c *countingExpirer) ExpireListeners(context.Context) (int, error) {
	c.calls.Add(1)

	return c.expired, c.err
}

func TestNewSweeper(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	tests := []struct {
		name     string
		schedule string
		expirer  Expirer
		wantErr  string
		want     string
	}{
		{name: "default schedule", expirer: &countingExpirer{}, want: DefaultSchedule},
		{name: "standard cron", schedule: "*/5 * * * *", expirer: &countingExpirer{}, want: "*/5 * * * *"},
		{name: "invalid cron", schedule: "every now and then", expirer: &countingExpirer{}, wantErr: "invalid sweep schedule"},
		{name: "missing expirer", schedule: "@every 1m", wantErr: "requires an expirer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sweeper, err := NewSweeper(tt.schedule, tt.expirer, logger)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, sweeper.Schedule)
		})
	}
}

func TestSweeper_Sweep(t *testing.T) {
	expirer := &countingExpirer{expired: 2, err: errors.New("store unavailable")}

	sweeper, err := NewSweeper("@every 1h", expirer, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	expired, err := sweeper.Sweep(t.Context())
	require.EqualError(t, err, "store unavailable")
	assert.Equal(t, 2, expired)
	assert.Equal(t, int32(1), expirer.calls.Load())
}

func TestSweeper_StartRunsOnSchedule(t *testing.T) {
	expirer := &countingExpirer{}

	sweeper, err := NewSweeper("@every 1s", expirer, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	require.NoError(t, sweeper.Start(t.Context()))

	assert.Eventually(t, func() bool { return expirer.calls.Load() >= 1 }, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, sweeper.Stop(t.Context()))

	calls := expirer.calls.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, calls, expirer.calls.Load())
}

func TestSweeper_StopWithoutStart(t *testing.T) {
	sweeper, err := NewSweeper("", &countingExpirer{}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	assert.NoError(t, sweeper.Stop(t.Context()))
}
