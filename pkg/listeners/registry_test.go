package listeners_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dukex/hireflow/pkg/clock"
	"github.com/dukex/hireflow/pkg/listeners"
	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/persistence"
	"github.com/dukex/hireflow/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) (*listeners.Registry, *clock.Fake) {
	t.Helper()

	fake := clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	repo := file.NewPersistence(t.TempDir()).WebhookListenerRepository()

	return listeners.NewRegistry(slog.Default(), repo, "http://localhost:3000/", fake), fake
}

func TestRegistry_URL(t *testing.T) {
	r, _ := newRegistry(t)

	assert.Equal(t, "http://localhost:3000/api/webhook/exec-1/wait", r.URL("exec-1", "wait"))
	assert.Equal(t, "http://localhost:3000/api/webhook/exec%201/a%2Fb", r.URL("exec 1", "a/b"))
}

func TestRegistry_RegisterFindDeactivate(t *testing.T) {
	ctx := t.Context()
	r, fake := newRegistry(t)

	listener, err := r.Register(ctx, "wf-1", "exec-1", "wait", time.Hour)
	require.NoError(t, err)
	assert.True(t, listener.IsActive)
	require.NotNil(t, listener.ExpiresAt)
	assert.Equal(t, fake.Now().Add(time.Hour), *listener.ExpiresAt)

	found, err := r.Find(ctx, listener.WebhookURL)
	require.NoError(t, err)
	assert.Equal(t, "exec-1", found.ExecutionID)

	found, err = r.FindFor(ctx, "exec-1", "wait")
	require.NoError(t, err)
	assert.Equal(t, listener.ID, found.ID)

	claimed, err := r.Deactivate(ctx, listener.WebhookURL)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = r.Deactivate(ctx, listener.WebhookURL)
	require.NoError(t, err)
	assert.False(t, claimed)

	_, err = r.FindFor(ctx, "exec-2", "wait")
	assert.True(t, persistence.IsListenerNotFound(err))
}

func TestRegistry_RegisterWithoutTimeout(t *testing.T) {
	r, _ := newRegistry(t)

	listener, err := r.Register(t.Context(), "wf-1", "exec-1", "wait", 0)
	require.NoError(t, err)
	assert.Nil(t, listener.ExpiresAt)
}

func TestRegistry_DeactivateExecution(t *testing.T) {
	ctx := t.Context()
	r, _ := newRegistry(t)

	_, err := r.Register(ctx, "wf-1", "exec-1", "a", time.Hour)
	require.NoError(t, err)
	_, err = r.Register(ctx, "wf-1", "exec-1", "b", time.Hour)
	require.NoError(t, err)
	other, err := r.Register(ctx, "wf-1", "exec-2", "a", time.Hour)
	require.NoError(t, err)

	require.NoError(t, r.DeactivateExecution(ctx, "exec-1"))

	for _, node := range []string{"a", "b"} {
		l, err := r.FindFor(ctx, "exec-1", node)
		require.NoError(t, err)
		assert.False(t, l.IsActive, node)
	}

	l, err := r.Find(ctx, other.WebhookURL)
	require.NoError(t, err)
	assert.True(t, l.IsActive)
}

func TestRegistry_Expire(t *testing.T) {
	ctx := t.Context()
	r, fake := newRegistry(t)

	_, err := r.Register(ctx, "wf-1", "short", "wait", time.Minute)
	require.NoError(t, err)
	_, err = r.Register(ctx, "wf-1", "long", "wait", time.Hour)
	require.NoError(t, err)
	_, err = r.Register(ctx, "wf-1", "forever", "wait", 0)
	require.NoError(t, err)

	var expired []string

	onExpired := func(_ context.Context, l *models.WebhookListener) error {
		expired = append(expired, l.ExecutionID)

		return nil
	}

	n, err := r.Expire(ctx, onExpired)
	require.NoError(t, err)
	assert.Zero(t, n)

	fake.Advance(2 * time.Minute)

	n, err = r.Expire(ctx, onExpired)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"short"}, expired)

	fake.Advance(2 * time.Hour)

	n, err = r.Expire(ctx, onExpired)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"short", "long"}, expired)

	n, err = r.Expire(ctx, onExpired)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRegistry_ExpireReportsCallbackError(t *testing.T) {
	ctx := t.Context()
	r, fake := newRegistry(t)

	_, err := r.Register(ctx, "wf-1", "exec-1", "wait", time.Second)
	require.NoError(t, err)

	fake.Advance(time.Minute)

	boom := errors.New("boom")
	n, err := r.Expire(ctx, func(context.Context, *models.WebhookListener) error { return boom })
	assert.Equal(t, 1, n)
	require.ErrorIs(t, err, boom)
}
