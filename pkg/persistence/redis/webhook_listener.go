package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/persistence"
	"github.com/redis/go-redis/v9"
)

const (
	listenersKey       = keyPrefix + "webhook_listeners"
	activeListenersKey = keyPrefix + "webhook_listeners:active"
)

// WebhookListenerRepository stores listener JSON in a hash keyed by URL.
// Whether a listener is active is tracked by membership in a separate set, so
// claiming it is a single SREM.
type WebhookListenerRepository struct {
	client redis.UniversalClient
}

func NewWebhookListenerRepository(client redis.UniversalClient) *WebhookListenerRepository {
	return &WebhookListenerRepository{client: client}
}

func (r *WebhookListenerRepository) Save(ctx context.Context, listener *models.WebhookListener) error {
	data, err := json.Marshal(listener)
	if err != nil {
		return persistence.NewListenerError("Save", listener.WebhookURL, fmt.Errorf("failed to marshal listener: %w", err))
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, listenersKey, listener.WebhookURL, data)

		if listener.IsActive {
			pipe.SAdd(ctx, activeListenersKey, listener.WebhookURL)
		} else {
			pipe.SRem(ctx, activeListenersKey, listener.WebhookURL)
		}

		return nil
	})
	if err != nil {
		return persistence.NewListenerError("Save", listener.WebhookURL, err)
	}

	return nil
}

func (r *WebhookListenerRepository) GetByURL(ctx context.Context, webhookURL string) (*models.WebhookListener, error) {
	value, err := r.client.HGet(ctx, listenersKey, webhookURL).Result()
	if errors.Is(err, redis.Nil) {
		return nil, persistence.NewListenerError("GetByURL", webhookURL, persistence.ErrListenerNotFound)
	}

	if err != nil {
		return nil, persistence.NewListenerError("GetByURL", webhookURL, err)
	}

	active, err := r.client.SIsMember(ctx, activeListenersKey, webhookURL).Result()
	if err != nil {
		return nil, persistence.NewListenerError("GetByURL", webhookURL, err)
	}

	return decodeListener(value, active)
}

func (r *WebhookListenerRepository) Deactivate(ctx context.Context, webhookURL string) (bool, error) {
	removed, err := r.client.SRem(ctx, activeListenersKey, webhookURL).Result()
	if err != nil {
		return false, persistence.NewListenerError("Deactivate", webhookURL, err)
	}

	if removed == 1 {
		return true, nil
	}

	exists, err := r.client.HExists(ctx, listenersKey, webhookURL).Result()
	if err != nil {
		return false, persistence.NewListenerError("Deactivate", webhookURL, err)
	}

	if !exists {
		return false, persistence.NewListenerError("Deactivate", webhookURL, persistence.ErrListenerNotFound)
	}

	return false, nil
}

func (r *WebhookListenerRepository) ListActive(ctx context.Context) ([]*models.WebhookListener, error) {
	urls, err := r.client.SMembers(ctx, activeListenersKey).Result()
	if err != nil {
		return nil, persistence.NewListenerError("ListActive", "", err)
	}

	listeners := make([]*models.WebhookListener, 0, len(urls))
	if len(urls) == 0 {
		return listeners, nil
	}

	values, err := r.client.HMGet(ctx, listenersKey, urls...).Result()
	if err != nil {
		return nil, persistence.NewListenerError("ListActive", "", err)
	}

	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		listener, err := decodeListener(raw, true)
		if err != nil {
			return nil, err
		}

		listeners = append(listeners, listener)
	}

	sortByCreation(listeners)

	return listeners, nil
}

func (r *WebhookListenerRepository) ListByExecution(ctx context.Context, executionID string) ([]*models.WebhookListener, error) {
	all, err := r.client.HGetAll(ctx, listenersKey).Result()
	if err != nil {
		return nil, persistence.NewListenerError("ListByExecution", "", err)
	}

	active, err := r.client.SMembers(ctx, activeListenersKey).Result()
	if err != nil {
		return nil, persistence.NewListenerError("ListByExecution", "", err)
	}

	activeSet := make(map[string]struct{}, len(active))
	for _, url := range active {
		activeSet[url] = struct{}{}
	}

	listeners := make([]*models.WebhookListener, 0)

	for url, raw := range all {
		_, isActive := activeSet[url]

		listener, err := decodeListener(raw, isActive)
		if err != nil {
			return nil, err
		}

		if listener.ExecutionID == executionID {
			listeners = append(listeners, listener)
		}
	}

	sortByCreation(listeners)

	return listeners, nil
}

func decodeListener(raw string, active bool) (*models.WebhookListener, error) {
	var listener models.WebhookListener
	if err := json.Unmarshal([]byte(raw), &listener); err != nil {
		return nil, fmt.Errorf("failed to unmarshal webhook listener: %w", err)
	}

	listener.IsActive = active

	return &listener, nil
}

func sortByCreation(listeners []*models.WebhookListener) {
	sort.Slice(listeners, func(i, j int) bool {
		return listeners[i].CreatedAt.Before(listeners[j].CreatedAt)
	})
}
