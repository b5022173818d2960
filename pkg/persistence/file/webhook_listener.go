package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/persistence"
)

// WebhookListenerRepository keeps listeners keyed by callback URL in
// webhook_listeners.json.
type WebhookListenerRepository struct {
	root string
	mu   sync.Mutex
}

// NewWebhookListenerRepository creates a new listener repository.
func NewWebhookListenerRepository(root string) *WebhookListenerRepository {
	return &WebhookListenerRepository{root: root}
}

func (lr *WebhookListenerRepository) path() string {
	return filepath.Join(lr.root, "webhook_listeners.json")
}

func (lr *WebhookListenerRepository) load() (map[string]*models.WebhookListener, error) {
	listeners := make(map[string]*models.WebhookListener)

	err := readJSON(lr.path(), &listeners)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	return listeners, nil
}

func (lr *WebhookListenerRepository) Save(_ context.Context, listener *models.WebhookListener) error {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	listeners, err := lr.load()
	if err != nil {
		return persistence.NewListenerError("Save", listener.WebhookURL, err)
	}

	listeners[listener.WebhookURL] = listener

	if err := writeJSON(lr.path(), listeners); err != nil {
		return persistence.NewListenerError("Save", listener.WebhookURL, err)
	}

	return nil
}

func (lr *WebhookListenerRepository) GetByURL(_ context.Context, webhookURL string) (*models.WebhookListener, error) {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	listeners, err := lr.load()
	if err != nil {
		return nil, persistence.NewListenerError("GetByURL", webhookURL, err)
	}

	listener, ok := listeners[webhookURL]
	if !ok {
		return nil, persistence.NewListenerError("GetByURL", webhookURL, persistence.ErrListenerNotFound)
	}

	return listener, nil
}

func (lr *WebhookListenerRepository) Deactivate(_ context.Context, webhookURL string) (bool, error) {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	listeners, err := lr.load()
	if err != nil {
		return false, persistence.NewListenerError("Deactivate", webhookURL, err)
	}

	listener, ok := listeners[webhookURL]
	if !ok {
		return false, persistence.NewListenerError("Deactivate", webhookURL, persistence.ErrListenerNotFound)
	}

	if !listener.IsActive {
		return false, nil
	}

	listener.IsActive = false

	if err := writeJSON(lr.path(), listeners); err != nil {
		return false, persistence.NewListenerError("Deactivate", webhookURL, err)
	}

	return true, nil
}

func (lr *WebhookListenerRepository) ListActive(_ context.Context) ([]*models.WebhookListener, error) {
	return lr.filter("ListActive", func(l *models.WebhookListener) bool { return l.IsActive })
}

func (lr *WebhookListenerRepository) ListByExecution(_ context.Context, executionID string) ([]*models.WebhookListener, error) {
	return lr.filter("ListByExecution", func(l *models.WebhookListener) bool { return l.ExecutionID == executionID })
}

func (lr *WebhookListenerRepository) filter(op string, keep func(*models.WebhookListener) bool) ([]*models.WebhookListener, error) {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	listeners, err := lr.load()
	if err != nil {
		return nil, persistence.NewListenerError(op, "", err)
	}

	result := make([]*models.WebhookListener, 0)

	for _, listener := range listeners {
		if keep(listener) {
			result = append(result, listener)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}
