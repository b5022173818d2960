package models

import (
	"time"

	"github.com/google/uuid"
)

// WebhookListener maps a generated callback URL to a suspended execution node.
type WebhookListener struct {
	ID          string     `json:"id"`
	WorkflowID  string     `json:"workflow_id"`
	NodeID      string     `json:"node_id"`
	ExecutionID string     `json:"execution_id"`
	WebhookURL  string     `json:"webhook_url"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// NewWebhookListener creates an active listener for executionID/nodeID.
func NewWebhookListener(workflowID, executionID, nodeID, webhookURL string, now time.Time, timeout time.Duration) *WebhookListener {
	listener := &WebhookListener{
		ID:          uuid.New().String(),
		WorkflowID:  workflowID,
		NodeID:      nodeID,
		ExecutionID: executionID,
		WebhookURL:  webhookURL,
		IsActive:    true,
		CreatedAt:   now,
	}

	if timeout > 0 {
		expiresAt := now.Add(timeout)
		listener.ExpiresAt = &expiresAt
	}

	return listener
}

// Expired reports whether the listener is past its expiry at now.
func (l *WebhookListener) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && !now.Before(*l.ExpiresAt)
}
