package protocol

import (
	"context"
	"net/http"
	"time"

	"github.com/dukex/hireflow/pkg/models"
)

// SMSProvider sends text messages and returns the provider message id.
type SMSProvider interface {
	SendSMS(ctx context.Context, to, message string) (string, error)
}

// CallProvider places voice calls and returns the provider call id.
type CallProvider interface {
	PlaceCall(ctx context.Context, phoneNumber, script string) (string, error)
}

// EmailMessage is a fully resolved outgoing email.
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EmailProvider delivers emails and returns the provider message id.
type EmailProvider interface {
	SendEmail(ctx context.Context, message EmailMessage) (string, error)
}

// WebhookRegistrar registers callback listeners for suspended executions.
type WebhookRegistrar interface {
	Register(ctx context.Context, workflowID, executionID, nodeID string, timeout time.Duration) (*models.WebhookListener, error)
}

// HTTPDoer performs HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
