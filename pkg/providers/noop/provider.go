// Package noop provides messaging providers that only log what they would
// send. They are used when no gateway is configured.
package noop

import (
	"context"
	"log/slog"

	"github.com/dukex/hireflow/pkg/protocol"
	"github.com/google/uuid"
)

type Provider struct {
	logger *slog.Logger
}

func NewProvider(logger *slog.Logger) *Provider {
	return &Provider{logger: logger.With("module", "noop_provider")}
}

func (p *Provider) SendSMS(ctx context.Context, to, message string) (string, error) {
	id := uuid.New().String()
	p.logger.InfoContext(ctx, "SMS not sent, no provider configured", "to", to, "length", len(message), "id", id)

	return id, nil
}

func (p *Provider) PlaceCall(ctx context.Context, phoneNumber, _ string) (string, error) {
	id := uuid.New().String()
	p.logger.InfoContext(ctx, "Call not placed, no provider configured", "phone_number", phoneNumber, "id", id)

	return id, nil
}

func (p *Provider) SendEmail(ctx context.Context, message protocol.EmailMessage) (string, error) {
	id := uuid.New().String()
	p.logger.InfoContext(ctx, "Email not sent, no provider configured", "to", message.To, "subject", message.Subject, "id", id)

	return id, nil
}
