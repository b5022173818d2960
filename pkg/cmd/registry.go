// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukex/hireflow/pkg/clock"
	"github.com/dukex/hireflow/pkg/listeners"
	"github.com/dukex/hireflow/pkg/providers/noop"
	"github.com/dukex/hireflow/pkg/providers/rest"
	"github.com/dukex/hireflow/pkg/registry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// apiNodeTimeout bounds requests made by api nodes.
const apiNodeTimeout = 30 * time.Second

// ProviderConfig selects the messaging gateway. An empty URL falls back to
// providers that only log.
type ProviderConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// NewRegistry registers every built-in node type, wired to the configured
// messaging providers and the webhook listener registry.
func NewRegistry(logger *slog.Logger, providers ProviderConfig, webhooks *listeners.Registry, c clock.Clock) (*registry.Registry, error) {
	reg := registry.NewRegistry(logger)

	deps := registry.Dependencies{
		HTTPClient: &http.Client{
			Timeout:   apiNodeTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Webhooks: webhooks,
		Clock:    c,
		Logger:   logger,
	}

	if providers.URL == "" {
		logger.Warn("No provider url configured, messages will only be logged")

		provider := noop.NewProvider(logger)
		deps.SMS, deps.Call, deps.Email = provider, provider, provider
	} else {
		client, err := rest.NewClient(providers.URL, providers.APIKey, logger, rest.WithTimeout(providers.Timeout))
		if err != nil {
			return nil, err
		}

		deps.SMS, deps.Call, deps.Email = client, client, client
	}

	reg.RegisterDefaultNodes(deps)

	return reg, nil
}
