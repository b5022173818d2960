package registry

import (
	"log/slog"

	"github.com/dukex/hireflow/pkg/clock"
	"github.com/dukex/hireflow/pkg/nodes/api"
	"github.com/dukex/hireflow/pkg/nodes/call"
	"github.com/dukex/hireflow/pkg/nodes/condition"
	"github.com/dukex/hireflow/pkg/nodes/control"
	"github.com/dukex/hireflow/pkg/nodes/database"
	"github.com/dukex/hireflow/pkg/nodes/delay"
	"github.com/dukex/hireflow/pkg/nodes/email"
	"github.com/dukex/hireflow/pkg/nodes/sms"
	"github.com/dukex/hireflow/pkg/nodes/webhook"
	"github.com/dukex/hireflow/pkg/nodes/webhooklistener"
	"github.com/dukex/hireflow/pkg/protocol"
)

// Dependencies are the collaborators built-in nodes call out to.
type Dependencies struct {
	SMS        protocol.SMSProvider
	Call       protocol.CallProvider
	Email      protocol.EmailProvider
	HTTPClient protocol.HTTPDoer
	Webhooks   protocol.WebhookRegistrar
	Clock      clock.Clock
	Logger     *slog.Logger
}

// RegisterDefaultNodes registers all built-in node factories with the registry.
func (r *Registry) RegisterDefaultNodes(deps Dependencies) {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}

	if deps.Logger == nil {
		deps.Logger = r.logger
	}

	r.RegisterNode(control.NewStartNodeFactory())
	r.RegisterNode(control.NewEndNodeFactory())

	r.RegisterNode(sms.NewSMSNodeFactory(deps.SMS))
	r.RegisterNode(call.NewCallNodeFactory(deps.Call))
	r.RegisterNode(email.NewEmailNodeFactory(deps.Email))

	r.RegisterNode(api.NewAPINodeFactory(deps.HTTPClient))
	r.RegisterNode(webhook.NewWebhookNodeFactory(deps.HTTPClient))
	r.RegisterNode(webhooklistener.NewWebhookListenerNodeFactory(deps.Webhooks))

	r.RegisterNode(delay.NewDelayNodeFactory(deps.Clock))
	r.RegisterNode(condition.NewConditionNodeFactory())
	r.RegisterNode(database.NewDatabaseNodeFactory(deps.Logger))
}
