package command

import (
	"context"
	"sync"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-wearables/core"
)

type ToggleService interface {
	PerformToggle(ctx context.Context, integration core.WearableIntegration, desiredEnabled bool, callbacks core.ToggleCallbacks) error
	PerformBackgroundSyncToggle(ctx context.Context, integration core.WearableIntegration, enabled bool, callbacks core.ToggleCallbacks) (core.WearableIntegration, error)
}

type ActivationService interface {
	Activate(ctx context.Context) error
}

// ToggleOutcome summarizes what the toggle workflow reported through its
// callbacks. Err carries the error passed to OnError, if any.
type ToggleOutcome struct {
	ProviderID       string
	DesiredEnabled   bool
	AuthorizationURL string
	Err              error
	RefreshRequested bool
	Integration      core.WearableIntegration
}

func (o ToggleOutcome) Succeeded() bool {
	return o.Err == nil
}

type ToggleIntegrationCommand struct {
	service ToggleService
}

func NewToggleIntegrationCommand(service ToggleService) *ToggleIntegrationCommand {
	return &ToggleIntegrationCommand{service: service}
}

func (c *ToggleIntegrationCommand) Execute(ctx context.Context, msg ToggleIntegrationMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: toggle service is required")
	}
	capture := newOutcomeCapture(msg.Integration.ProviderID, msg.DesiredEnabled)
	if err := c.service.PerformToggle(ctx, msg.Integration, msg.DesiredEnabled, capture.chain(msg.Callbacks)); err != nil {
		return err
	}
	storeResult(ctx, capture.outcome())
	return nil
}

type ToggleBackgroundSyncCommand struct {
	service ToggleService
}

func NewToggleBackgroundSyncCommand(service ToggleService) *ToggleBackgroundSyncCommand {
	return &ToggleBackgroundSyncCommand{service: service}
}

func (c *ToggleBackgroundSyncCommand) Execute(ctx context.Context, msg ToggleBackgroundSyncMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: toggle service is required")
	}
	capture := newOutcomeCapture(msg.Integration.ProviderID, msg.Enabled)
	updated, err := c.service.PerformBackgroundSyncToggle(ctx, msg.Integration, msg.Enabled, capture.chain(msg.Callbacks))
	if err != nil {
		return err
	}
	out := capture.outcome()
	out.Integration = updated
	storeResult(ctx, out)
	return nil
}

type ActivateEngineCommand struct {
	service ActivationService
}

func NewActivateEngineCommand(service ActivationService) *ActivateEngineCommand {
	return &ActivateEngineCommand{service: service}
}

func (c *ActivateEngineCommand) Execute(ctx context.Context, _ ActivateEngineMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: activation service is required")
	}
	return c.service.Activate(ctx)
}

type outcomeCapture struct {
	mu     sync.Mutex
	result ToggleOutcome
}

func newOutcomeCapture(providerID string, desired bool) *outcomeCapture {
	return &outcomeCapture{result: ToggleOutcome{ProviderID: providerID, DesiredEnabled: desired}}
}

// chain records each callback and then forwards it to next.
func (c *outcomeCapture) chain(next core.ToggleCallbacks) core.ToggleCallbacks {
	return core.ToggleCallbacks{
		OnError: func(err error, providerType string, desired bool) {
			c.mu.Lock()
			c.result.Err = err
			c.mu.Unlock()
			if next.OnError != nil {
				next.OnError(err, providerType, desired)
			}
		},
		OnRefreshNeeded: func() {
			c.mu.Lock()
			c.result.RefreshRequested = true
			c.mu.Unlock()
			if next.OnRefreshNeeded != nil {
				next.OnRefreshNeeded()
			}
		},
		OnShowAuthURL: func(url string) {
			c.mu.Lock()
			c.result.AuthorizationURL = url
			c.mu.Unlock()
			if next.OnShowAuthURL != nil {
				next.OnShowAuthURL(url)
			}
		},
	}
}

func (c *outcomeCapture) outcome() ToggleOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
