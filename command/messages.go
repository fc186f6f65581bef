package command

import (
	"strings"

	"github.com/goliatone/go-wearables/core"
)

const (
	TypeToggleIntegration    = "wearables.command.integration.toggle"
	TypeToggleBackgroundSync = "wearables.command.integration.background_sync.toggle"
	TypeActivateEngine       = "wearables.command.engine.activate"
)

// ToggleIntegrationMessage asks the engine to enable or disable one provider.
// Callbacks are optional; the command always stores a ToggleOutcome. Only the
// provider id is required, matching the engine.
type ToggleIntegrationMessage struct {
	Integration    core.WearableIntegration
	DesiredEnabled bool
	Callbacks      core.ToggleCallbacks
}

func (ToggleIntegrationMessage) Type() string { return TypeToggleIntegration }

func (m ToggleIntegrationMessage) Validate() error {
	if strings.TrimSpace(m.Integration.ProviderID) == "" {
		return commandValidationError("integration.provider_id", "provider id is required")
	}
	return nil
}

type ToggleBackgroundSyncMessage struct {
	Integration core.WearableIntegration
	Enabled     bool
	Callbacks   core.ToggleCallbacks
}

func (ToggleBackgroundSyncMessage) Type() string { return TypeToggleBackgroundSync }

func (m ToggleBackgroundSyncMessage) Validate() error {
	if strings.TrimSpace(m.Integration.ProviderID) == "" {
		return commandValidationError("integration.provider_id", "provider id is required")
	}
	if !m.Integration.SupportsBackgroundSync() {
		return commandInvalidInputError("command: provider does not expose background sync")
	}
	return nil
}

type ActivateEngineMessage struct{}

func (ActivateEngineMessage) Type() string { return TypeActivateEngine }

func (ActivateEngineMessage) Validate() error { return nil }
