package query

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-wearables/core"
)

const (
	TypeListIntegrations     = "wearables.query.integrations.list"
	TypeSanitizeIntegrations = "wearables.query.integrations.sanitize"
	TypeSyncTypeAssignments  = "wearables.query.sync_types.assignments"
	TypeSyncTypeOptions      = "wearables.query.sync_types.options"
)

// ListIntegrationsMessage loads the host list and sanitizes it with the
// engine's configured sort mode.
type ListIntegrationsMessage struct{}

func (ListIntegrationsMessage) Type() string { return TypeListIntegrations }

func (ListIntegrationsMessage) Validate() error { return nil }

type SanitizeIntegrationsMessage struct {
	Integrations []core.WearableIntegration
	LegacySort   bool
}

func (SanitizeIntegrationsMessage) Type() string { return TypeSanitizeIntegrations }

func (m SanitizeIntegrationsMessage) Validate() error {
	return validateIntegrations(m.Integrations)
}

type SyncTypeAssignmentsMessage struct {
	Integrations []core.WearableIntegration
}

func (SyncTypeAssignmentsMessage) Type() string { return TypeSyncTypeAssignments }

func (m SyncTypeAssignmentsMessage) Validate() error {
	return validateIntegrations(m.Integrations)
}

type SyncTypeOptionsMessage struct {
	Integrations []core.WearableIntegration
}

func (SyncTypeOptionsMessage) Type() string { return TypeSyncTypeOptions }

func (m SyncTypeOptionsMessage) Validate() error {
	return validateIntegrations(m.Integrations)
}

func validateIntegrations(list []core.WearableIntegration) error {
	for index, integration := range list {
		if strings.TrimSpace(integration.ProviderID) == "" {
			return queryValidationError(
				fmt.Sprintf("integrations[%d].provider_id", index),
				"provider id is required",
			)
		}
	}
	return nil
}
