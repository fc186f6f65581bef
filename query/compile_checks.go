package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-wearables/core"
)

var (
	_ gocmd.Querier[ListIntegrationsMessage, []core.WearableIntegration]     = (*ListIntegrationsQuery)(nil)
	_ gocmd.Querier[SanitizeIntegrationsMessage, []core.WearableIntegration] = (*SanitizedIntegrationsQuery)(nil)
	_ gocmd.Querier[SyncTypeAssignmentsMessage, core.SyncTypeSettings]       = (*SyncTypeAssignmentsQuery)(nil)
	_ gocmd.Querier[SyncTypeOptionsMessage, core.SyncTypeOptions]            = (*SyncTypeOptionsQuery)(nil)
)
