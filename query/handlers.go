package query

import (
	"context"

	"github.com/goliatone/go-wearables/core"
)

type IntegrationReader interface {
	ListIntegrations(ctx context.Context) ([]core.WearableIntegration, error)
	SanitizeEHRs(ctx context.Context, list []core.WearableIntegration, legacySort bool) ([]core.WearableIntegration, error)
}

type SyncTypeReader interface {
	ResolveCurrentAssignments(list []core.WearableIntegration) core.SyncTypeSettings
	ResolveOptions(list []core.WearableIntegration) core.SyncTypeOptions
}

type ListIntegrationsQuery struct {
	reader IntegrationReader
}

func NewListIntegrationsQuery(reader IntegrationReader) *ListIntegrationsQuery {
	return &ListIntegrationsQuery{reader: reader}
}

func (q *ListIntegrationsQuery) Query(ctx context.Context, _ ListIntegrationsMessage) ([]core.WearableIntegration, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: integration reader is required")
	}
	return q.reader.ListIntegrations(ctx)
}

type SanitizedIntegrationsQuery struct {
	reader IntegrationReader
}

func NewSanitizedIntegrationsQuery(reader IntegrationReader) *SanitizedIntegrationsQuery {
	return &SanitizedIntegrationsQuery{reader: reader}
}

func (q *SanitizedIntegrationsQuery) Query(
	ctx context.Context,
	msg SanitizeIntegrationsMessage,
) ([]core.WearableIntegration, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: integration reader is required")
	}
	return q.reader.SanitizeEHRs(ctx, msg.Integrations, msg.LegacySort)
}

type SyncTypeAssignmentsQuery struct {
	reader SyncTypeReader
}

func NewSyncTypeAssignmentsQuery(reader SyncTypeReader) *SyncTypeAssignmentsQuery {
	return &SyncTypeAssignmentsQuery{reader: reader}
}

func (q *SyncTypeAssignmentsQuery) Query(_ context.Context, msg SyncTypeAssignmentsMessage) (core.SyncTypeSettings, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: sync type reader is required")
	}
	return q.reader.ResolveCurrentAssignments(msg.Integrations), nil
}

type SyncTypeOptionsQuery struct {
	reader SyncTypeReader
}

func NewSyncTypeOptionsQuery(reader SyncTypeReader) *SyncTypeOptionsQuery {
	return &SyncTypeOptionsQuery{reader: reader}
}

func (q *SyncTypeOptionsQuery) Query(_ context.Context, msg SyncTypeOptionsMessage) (core.SyncTypeOptions, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: sync type reader is required")
	}
	return q.reader.ResolveOptions(msg.Integrations), nil
}
