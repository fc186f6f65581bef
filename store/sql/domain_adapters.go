package sqlstore

import (
	"strings"
	"time"

	"github.com/goliatone/go-wearables/core"
	"github.com/google/uuid"
)

func newIntegrationRecord(in core.WearableIntegration, now time.Time) *integrationRecord {
	record := &integrationRecord{
		ID:        uuid.NewString(),
		CreatedAt: now,
	}
	record.apply(in, now)
	return record
}

// apply copies the mutable integration fields onto r. The authorization URL
// is host configuration and is left untouched.
func (r *integrationRecord) apply(in core.WearableIntegration, now time.Time) {
	r.ProviderID = strings.TrimSpace(in.ProviderID)
	r.ProviderType = strings.TrimSpace(in.ProviderType)
	r.DisplayName = in.DisplayName
	r.Enabled = in.Enabled
	r.Status = string(in.Status)
	r.SupportedSyncTypes = fromSyncTypes(in.SupportedSyncTypes)
	r.SyncTypes = fromSyncTypes(in.SyncTypes)
	r.Meta = copyAnyMap(in.Meta)
	r.UpdatedAt = now
}

func (r *integrationRecord) toDomain() core.WearableIntegration {
	if r == nil {
		return core.WearableIntegration{}
	}
	integration := core.WearableIntegration{
		ProviderID:         r.ProviderID,
		ProviderType:       r.ProviderType,
		DisplayName:        r.DisplayName,
		Enabled:            r.Enabled,
		Status:             core.IntegrationStatus(r.Status),
		SupportedSyncTypes: toSyncTypes(r.SupportedSyncTypes),
		SyncTypes:          toSyncTypes(r.SyncTypes),
	}
	if len(r.Meta) > 0 {
		integration.Meta = copyAnyMap(r.Meta)
	}
	return integration
}

func fromSyncTypes(in []core.SyncType) []string {
	out := make([]string, 0, len(in))
	for _, syncType := range in {
		out = append(out, string(syncType))
	}
	return out
}

func toSyncTypes(in []string) []core.SyncType {
	if len(in) == 0 {
		return nil
	}
	out := make([]core.SyncType, 0, len(in))
	for _, value := range in {
		out = append(out, core.SyncType(value))
	}
	return out
}

func copyAnyMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
