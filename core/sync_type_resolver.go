package core

import (
	"sort"
	"strings"
)

// ResolveCurrentAssignments computes which visible provider owns each
// category.
//
// When two visible providers claim the same category the later one in list
// order wins, so the result depends on the upstream sort. SyncTypeConflicts
// reports those collisions. Categories supported by some visible provider but
// unclaimed map to SyncTypeNone. Claims the named provider does not support
// are dropped entirely.
func ResolveCurrentAssignments(list []WearableIntegration) SyncTypeSettings {
	settings := SyncTypeSettings{}
	visible := visibleIntegrations(list)

	for _, integration := range visible {
		for _, syncType := range integration.SyncTypes {
			settings[syncType] = integration.ProviderID
		}
	}

	for _, integration := range visible {
		for _, syncType := range integration.SupportedSyncTypes {
			if _, assigned := settings[syncType]; !assigned {
				settings[syncType] = SyncTypeNone
			}
		}
	}

	byID := make(map[string]WearableIntegration, len(visible))
	for _, integration := range visible {
		byID[integration.ProviderID] = integration
	}
	for syncType, providerID := range settings {
		if providerID == SyncTypeNone {
			continue
		}
		owner, ok := byID[providerID]
		if !ok || !owner.SupportsSyncType(syncType) {
			delete(settings, syncType)
		}
	}
	return settings
}

// ResolveOptions lists, per category, the visible providers able to report it
// in list order, followed by a trailing "Do not sync" option.
func ResolveOptions(list []WearableIntegration) SyncTypeOptions {
	options := SyncTypeOptions{}
	for _, integration := range visibleIntegrations(list) {
		for _, syncType := range integration.SupportedSyncTypes {
			options[syncType] = append(options[syncType], ProviderOption{
				ID:           integration.ProviderID,
				DisplayName:  integration.DisplayName,
				ProviderType: integration.ProviderType,
				Enabled:      integration.Enabled,
				Status:       integration.Status,
			})
		}
	}
	for syncType := range options {
		options[syncType] = append(options[syncType], doNotSyncOption())
	}
	return options
}

// SyncTypeConflicts returns the categories claimed by more than one visible
// provider, with the claiming provider ids in list order.
func SyncTypeConflicts(list []WearableIntegration) map[SyncType][]string {
	claims := map[SyncType][]string{}
	for _, integration := range visibleIntegrations(list) {
		for _, syncType := range integration.SyncTypes {
			claims[syncType] = append(claims[syncType], integration.ProviderID)
		}
	}
	for syncType, providers := range claims {
		if len(providers) < 2 {
			delete(claims, syncType)
		}
	}
	return claims
}

// ApplySyncTypeSelection returns a copy of settings with syncType reassigned.
// An empty provider id selects SyncTypeNone.
func ApplySyncTypeSelection(settings SyncTypeSettings, syncType SyncType, providerID string) SyncTypeSettings {
	out := settings.Clone()
	providerID = strings.TrimSpace(providerID)
	if providerID == "" {
		providerID = SyncTypeNone
	}
	out[syncType] = providerID
	return out
}

// SortedSyncTypes returns the keys of a settings or options map in
// ascending order.
func SortedSyncTypes[V any](m map[SyncType]V) []SyncType {
	keys := make([]SyncType, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func visibleIntegrations(list []WearableIntegration) []WearableIntegration {
	out := make([]WearableIntegration, 0, len(list))
	for _, integration := range list {
		if integration.ShouldDisplay() {
			out = append(out, integration)
		}
	}
	return out
}

func doNotSyncOption() ProviderOption {
	return ProviderOption{
		ID:          SyncTypeNone,
		DisplayName: "Do not sync",
		Enabled:     false,
	}
}
