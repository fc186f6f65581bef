package core

import (
	"strings"
)

type SyncType string

const (
	SyncTypeBodyMass       SyncType = "bodyMass"
	SyncTypeBodyFat        SyncType = "bodyFatPercentage"
	SyncTypeSleepAnalysis  SyncType = "sleepAnalysis"
	SyncTypeBloodGlucose   SyncType = "bloodGlucose"
	SyncTypeBloodKetones   SyncType = "bloodKetones"
	SyncTypeBloodPressure  SyncType = "bloodPressure"
	SyncTypeHeartRate      SyncType = "heartRate"
	SyncTypeRestingHR      SyncType = "restingHeartRate"
	SyncTypeSteps          SyncType = "steps"
	SyncTypeWorkout        SyncType = "workout"
	SyncTypeActiveCalories SyncType = "activeEnergyBurned"
	SyncTypeNutrition      SyncType = "nutrition"
)

// SyncTypeNone marks a category with no owning provider. It doubles as the id
// of the synthetic "Do not sync" option.
const SyncTypeNone = "none"

type IntegrationStatus string

const (
	IntegrationStatusUnknown            IntegrationStatus = ""
	IntegrationStatusSyncing            IntegrationStatus = "Syncing"
	IntegrationStatusNeedsAuthorization IntegrationStatus = "NeedsAuthorization"
	IntegrationStatusFailure            IntegrationStatus = "Failure"
)

// MetaBackgroundSync is the Meta key carrying the background sync flag.
const MetaBackgroundSync = "backgroundSync"

// WearableIntegration is one provider's integration state for the current user.
type WearableIntegration struct {
	ProviderID         string            `json:"providerId" yaml:"providerId"`
	ProviderType       string            `json:"providerType" yaml:"providerType"`
	DisplayName        string            `json:"displayName" yaml:"displayName"`
	Enabled            bool              `json:"enabled" yaml:"enabled"`
	Status             IntegrationStatus `json:"status,omitempty" yaml:"status,omitempty"`
	SupportedSyncTypes []SyncType        `json:"supportedSyncTypes" yaml:"supportedSyncTypes"`
	SyncTypes          []SyncType        `json:"syncTypes" yaml:"syncTypes"`
	Meta               map[string]any    `json:"meta,omitempty" yaml:"meta,omitempty"`
}

func (w WearableIntegration) Clone() WearableIntegration {
	cloned := w
	cloned.SupportedSyncTypes = append([]SyncType(nil), w.SupportedSyncTypes...)
	cloned.SyncTypes = append([]SyncType(nil), w.SyncTypes...)
	cloned.Meta = copyAnyMap(w.Meta)
	return cloned
}

// ShouldDisplay reports whether the provider participates in sync-type
// resolution: enabled providers and providers waiting on authorization.
func (w WearableIntegration) ShouldDisplay() bool {
	return w.Enabled || w.Status == IntegrationStatusNeedsAuthorization
}

// NeedsAttention is true when the provider needs re-authorization or is
// enabled without any assigned category.
func (w WearableIntegration) NeedsAttention() bool {
	return w.Status == IntegrationStatusNeedsAuthorization || (w.Enabled && len(w.SyncTypes) == 0)
}

func (w WearableIntegration) SupportsSyncType(syncType SyncType) bool {
	for _, supported := range w.SupportedSyncTypes {
		if supported == syncType {
			return true
		}
	}
	return false
}

// BackgroundSync returns the background sync flag and whether the provider
// exposes one at all.
func (w WearableIntegration) BackgroundSync() (enabled bool, supported bool) {
	if w.Meta == nil {
		return false, false
	}
	raw, ok := w.Meta[MetaBackgroundSync]
	if !ok {
		return false, false
	}
	switch typed := raw.(type) {
	case bool:
		return typed, true
	case string:
		return strings.EqualFold(strings.TrimSpace(typed), "true"), true
	default:
		return false, true
	}
}

func (w WearableIntegration) SupportsBackgroundSync() bool {
	_, supported := w.BackgroundSync()
	return supported
}

// SyncTypeSettings maps a category to the id of the provider that owns it, or
// SyncTypeNone.
type SyncTypeSettings map[SyncType]string

func (s SyncTypeSettings) Clone() SyncTypeSettings {
	out := make(SyncTypeSettings, len(s))
	for key, value := range s {
		out[key] = value
	}
	return out
}

type ProviderOption struct {
	ID           string            `json:"id" yaml:"id"`
	DisplayName  string            `json:"displayName" yaml:"displayName"`
	ProviderType string            `json:"providerType,omitempty" yaml:"providerType,omitempty"`
	Enabled      bool              `json:"enabled" yaml:"enabled"`
	Status       IntegrationStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

func (o ProviderOption) IsNone() bool {
	return o.ID == SyncTypeNone
}

type SyncTypeOptions map[SyncType][]ProviderOption

// ToggleResult is returned by the host toggle API. AuthorizationURL is set
// when the provider requires the user to finish an authorization redirect.
type ToggleResult struct {
	AuthorizationURL string `json:"authorizationUrl,omitempty"`
}

func cloneIntegrations(list []WearableIntegration) []WearableIntegration {
	if list == nil {
		return nil
	}
	out := make([]WearableIntegration, len(list))
	for i, item := range list {
		out[i] = item.Clone()
	}
	return out
}

func copyAnyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
