package wearables

import "github.com/goliatone/go-wearables/core"

type Config = core.Config

type Option = core.Option

type Engine = core.Engine

type EngineDependencies = core.EngineDependencies

type WearableIntegration = core.WearableIntegration
type IntegrationStatus = core.IntegrationStatus
type SyncType = core.SyncType
type SyncTypeSettings = core.SyncTypeSettings
type SyncTypeOptions = core.SyncTypeOptions
type ProviderOption = core.ProviderOption
type ToggleResult = core.ToggleResult
type ToggleCallbacks = core.ToggleCallbacks

type LifecycleHandler = core.LifecycleHandler
type LifecycleHook = core.LifecycleHook

type HostAPI = core.HostAPI
type IntegrationLister = core.IntegrationLister
type PermissionRequester = core.PermissionRequester
type PermissionRequesterFunc = core.PermissionRequesterFunc
type SyncTypeNamer = core.SyncTypeNamer
type MetricsRecorder = core.MetricsRecorder

var (
	WithLogger              = core.WithLogger
	WithLoggerProvider      = core.WithLoggerProvider
	WithMetricsRecorder     = core.WithMetricsRecorder
	WithErrorFactory        = core.WithErrorFactory
	WithErrorMapper         = core.WithErrorMapper
	WithConfigProvider      = core.WithConfigProvider
	WithOptionsResolver     = core.WithOptionsResolver
	WithHandlerRegistry     = core.WithHandlerRegistry
	WithHostAPI             = core.WithHostAPI
	WithIntegrationLister   = core.WithIntegrationLister
	WithSyncTypeNamer       = core.WithSyncTypeNamer
	WithPermissionRequester = core.WithPermissionRequester
)

var (
	ErrLifecycleHooksChanged     = core.ErrLifecycleHooksChanged
	ErrHostAPIRequired           = core.ErrHostAPIRequired
	ErrBackgroundSyncUnsupported = core.ErrBackgroundSyncUnsupported
	ErrHandlerPanicked           = core.ErrHandlerPanicked
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	return core.NewEngine(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Engine, error) {
	return core.Setup(cfg, opts...)
}

// SortIntegrations orders list by attention (legacy) or by display name.
func SortIntegrations(list []WearableIntegration, legacy bool) []WearableIntegration {
	return core.SortIntegrations(list, legacy)
}

func ResolveCurrentAssignments(list []WearableIntegration) SyncTypeSettings {
	return core.ResolveCurrentAssignments(list)
}

func ResolveOptions(list []WearableIntegration) SyncTypeOptions {
	return core.ResolveOptions(list)
}
