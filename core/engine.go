package core

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"golang.org/x/text/language"
)

// Engine composes the handler registry, lifecycle coordinator, sync-type
// resolver and toggle controller. Build one per host application and register
// handlers on it during start-up.
type Engine struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	errorFactory    ErrorFactory
	errorMapper     ErrorMapper
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
	registry        *HandlerRegistry
	coordinator     *LifecycleCoordinator
	toggles         *ToggleController
	host            HostAPI
	lister          IntegrationLister
	namer           SyncTypeNamer
	telemetry       telemetry
}

type EngineDependencies struct {
	Logger          Logger
	LoggerProvider  LoggerProvider
	MetricsRecorder MetricsRecorder
	ErrorFactory    ErrorFactory
	ErrorMapper     ErrorMapper
	ConfigProvider  ConfigProvider
	OptionsResolver OptionsResolver
	Registry        *HandlerRegistry
	HostAPI         HostAPI
	Lister          IntegrationLister
	SyncTypeNamer   SyncTypeNamer
}

func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	builder := defaultEngineBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("wearables", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("wearables"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.registry == nil {
		builder.registry = NewHandlerRegistry()
	}
	if builder.namer == nil {
		builder.namer = NewCatalogSyncTypeNamer()
	}
	if builder.lister == nil {
		if lister, ok := builder.host.(IntegrationLister); ok {
			builder.lister = lister
		}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	builder.registry.SetStrict(!finalConfig.Production)
	tel := telemetry{logger: logger, metricsRecorder: builder.metricsRecorder}
	coordinator := NewLifecycleCoordinator(builder.registry, finalConfig.HandlerTimeout())
	toggles := NewToggleController(coordinator, builder.host)
	toggles.toggleTimeout = finalConfig.ToggleTimeout()
	toggles.telemetry = tel
	toggles.mapError = builder.errorMapper
	for providerType, requester := range builder.permissions {
		toggles.RegisterPermissionRequester(providerType, requester)
	}

	return &Engine{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		errorFactory:    builder.errorFactory,
		errorMapper:     builder.errorMapper,
		configProvider:  builder.configProvider,
		optionsResolver: builder.optionsResolver,
		registry:        builder.registry,
		coordinator:     coordinator,
		toggles:         toggles,
		host:            builder.host,
		lister:          builder.lister,
		namer:           builder.namer,
		telemetry:       tel,
	}, nil
}

func Setup(cfg Config, opts ...Option) (*Engine, error) {
	return NewEngine(cfg, opts...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (e *Engine) Config() Config {
	if e == nil {
		return Config{}
	}
	return e.config
}

func (e *Engine) Dependencies() EngineDependencies {
	if e == nil {
		return EngineDependencies{}
	}
	return EngineDependencies{
		Logger:          e.logger,
		LoggerProvider:  e.loggerProvider,
		MetricsRecorder: e.metricsRecorder,
		ErrorFactory:    e.errorFactory,
		ErrorMapper:     e.errorMapper,
		ConfigProvider:  e.configProvider,
		OptionsResolver: e.optionsResolver,
		Registry:        e.registry,
		HostAPI:         e.host,
		Lister:          e.lister,
		SyncTypeNamer:   e.namer,
	}
}

func (e *Engine) Registry() *HandlerRegistry {
	if e == nil {
		return nil
	}
	return e.registry
}

func (e *Engine) Coordinator() *LifecycleCoordinator {
	if e == nil {
		return nil
	}
	return e.coordinator
}

func (e *Engine) ToggleController() *ToggleController {
	if e == nil {
		return nil
	}
	return e.toggles
}

func (e *Engine) RegisterHandler(handler *LifecycleHandler) {
	e.Registry().RegisterHandler(handler)
}

func (e *Engine) DeregisterHandler(handler *LifecycleHandler) {
	e.Registry().DeregisterHandler(handler)
}

func (e *Engine) RegisterHook(hook LifecycleHook) {
	e.Registry().RegisterHook(hook)
}

func (e *Engine) RegisterPermissionRequester(providerType string, requester PermissionRequester) {
	if e == nil {
		return
	}
	e.toggles.RegisterPermissionRequester(providerType, requester)
}

// Activate runs the registered hooks. It is called each time the host mounts
// the integrations surface. An ErrLifecycleHooksChanged failure signals a
// registration ordering bug and is not meant to be recovered from.
func (e *Engine) Activate(ctx context.Context) (err error) {
	if e == nil {
		return nil
	}
	startedAt := time.Now().UTC()
	fields := map[string]any{"hooks": len(e.registry.Hooks())}
	defer func() {
		e.telemetry.observe(ctx, operationActivate, startedAt, err, fields, nil)
	}()
	if err = e.registry.Activate(); err != nil {
		err = e.mapError(err)
		return err
	}
	return nil
}

// OnPreToggle runs the PreToggle hooks on their own. A nil engine has no
// handlers and always succeeds.
func (e *Engine) OnPreToggle(ctx context.Context, integration WearableIntegration, enabling bool) (err error) {
	if e == nil {
		return nil
	}
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"provider_id": integration.ProviderID,
		"enabling":    enabling,
	}
	tags := map[string]string{
		"provider_type": normalizeProviderType(integration.ProviderType),
		"enabling":      strconv.FormatBool(enabling),
	}
	defer func() {
		e.telemetry.observe(ctx, operationPreToggle, startedAt, err, fields, tags)
	}()
	if err = e.coordinator.OnPreToggle(ctx, integration, enabling); err != nil {
		err = e.mapError(err)
		return err
	}
	return nil
}

func (e *Engine) OnPostToggle(ctx context.Context, integration WearableIntegration) (err error) {
	if e == nil {
		return nil
	}
	startedAt := time.Now().UTC()
	fields := map[string]any{"provider_id": integration.ProviderID}
	tags := map[string]string{"provider_type": normalizeProviderType(integration.ProviderType)}
	defer func() {
		e.telemetry.observe(ctx, operationPostToggle, startedAt, err, fields, tags)
	}()
	if err = e.coordinator.OnPostToggle(ctx, integration); err != nil {
		err = e.mapError(err)
		return err
	}
	return nil
}

// SanitizeEHRs runs list through the handler pipeline and sorts it. The
// input is left untouched. A nil engine only sorts.
func (e *Engine) SanitizeEHRs(
	ctx context.Context,
	list []WearableIntegration,
	legacySort bool,
) (out []WearableIntegration, err error) {
	if e == nil {
		var coordinator *LifecycleCoordinator
		return coordinator.SanitizeEHRs(ctx, list, legacySort)
	}
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"input_count": len(list),
		"legacy_sort": legacySort,
	}
	defer func() {
		fields["output_count"] = len(out)
		e.telemetry.observe(ctx, operationSanitize, startedAt, err, fields, map[string]string{
			"legacy_sort": strconv.FormatBool(legacySort),
		})
	}()
	out, err = e.coordinator.SanitizeEHRs(ctx, list, legacySort)
	if err != nil {
		err = e.mapError(err)
		return nil, err
	}
	return out, nil
}

// ListIntegrations fetches the host list and sanitizes it with the
// configured sort mode.
func (e *Engine) ListIntegrations(ctx context.Context) ([]WearableIntegration, error) {
	if e == nil || e.lister == nil {
		return nil, e.mapError(fmt.Errorf("core: integration lister is required"))
	}
	raw, err := e.lister.ListIntegrations(ctx)
	if err != nil {
		return nil, e.mapError(err)
	}
	return e.SanitizeEHRs(ctx, raw, e.config.LegacySort)
}

func (e *Engine) ResolveCurrentAssignments(list []WearableIntegration) SyncTypeSettings {
	return ResolveCurrentAssignments(list)
}

func (e *Engine) ResolveOptions(list []WearableIntegration) SyncTypeOptions {
	return ResolveOptions(list)
}

func (e *Engine) SyncTypeDisplayName(tag language.Tag, syncType SyncType) string {
	if e == nil || e.namer == nil {
		return humanizeSyncType(syncType)
	}
	return e.namer.DisplayName(tag, syncType)
}

func (e *Engine) PerformToggle(
	ctx context.Context,
	integration WearableIntegration,
	desiredEnabled bool,
	callbacks ToggleCallbacks,
) error {
	if e == nil {
		return ErrHostAPIRequired
	}
	return e.toggles.PerformToggle(ctx, integration, desiredEnabled, callbacks)
}

func (e *Engine) PerformBackgroundSyncToggle(
	ctx context.Context,
	integration WearableIntegration,
	enabled bool,
	callbacks ToggleCallbacks,
) (WearableIntegration, error) {
	if e == nil {
		return integration, ErrHostAPIRequired
	}
	return e.toggles.PerformBackgroundSyncToggle(ctx, integration, enabled, callbacks)
}

func (e *Engine) mapError(err error) error {
	if err == nil {
		return nil
	}
	if e == nil || e.errorMapper == nil {
		return err
	}
	mapped := e.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}
