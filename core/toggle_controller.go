package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

type ToggleState string

const (
	ToggleStateIdle                 ToggleState = "idle"
	ToggleStateRequestingPermission ToggleState = "requesting_permission"
	ToggleStatePreToggle            ToggleState = "pre_toggle"
	ToggleStateCallingHost          ToggleState = "calling_host"
	ToggleStatePostToggle           ToggleState = "post_toggle"
	ToggleStateReportingError       ToggleState = "reporting_error"
	ToggleStateRefreshing           ToggleState = "refreshing"
)

// ToggleController drives a single enable/disable attempt for one provider.
// It does not serialize attempts; callers keep the originating control
// disabled while an attempt is in flight.
type ToggleController struct {
	coordinator   *LifecycleCoordinator
	host          HostAPI
	toggleTimeout time.Duration
	telemetry     telemetry
	mapError      ErrorMapper

	mu          sync.RWMutex
	permissions map[string]PermissionRequester
}

func NewToggleController(coordinator *LifecycleCoordinator, host HostAPI) *ToggleController {
	if coordinator == nil {
		coordinator = NewLifecycleCoordinator(nil, 0)
	}
	return &ToggleController{
		coordinator: coordinator,
		host:        host,
		mapError:    defaultErrorMapper,
		permissions: map[string]PermissionRequester{},
	}
}

// RegisterPermissionRequester binds a platform consent capability to a
// provider type. A nil requester removes the binding.
func (c *ToggleController) RegisterPermissionRequester(providerType string, requester PermissionRequester) {
	if c == nil {
		return
	}
	key := normalizeProviderType(providerType)
	if key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if requester == nil {
		delete(c.permissions, key)
		return
	}
	c.permissions[key] = requester
}

func (c *ToggleController) permissionRequester(providerType string) (PermissionRequester, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	requester, ok := c.permissions[normalizeProviderType(providerType)]
	return requester, ok
}

// PerformToggle runs one attempt to set the provider's enabled state.
//
// Host and hook failures never escape: they go to callbacks.OnError and the
// attempt still ends with exactly one OnRefreshNeeded call. The returned error
// only reports input the controller refused before any callback fired.
func (c *ToggleController) PerformToggle(
	ctx context.Context,
	integration WearableIntegration,
	desiredEnabled bool,
	callbacks ToggleCallbacks,
) error {
	if c == nil {
		return ErrHostAPIRequired
	}
	if err := c.validate(integration); err != nil {
		return err
	}

	trace := c.telemetry.traceToggle(ctx, operationToggle, integration, desiredEnabled)
	defer trace.finish()

	if desiredEnabled {
		trace.enter(ToggleStateRequestingPermission)
		c.requestPermissions(ctx, integration, trace)
	}

	trace.enter(ToggleStatePreToggle)
	if err := c.coordinator.OnPreToggle(ctx, integration, desiredEnabled); err != nil {
		c.fail(trace, err, integration.ProviderType, desiredEnabled, callbacks)
		return nil
	}

	trace.enter(ToggleStateCallingHost)
	result, hostErr := callWithTimeout(ctx, c.toggleTimeout, func(hctx context.Context) (ToggleResult, error) {
		return c.host.ToggleIntegration(hctx, integration.ProviderID, desiredEnabled)
	})
	if hostErr != nil {
		c.fail(trace, hostErr, integration.ProviderType, desiredEnabled, callbacks)
		return nil
	}

	if url := strings.TrimSpace(result.AuthorizationURL); url != "" {
		trace.requireAuthorization()
		if callbacks.OnShowAuthURL != nil {
			callbacks.OnShowAuthURL(url)
		}
	}

	trace.enter(ToggleStatePostToggle)
	updated := integration.Clone()
	updated.Enabled = desiredEnabled
	if err := c.coordinator.OnPostToggle(ctx, updated); err != nil {
		c.fail(trace, err, integration.ProviderType, desiredEnabled, callbacks)
		return nil
	}

	c.refresh(trace, callbacks)
	return nil
}

// PerformBackgroundSyncToggle flips Meta[MetaBackgroundSync] on a copy of the
// integration and hands it to the host. The host's record is returned on
// success, the unchanged input on failure. Refresh is always requested.
func (c *ToggleController) PerformBackgroundSyncToggle(
	ctx context.Context,
	integration WearableIntegration,
	enabled bool,
	callbacks ToggleCallbacks,
) (WearableIntegration, error) {
	if c == nil {
		return integration, ErrHostAPIRequired
	}
	if err := c.validate(integration); err != nil {
		return integration, err
	}
	if !integration.SupportsBackgroundSync() {
		return integration, c.mapError(fmt.Errorf("%w: %s", ErrBackgroundSyncUnsupported, integration.ProviderID))
	}

	trace := c.telemetry.traceToggle(ctx, operationToggleBackgroundSync, integration, enabled)
	defer trace.finish()

	local := integration.Clone()
	if local.Meta == nil {
		local.Meta = map[string]any{}
	}
	local.Meta[MetaBackgroundSync] = enabled

	trace.enter(ToggleStateCallingHost)
	updated, err := callWithTimeout(ctx, c.toggleTimeout, func(hctx context.Context) (WearableIntegration, error) {
		return c.host.ToggleBackgroundSync(hctx, local, enabled)
	})
	if err != nil {
		c.fail(trace, err, integration.ProviderType, enabled, callbacks)
		return integration, nil
	}

	c.refresh(trace, callbacks)
	return updated, nil
}

func (c *ToggleController) validate(integration WearableIntegration) error {
	if c.host == nil {
		return c.mapError(ErrHostAPIRequired)
	}
	if strings.TrimSpace(integration.ProviderID) == "" {
		return c.mapError(fmt.Errorf("core: provider id is required"))
	}
	return nil
}

// requestPermissions is best-effort; failures are logged and dropped.
func (c *ToggleController) requestPermissions(ctx context.Context, integration WearableIntegration, trace *toggleTrace) {
	requester, ok := c.permissionRequester(integration.ProviderType)
	if !ok || len(integration.SupportedSyncTypes) == 0 {
		return
	}
	categories := append([]SyncType(nil), integration.SupportedSyncTypes...)
	if err := requester.RequestPermissions(ctx, integration.ProviderType, categories); err != nil {
		trace.warn("permission request failed", err)
	}
}

func (c *ToggleController) fail(
	trace *toggleTrace,
	err error,
	providerType string,
	desiredEnabled bool,
	callbacks ToggleCallbacks,
) {
	trace.fail(err)
	trace.enter(ToggleStateReportingError)
	if callbacks.OnError != nil {
		callbacks.OnError(err, providerType, desiredEnabled)
	}
	c.refresh(trace, callbacks)
}

func (c *ToggleController) refresh(trace *toggleTrace, callbacks ToggleCallbacks) {
	trace.enter(ToggleStateRefreshing)
	if callbacks.OnRefreshNeeded != nil {
		callbacks.OnRefreshNeeded()
	}
	trace.enter(ToggleStateIdle)
}

func normalizeProviderType(providerType string) string {
	return strings.TrimSpace(strings.ToLower(providerType))
}
