package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
	"golang.org/x/text/language"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// HostAPI is supplied by the embedding application. The host owns the
// authoritative enabled state and persists category assignments.
type HostAPI interface {
	ToggleIntegration(ctx context.Context, providerID string, enabled bool) (ToggleResult, error)
	ToggleBackgroundSync(ctx context.Context, integration WearableIntegration, enabled bool) (WearableIntegration, error)
}

type IntegrationLister interface {
	ListIntegrations(ctx context.Context) ([]WearableIntegration, error)
}

// PermissionRequester asks the platform for consent to read the requested
// categories. Calls are best-effort.
type PermissionRequester interface {
	RequestPermissions(ctx context.Context, providerType string, categories []SyncType) error
}

type PermissionRequesterFunc func(ctx context.Context, providerType string, categories []SyncType) error

func (f PermissionRequesterFunc) RequestPermissions(ctx context.Context, providerType string, categories []SyncType) error {
	if f == nil {
		return nil
	}
	return f(ctx, providerType, categories)
}

type SyncTypeNamer interface {
	DisplayName(tag language.Tag, syncType SyncType) string
}

// LifecycleHandler is a plugin with optional hooks. Nil hooks are skipped.
type LifecycleHandler struct {
	Name         string
	PreToggle    func(ctx context.Context, integration WearableIntegration, enabling bool) error
	PostToggle   func(ctx context.Context, integration WearableIntegration) error
	SanitizeEHRs func(ctx context.Context, list []WearableIntegration) ([]WearableIntegration, error)
}

// LifecycleHook runs once per engine activation.
type LifecycleHook func()

// ToggleCallbacks lets the UI react to a toggle attempt. Nil callbacks are no-ops.
type ToggleCallbacks struct {
	OnError         func(err error, providerType string, desiredEnabled bool)
	OnRefreshNeeded func()
	OnShowAuthURL   func(url string)
}
