package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestToggleController_HostFailureReportsOnceAndRefreshes(t *testing.T) {
	failure := errors.New("network unreachable")
	host := &fakeHost{err: failure}
	controller := NewToggleController(nil, host)
	events := &recorder{}

	if err := controller.PerformToggle(context.Background(), fitbitIntegration(), true, events.callbacks()); err != nil {
		t.Fatalf("expected failure to be reported via callbacks, got %v", err)
	}

	if got := events.snapshot(); !equalStrings(got, []string{"error", "refresh"}) {
		t.Fatalf("unexpected callback sequence: %v", got)
	}
	if !errors.Is(events.errors[0], failure) {
		t.Fatalf("expected host error, got %v", events.errors[0])
	}
	if events.types[0] != "fitbit" || !events.wanted[0] {
		t.Fatalf("unexpected error callback args: %s %v", events.types[0], events.wanted[0])
	}
}

func TestToggleController_SuccessShowsAuthURLBeforePostToggle(t *testing.T) {
	host := &fakeHost{result: ToggleResult{AuthorizationURL: "https://auth.example/fitbit"}}
	registry := NewHandlerRegistry()
	events := &recorder{}
	registry.RegisterHandler(&LifecycleHandler{
		Name: "order",
		PreToggle: func(context.Context, WearableIntegration, bool) error {
			events.push("pre")
			return nil
		},
		PostToggle: func(_ context.Context, integration WearableIntegration) error {
			if !integration.Enabled {
				t.Errorf("expected post-toggle to observe desired state")
			}
			events.push("post")
			return nil
		},
	})
	controller := NewToggleController(NewLifecycleCoordinator(registry, 0), host)

	if err := controller.PerformToggle(context.Background(), fitbitIntegration(), true, events.callbacks()); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := events.snapshot(); !equalStrings(got, []string{"pre", "auth_url", "post", "refresh"}) {
		t.Fatalf("unexpected callback sequence: %v", got)
	}
	if events.urls[0] != "https://auth.example/fitbit" {
		t.Fatalf("unexpected auth url %q", events.urls[0])
	}
	calls := host.toggleCalls()
	if len(calls) != 1 || calls[0].providerID != "fitbit-1" || !calls[0].enabled {
		t.Fatalf("unexpected host calls: %+v", calls)
	}
}

func TestToggleController_PreToggleFailureSkipsHost(t *testing.T) {
	host := &fakeHost{}
	registry := NewHandlerRegistry()
	registry.RegisterHandler(&LifecycleHandler{
		Name: "deny",
		PreToggle: func(context.Context, WearableIntegration, bool) error {
			return errors.New("not allowed")
		},
	})
	controller := NewToggleController(NewLifecycleCoordinator(registry, 0), host)
	events := &recorder{}

	_ = controller.PerformToggle(context.Background(), fitbitIntegration(), false, events.callbacks())
	if len(host.toggleCalls()) != 0 {
		t.Fatalf("expected host not to be called")
	}
	if events.count("error") != 1 || events.count("refresh") != 1 {
		t.Fatalf("unexpected callbacks: %v", events.snapshot())
	}
	if events.wanted[0] {
		t.Fatalf("expected desired=false in error callback")
	}
}

func TestToggleController_PostToggleFailureIsReported(t *testing.T) {
	failure := errors.New("post hook failed")
	registry := NewHandlerRegistry()
	registry.RegisterHandler(&LifecycleHandler{
		Name: "post",
		PostToggle: func(context.Context, WearableIntegration) error {
			return failure
		},
	})
	controller := NewToggleController(NewLifecycleCoordinator(registry, 0), &fakeHost{})
	events := &recorder{}

	_ = controller.PerformToggle(context.Background(), fitbitIntegration(), true, events.callbacks())
	if !equalStrings(events.snapshot(), []string{"error", "refresh"}) {
		t.Fatalf("unexpected callbacks: %v", events.snapshot())
	}
	if !errors.Is(events.errors[0], failure) {
		t.Fatalf("expected post hook error, got %v", events.errors[0])
	}
}

func TestToggleController_PermissionFailureIsSuppressed(t *testing.T) {
	host := &fakeHost{}
	controller := NewToggleController(nil, host)
	var requested []SyncType
	controller.RegisterPermissionRequester("Fitbit", PermissionRequesterFunc(
		func(_ context.Context, providerType string, categories []SyncType) error {
			requested = categories
			return errors.New("user declined")
		},
	))
	events := &recorder{}

	if err := controller.PerformToggle(context.Background(), fitbitIntegration(), true, events.callbacks()); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(requested) != 2 {
		t.Fatalf("expected supported categories to be requested, got %v", requested)
	}
	if events.count("error") != 0 || events.count("refresh") != 1 {
		t.Fatalf("unexpected callbacks: %v", events.snapshot())
	}
	if len(host.toggleCalls()) != 1 {
		t.Fatalf("expected host toggle to proceed after permission failure")
	}
}

func TestToggleController_PermissionsOnlyRequestedWhenEnabling(t *testing.T) {
	controller := NewToggleController(nil, &fakeHost{})
	calls := 0
	controller.RegisterPermissionRequester("fitbit", PermissionRequesterFunc(
		func(context.Context, string, []SyncType) error {
			calls++
			return nil
		},
	))
	_ = controller.PerformToggle(context.Background(), fitbitIntegration(), false, ToggleCallbacks{})
	if calls != 0 {
		t.Fatalf("expected no permission request when disabling")
	}

	controller.RegisterPermissionRequester("fitbit", nil)
	_ = controller.PerformToggle(context.Background(), fitbitIntegration(), true, ToggleCallbacks{})
	if calls != 0 {
		t.Fatalf("expected removed requester not to be called")
	}
}

func TestToggleController_RejectsInvalidInput(t *testing.T) {
	events := &recorder{}
	err := NewToggleController(nil, nil).PerformToggle(context.Background(), fitbitIntegration(), true, events.callbacks())
	if !errors.Is(err, ErrHostAPIRequired) {
		t.Fatalf("expected ErrHostAPIRequired, got %v", err)
	}

	integration := fitbitIntegration()
	integration.ProviderID = " "
	err = NewToggleController(nil, &fakeHost{}).PerformToggle(context.Background(), integration, true, events.callbacks())
	if err == nil || !strings.Contains(err.Error(), "provider id is required") {
		t.Fatalf("expected provider id error, got %v", err)
	}
	if len(events.snapshot()) != 0 {
		t.Fatalf("expected no callbacks for rejected input, got %v", events.snapshot())
	}
}

func TestToggleController_HostTimeoutIsReported(t *testing.T) {
	host := &fakeHost{block: make(chan struct{})}
	defer close(host.block)
	controller := NewToggleController(nil, host)
	controller.toggleTimeout = 10 * time.Millisecond
	events := &recorder{}

	_ = controller.PerformToggle(context.Background(), fitbitIntegration(), true, events.callbacks())
	if events.count("error") != 1 || events.count("refresh") != 1 {
		t.Fatalf("unexpected callbacks: %v", events.snapshot())
	}
	if !errors.Is(events.errors[0], context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", events.errors[0])
	}
}

func TestToggleController_NilCallbacksAreSafe(t *testing.T) {
	controller := NewToggleController(nil, &fakeHost{err: errors.New("boom")})
	if err := controller.PerformToggle(context.Background(), fitbitIntegration(), true, ToggleCallbacks{}); err != nil {
		t.Fatalf("toggle: %v", err)
	}
}

func TestToggleController_BackgroundSyncToggle(t *testing.T) {
	host := &fakeHost{}
	controller := NewToggleController(nil, host)
	integration := fitbitIntegration()
	integration.Meta = map[string]any{MetaBackgroundSync: false}
	events := &recorder{}

	updated, err := controller.PerformBackgroundSyncToggle(context.Background(), integration, true, events.callbacks())
	if err != nil {
		t.Fatalf("background toggle: %v", err)
	}
	if enabled, _ := updated.BackgroundSync(); !enabled {
		t.Fatalf("expected host result to carry enabled background sync")
	}
	if updated.DisplayName != "Fitbit (saved)" {
		t.Fatalf("expected host record to be returned, got %q", updated.DisplayName)
	}
	if enabled, _ := integration.BackgroundSync(); enabled {
		t.Fatalf("expected input integration to be untouched")
	}
	if !equalStrings(events.snapshot(), []string{"refresh"}) {
		t.Fatalf("unexpected callbacks: %v", events.snapshot())
	}
}

func TestToggleController_BackgroundSyncFailureReturnsInput(t *testing.T) {
	host := &fakeHost{bgErr: errors.New("save failed")}
	controller := NewToggleController(nil, host)
	integration := fitbitIntegration()
	integration.Meta = map[string]any{MetaBackgroundSync: true}
	events := &recorder{}

	updated, err := controller.PerformBackgroundSyncToggle(context.Background(), integration, false, events.callbacks())
	if err != nil {
		t.Fatalf("expected failure via callbacks, got %v", err)
	}
	if updated.DisplayName != integration.DisplayName {
		t.Fatalf("expected input integration on failure")
	}
	if !equalStrings(events.snapshot(), []string{"error", "refresh"}) {
		t.Fatalf("unexpected callbacks: %v", events.snapshot())
	}
}

func TestToggleController_BackgroundSyncUnsupported(t *testing.T) {
	controller := NewToggleController(nil, &fakeHost{})
	_, err := controller.PerformBackgroundSyncToggle(context.Background(), fitbitIntegration(), true, ToggleCallbacks{})
	if !errors.Is(err, ErrBackgroundSyncUnsupported) {
		t.Fatalf("expected ErrBackgroundSyncUnsupported, got %v", err)
	}
}

func TestToggleController_PanickingHookIsReported(t *testing.T) {
	host := &fakeHost{}
	registry := NewHandlerRegistry()
	registry.RegisterHandler(&LifecycleHandler{
		Name: "exploding",
		PreToggle: func(context.Context, WearableIntegration, bool) error {
			panic("boom")
		},
	})
	controller := NewToggleController(NewLifecycleCoordinator(registry, 0), host)
	events := &recorder{}

	if err := controller.PerformToggle(context.Background(), fitbitIntegration(), true, events.callbacks()); err != nil {
		t.Fatalf("expected panic to be reported via callbacks, got %v", err)
	}
	if !equalStrings(events.snapshot(), []string{"error", "refresh"}) {
		t.Fatalf("unexpected callbacks: %v", events.snapshot())
	}
	if !errors.Is(events.errors[0], ErrHandlerPanicked) {
		t.Fatalf("expected ErrHandlerPanicked, got %v", events.errors[0])
	}
	if len(host.toggleCalls()) != 0 {
		t.Fatalf("expected host not to be called")
	}
}
