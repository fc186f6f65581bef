package wearables

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-wearables/core"
)

// HandlerPack groups lifecycle handlers and hooks contributed by one
// downstream module.
type HandlerPack struct {
	Name     string
	Handlers []*core.LifecycleHandler
	Hooks    []core.LifecycleHook
}

type PermissionPack struct {
	Name         string
	ProviderType string
	Requester    core.PermissionRequester
}

type CommandQueryBundleFactory func(service CommandQueryService) (any, error)

// ExtensionTarget is the registration surface packs are applied to.
// *core.Engine satisfies it.
type ExtensionTarget interface {
	RegisterHandler(handler *core.LifecycleHandler)
	RegisterHook(hook core.LifecycleHook)
	RegisterPermissionRequester(providerType string, requester core.PermissionRequester)
}

type ExtensionHooks struct {
	mu sync.RWMutex

	handlerPacks    map[string]HandlerPack
	permissionPacks map[string]PermissionPack
	bundles         map[string]CommandQueryBundleFactory
}

func NewExtensionHooks() *ExtensionHooks {
	return &ExtensionHooks{
		handlerPacks:    map[string]HandlerPack{},
		permissionPacks: map[string]PermissionPack{},
		bundles:         map[string]CommandQueryBundleFactory{},
	}
}

func (h *ExtensionHooks) RegisterHandlerPack(pack HandlerPack) error {
	if h == nil {
		return fmt.Errorf("wearables: extension hooks are nil")
	}
	name := strings.TrimSpace(pack.Name)
	if name == "" {
		return fmt.Errorf("wearables: handler pack name is required")
	}
	if len(pack.Handlers) == 0 && len(pack.Hooks) == 0 {
		return fmt.Errorf("wearables: handler pack %q has no handlers or hooks", name)
	}
	for _, handler := range pack.Handlers {
		if handler == nil {
			return fmt.Errorf("wearables: handler pack %q contains nil handler", name)
		}
	}
	for _, hook := range pack.Hooks {
		if hook == nil {
			return fmt.Errorf("wearables: handler pack %q contains nil hook", name)
		}
	}

	normalized := HandlerPack{
		Name:     name,
		Handlers: append([]*core.LifecycleHandler(nil), pack.Handlers...),
		Hooks:    append([]core.LifecycleHook(nil), pack.Hooks...),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.handlerPacks[name]; exists {
		return fmt.Errorf("wearables: handler pack %q already registered", name)
	}
	h.handlerPacks[name] = normalized
	return nil
}

func (h *ExtensionHooks) RegisterPermissionPack(pack PermissionPack) error {
	if h == nil {
		return fmt.Errorf("wearables: extension hooks are nil")
	}
	name := strings.TrimSpace(pack.Name)
	providerType := strings.TrimSpace(pack.ProviderType)
	if name == "" {
		return fmt.Errorf("wearables: permission pack name is required")
	}
	if providerType == "" {
		return fmt.Errorf("wearables: permission pack %q provider type is required", name)
	}
	if pack.Requester == nil {
		return fmt.Errorf("wearables: permission pack %q requester is required", name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.permissionPacks[name]; exists {
		return fmt.Errorf("wearables: permission pack %q already registered", name)
	}
	h.permissionPacks[name] = PermissionPack{
		Name:         name,
		ProviderType: providerType,
		Requester:    pack.Requester,
	}
	return nil
}

func (h *ExtensionHooks) RegisterCommandQueryBundle(
	name string,
	factory CommandQueryBundleFactory,
) error {
	if h == nil {
		return fmt.Errorf("wearables: extension hooks are nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("wearables: command/query bundle name is required")
	}
	if factory == nil {
		return fmt.Errorf("wearables: command/query bundle %q factory is required", name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.bundles[name]; exists {
		return fmt.Errorf("wearables: command/query bundle %q already registered", name)
	}
	h.bundles[name] = factory
	return nil
}

// Apply registers every pack on target, handler packs first, each group in
// pack name order. Call it before the first Activate; hooks added after
// that trip the activation check.
func (h *ExtensionHooks) Apply(target ExtensionTarget) error {
	if h == nil {
		return nil
	}
	if target == nil {
		return fmt.Errorf("wearables: extension target is required")
	}
	for _, pack := range h.HandlerPacks() {
		for _, handler := range pack.Handlers {
			target.RegisterHandler(handler)
		}
		for _, hook := range pack.Hooks {
			target.RegisterHook(hook)
		}
	}
	for _, pack := range h.PermissionPacks() {
		target.RegisterPermissionRequester(pack.ProviderType, pack.Requester)
	}
	return nil
}

func (h *ExtensionHooks) BuildCommandQueryBundles(
	service CommandQueryService,
) (map[string]any, error) {
	if h == nil {
		return map[string]any{}, nil
	}
	if service == nil {
		return nil, fmt.Errorf("wearables: command/query service is required")
	}

	h.mu.RLock()
	names := sortedKeys(h.bundles)
	factories := make(map[string]CommandQueryBundleFactory, len(h.bundles))
	for name, factory := range h.bundles {
		factories[name] = factory
	}
	h.mu.RUnlock()

	result := make(map[string]any, len(names))
	for _, name := range names {
		bundle, err := factories[name](service)
		if err != nil {
			return nil, err
		}
		result[name] = bundle
	}
	return result, nil
}

func (h *ExtensionHooks) HandlerPacks() []HandlerPack {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := sortedKeys(h.handlerPacks)
	out := make([]HandlerPack, 0, len(names))
	for _, name := range names {
		pack := h.handlerPacks[name]
		out = append(out, HandlerPack{
			Name:     pack.Name,
			Handlers: append([]*core.LifecycleHandler(nil), pack.Handlers...),
			Hooks:    append([]core.LifecycleHook(nil), pack.Hooks...),
		})
	}
	return out
}

func (h *ExtensionHooks) PermissionPacks() []PermissionPack {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := sortedKeys(h.permissionPacks)
	out := make([]PermissionPack, 0, len(names))
	for _, name := range names {
		out = append(out, h.permissionPacks[name])
	}
	return out
}

func (h *ExtensionHooks) BundleNames() []string {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return sortedKeys(h.bundles)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ ExtensionTarget = (*core.Engine)(nil)
