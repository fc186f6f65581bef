package core

import (
	"fmt"
	"strings"
	"sync"
)

// HandlerRegistry holds the ordered lifecycle handlers and activation hooks.
// Registration is expected to finish at start-up, before any toggle or
// sanitize call.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers []*LifecycleHandler
	hooks    []LifecycleHook

	// strict enables the hook-count guard on Activate.
	strict             bool
	activated          bool
	hookCountAtStartup int
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make([]*LifecycleHandler, 0),
		hooks:    make([]LifecycleHook, 0),
		strict:   true,
	}
}

func (r *HandlerRegistry) SetStrict(strict bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strict = strict
}

func (r *HandlerRegistry) RegisterHandler(handler *LifecycleHandler) {
	if r == nil || handler == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, handler)
}

// DeregisterHandler removes the first occurrence of handler.
func (r *HandlerRegistry) DeregisterHandler(handler *LifecycleHandler) {
	if r == nil || handler == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, candidate := range r.handlers {
		if candidate == handler {
			r.handlers = append(r.handlers[:i:i], r.handlers[i+1:]...)
			return
		}
	}
}

func (r *HandlerRegistry) RegisterHook(hook LifecycleHook) {
	if r == nil || hook == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, hook)
}

func (r *HandlerRegistry) Handlers() []*LifecycleHandler {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*LifecycleHandler, len(r.handlers))
	copy(out, r.handlers)
	return out
}

func (r *HandlerRegistry) Hooks() []LifecycleHook {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]LifecycleHook, len(r.hooks))
	copy(out, r.hooks)
	return out
}

// Activate runs every registered hook in order. The first activation records
// the hook count; in strict mode a later activation with a different count
// fails with ErrLifecycleHooksChanged and runs nothing.
func (r *HandlerRegistry) Activate() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	if !r.activated {
		r.activated = true
		r.hookCountAtStartup = len(r.hooks)
	} else if r.strict && len(r.hooks) != r.hookCountAtStartup {
		expected, got := r.hookCountAtStartup, len(r.hooks)
		r.mu.Unlock()
		return fmt.Errorf("%w (expected %d, got %d)", ErrLifecycleHooksChanged, expected, got)
	}
	hooks := make([]LifecycleHook, len(r.hooks))
	copy(hooks, r.hooks)
	r.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
	return nil
}

func handlerName(handler *LifecycleHandler) string {
	if handler == nil {
		return "unknown"
	}
	name := strings.TrimSpace(handler.Name)
	if name == "" {
		return "unnamed"
	}
	return name
}
