package core

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// LifecycleCoordinator fans lifecycle calls out to the registered handlers.
type LifecycleCoordinator struct {
	registry       *HandlerRegistry
	handlerTimeout time.Duration
}

func NewLifecycleCoordinator(registry *HandlerRegistry, handlerTimeout time.Duration) *LifecycleCoordinator {
	if registry == nil {
		registry = NewHandlerRegistry()
	}
	if handlerTimeout < 0 {
		handlerTimeout = 0
	}
	return &LifecycleCoordinator{registry: registry, handlerTimeout: handlerTimeout}
}

func (c *LifecycleCoordinator) Registry() *HandlerRegistry {
	if c == nil {
		return nil
	}
	return c.registry
}

// OnPreToggle issues every PreToggle hook before waiting on any of them and
// returns once all have settled. Handler errors propagate.
func (c *LifecycleCoordinator) OnPreToggle(ctx context.Context, integration WearableIntegration, enabling bool) error {
	if c == nil {
		return nil
	}
	var group errgroup.Group
	for _, handler := range c.registry.Handlers() {
		if handler == nil || handler.PreToggle == nil {
			continue
		}
		input := integration.Clone()
		group.Go(func() error {
			_, err := callWithTimeout(ctx, c.handlerTimeout, recoverHandler(func(hctx context.Context) (struct{}, error) {
				return struct{}{}, handler.PreToggle(hctx, input, enabling)
			}))
			if err != nil {
				return fmt.Errorf("core: pre-toggle lifecycle handler %q failed: %w", handlerName(handler), err)
			}
			return nil
		})
	}
	return group.Wait()
}

// OnPostToggle mirrors OnPreToggle for PostToggle hooks.
func (c *LifecycleCoordinator) OnPostToggle(ctx context.Context, integration WearableIntegration) error {
	if c == nil {
		return nil
	}
	var group errgroup.Group
	for _, handler := range c.registry.Handlers() {
		if handler == nil || handler.PostToggle == nil {
			continue
		}
		input := integration.Clone()
		group.Go(func() error {
			_, err := callWithTimeout(ctx, c.handlerTimeout, recoverHandler(func(hctx context.Context) (struct{}, error) {
				return struct{}{}, handler.PostToggle(hctx, input)
			}))
			if err != nil {
				return fmt.Errorf("core: post-toggle lifecycle handler %q failed: %w", handlerName(handler), err)
			}
			return nil
		})
	}
	return group.Wait()
}

// SanitizeEHRs folds a copy of list through every SanitizeEHRs hook in
// registration order, then sorts the result. Each handler sees the output of
// the previous one. The input slice is never modified.
func (c *LifecycleCoordinator) SanitizeEHRs(
	ctx context.Context,
	list []WearableIntegration,
	legacySort bool,
) ([]WearableIntegration, error) {
	current := cloneIntegrations(list)
	if current == nil {
		current = []WearableIntegration{}
	}
	if c != nil {
		for _, handler := range c.registry.Handlers() {
			if handler == nil || handler.SanitizeEHRs == nil {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("core: sanitize pipeline interrupted: %w", err)
			}
			input := current
			next, err := callWithTimeout(ctx, c.handlerTimeout, recoverHandler(func(hctx context.Context) ([]WearableIntegration, error) {
				return handler.SanitizeEHRs(hctx, input)
			}))
			if err != nil {
				return nil, fmt.Errorf("core: sanitize lifecycle handler %q failed: %w", handlerName(handler), err)
			}
			current = next
		}
	}
	return SortIntegrations(current, legacySort), nil
}

// recoverHandler turns a handler panic into an ErrHandlerPanicked error. It
// wraps the innermost call so the recover runs on the goroutine executing the
// handler, whether or not a timeout moved it off the caller's.
func recoverHandler[T any](fn func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (out T, err error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				var zero T
				out = zero
				err = fmt.Errorf("%w: %v", ErrHandlerPanicked, recovered)
			}
		}()
		return fn(ctx)
	}
}

// callWithTimeout runs fn under a bounded context. When timeout is zero fn is
// called inline. A handler that ignores its context is abandoned once the
// deadline passes; its goroutine finishes on its own.
func callWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	bounded, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		value, err := fn(bounded)
		done <- outcome{value: value, err: err}
	}()

	select {
	case result := <-done:
		return result.value, result.err
	case <-bounded.Done():
		var zero T
		return zero, fmt.Errorf("core: call timed out after %s: %w", timeout, bounded.Err())
	}
}
