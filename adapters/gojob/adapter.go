package gojob

import (
	"context"
	"fmt"
	"strings"
	"time"

	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	"github.com/goliatone/go-job/queue/worker"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-wearables/core"
)

const (
	JobIDRefresh      = "wearables.integrations.refresh"
	ScriptPathRefresh = "wearables/integrations/refresh"

	paramProviderID   = "provider_id"
	paramProviderType = "provider_type"
	paramReason       = "reason"
	paramRequestedAt  = "requested_at"
)

// RefreshRequest asks a worker to reload the integration list after a
// toggle attempt.
type RefreshRequest struct {
	ProviderID   string
	ProviderType string
	Reason       string
	RequestedAt  time.Time
}

// IdempotencyKey collapses repeated refreshes for the same provider and
// reason into a single job.
func (r RefreshRequest) IdempotencyKey() string {
	providerID := strings.TrimSpace(r.ProviderID)
	if providerID == "" {
		providerID = "all"
	}
	reason := strings.TrimSpace(r.Reason)
	if reason == "" {
		reason = "toggle"
	}
	return JobIDRefresh + ":" + providerID + ":" + reason
}

func ToExecutionMessage(req RefreshRequest) *job.ExecutionMessage {
	requestedAt := req.RequestedAt
	if requestedAt.IsZero() {
		requestedAt = time.Now().UTC()
	}
	return &job.ExecutionMessage{
		JobID:      JobIDRefresh,
		ScriptPath: ScriptPathRefresh,
		Parameters: map[string]any{
			paramProviderID:   strings.TrimSpace(req.ProviderID),
			paramProviderType: strings.TrimSpace(req.ProviderType),
			paramReason:       strings.TrimSpace(req.Reason),
			paramRequestedAt:  requestedAt.Format(time.RFC3339Nano),
		},
		IdempotencyKey: req.IdempotencyKey(),
		DedupPolicy:    job.DeduplicationPolicy("drop"),
	}
}

func FromExecutionMessage(msg *job.ExecutionMessage) (RefreshRequest, error) {
	if msg == nil {
		return RefreshRequest{}, fmt.Errorf("gojob: execution message is required")
	}
	if strings.TrimSpace(msg.JobID) != JobIDRefresh {
		return RefreshRequest{}, fmt.Errorf("gojob: unexpected job id %q", msg.JobID)
	}
	req := RefreshRequest{
		ProviderID:   stringParam(msg.Parameters, paramProviderID),
		ProviderType: stringParam(msg.Parameters, paramProviderType),
		Reason:       stringParam(msg.Parameters, paramReason),
	}
	if raw := stringParam(msg.Parameters, paramRequestedAt); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return RefreshRequest{}, fmt.Errorf("gojob: invalid requested_at %q: %w", raw, err)
		}
		req.RequestedAt = parsed
	}
	return req, nil
}

// RetryPolicy defines queue retry bounds to avoid unbounded retry loops.
type RetryPolicy struct {
	MaxAttempts     int
	MaxDelay        time.Duration
	DeadLetterOnMax bool
}

// NormalizeAttempt enforces bounded retry behavior for a nack operation.
func (p RetryPolicy) NormalizeAttempt(opts queue.NackOptions, attempt int) queue.NackOptions {
	out := opts
	out.Reason = strings.TrimSpace(out.Reason)
	if out.Delay < 0 {
		out.Delay = 0
	}
	if p.MaxDelay > 0 && out.Delay > p.MaxDelay {
		out.Delay = p.MaxDelay
	}
	if out.DeadLetter {
		out.Requeue = false
	}
	if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
		out.Requeue = false
		if p.DeadLetterOnMax || out.DeadLetter {
			out.DeadLetter = true
		}
	}
	if !out.Requeue && !out.DeadLetter {
		out.Requeue = true
	}
	return out
}

// RefreshEnqueuer publishes refresh jobs on a go-job queue.
type RefreshEnqueuer struct {
	enqueuer queue.Enqueuer
	logger   glog.Logger
}

func NewRefreshEnqueuer(enqueuer queue.Enqueuer, logger glog.Logger) *RefreshEnqueuer {
	return &RefreshEnqueuer{enqueuer: enqueuer, logger: glog.Ensure(logger)}
}

func (e *RefreshEnqueuer) Enqueue(ctx context.Context, req RefreshRequest) error {
	if e == nil || e.enqueuer == nil {
		return fmt.Errorf("gojob: enqueuer is not configured")
	}
	return e.enqueuer.Enqueue(ctx, ToExecutionMessage(req))
}

// RefreshCallback adapts Enqueue to ToggleCallbacks.OnRefreshNeeded. Enqueue
// failures are logged; the toggle workflow has already finished by then.
func (e *RefreshEnqueuer) RefreshCallback(ctx context.Context, integration core.WearableIntegration) func() {
	req := RefreshRequest{
		ProviderID:   integration.ProviderID,
		ProviderType: integration.ProviderType,
		Reason:       "toggle",
	}
	return func() {
		if err := e.Enqueue(ctx, req); err != nil && e != nil {
			e.logger.Warn("refresh enqueue failed", "provider_id", req.ProviderID, "error", err.Error())
		}
	}
}

// Callbacks returns base with OnRefreshNeeded replaced by a refresh job
// publisher. Any existing refresh callback still runs first.
func (e *RefreshEnqueuer) Callbacks(ctx context.Context, integration core.WearableIntegration, base core.ToggleCallbacks) core.ToggleCallbacks {
	enqueue := e.RefreshCallback(ctx, integration)
	previous := base.OnRefreshNeeded
	base.OnRefreshNeeded = func() {
		if previous != nil {
			previous()
		}
		enqueue()
	}
	return base
}

// RefreshHandler reloads integrations for a dequeued refresh request.
type RefreshHandler func(ctx context.Context, req RefreshRequest) error

// RefreshWorker drains refresh jobs one delivery at a time.
type RefreshWorker struct {
	dequeuer queue.Dequeuer
	handler  RefreshHandler
	policy   RetryPolicy
	hook     worker.Hook
}

func NewRefreshWorker(dequeuer queue.Dequeuer, handler RefreshHandler, policy RetryPolicy, hook worker.Hook) *RefreshWorker {
	return &RefreshWorker{dequeuer: dequeuer, handler: handler, policy: policy, hook: hook}
}

// ListerRefreshHandler reloads the list through lister. Pair it with a
// caching lister so each refresh job repopulates the cache.
func ListerRefreshHandler(lister core.IntegrationLister) RefreshHandler {
	return func(ctx context.Context, _ RefreshRequest) error {
		if lister == nil {
			return fmt.Errorf("gojob: integration lister is required")
		}
		_, err := lister.ListIntegrations(ctx)
		return err
	}
}

// ProcessNext dequeues one delivery, runs the handler, and acks or nacks it.
// attempt is the delivery attempt number used for retry bounds.
func (w *RefreshWorker) ProcessNext(ctx context.Context, attempt int) error {
	if w == nil || w.dequeuer == nil || w.handler == nil {
		return fmt.Errorf("gojob: refresh worker is not configured")
	}
	delivery, err := w.dequeuer.Dequeue(ctx)
	if err != nil {
		return err
	}
	message := delivery.Message()
	event := worker.Event{
		Message:   message,
		Delivery:  delivery,
		Attempt:   attempt,
		StartedAt: time.Now().UTC(),
	}
	w.emit(ctx, "start", event)

	req, err := FromExecutionMessage(message)
	if err == nil {
		err = w.handler(ctx, req)
	}
	event.Duration = time.Since(event.StartedAt)
	if err == nil {
		w.emit(ctx, "success", event)
		return delivery.Ack(ctx)
	}

	event.Err = err
	opts := w.policy.NormalizeAttempt(queue.NackOptions{
		Requeue: true,
		Delay:   time.Duration(attempt) * time.Second,
		Reason:  err.Error(),
	}, attempt)
	event.Delay = opts.Delay
	if opts.Requeue {
		w.emit(ctx, "retry", event)
	} else {
		w.emit(ctx, "failure", event)
	}
	if nackErr := delivery.Nack(ctx, opts); nackErr != nil {
		return nackErr
	}
	return err
}

func (w *RefreshWorker) emit(ctx context.Context, kind string, event worker.Event) {
	if w.hook == nil {
		return
	}
	switch kind {
	case "start":
		w.hook.OnStart(ctx, event)
	case "success":
		w.hook.OnSuccess(ctx, event)
	case "retry":
		w.hook.OnRetry(ctx, event)
	default:
		w.hook.OnFailure(ctx, event)
	}
}

func stringParam(params map[string]any, key string) string {
	if params == nil {
		return ""
	}
	value, ok := params[key]
	if !ok || value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}
