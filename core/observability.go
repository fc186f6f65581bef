package core

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	operationActivate             = "activate"
	operationPreToggle            = "pre_toggle"
	operationPostToggle           = "post_toggle"
	operationSanitize             = "sanitize"
	operationToggle               = "toggle"
	operationToggleBackgroundSync = "toggle_background_sync"
)

// Values of the "outcome" tag on toggle metrics.
const (
	toggleOutcomeApplied               = "applied"
	toggleOutcomeAuthorizationRequired = "authorization_required"
	toggleOutcomeFailed                = "failed"
)

type telemetry struct {
	logger          Logger
	metricsRecorder MetricsRecorder
}

// observe records one engine call as wearables.<operation>.total and
// wearables.<operation>.duration_ms. Log fields may carry provider ids;
// tags must stay low cardinality.
func (t telemetry) observe(
	ctx context.Context,
	operation string,
	startedAt time.Time,
	err error,
	fields map[string]any,
	tags map[string]string,
) {
	elapsed := time.Since(startedAt).Milliseconds()
	status := "success"
	if err != nil {
		status = "failure"
	}

	metricTags := cloneTags(tags)
	metricTags["status"] = status
	t.recordCounter(ctx, metricName(operation, "total"), 1, metricTags)
	t.recordHistogram(ctx, metricName(operation, "duration_ms"), float64(elapsed), metricTags)

	logFields := cloneFields(fields)
	logFields["event_type"] = operation
	logFields["status"] = status
	logFields["duration_ms"] = elapsed
	if err != nil {
		logFields["error"] = err.Error()
		t.logWithLevel(ctx, "error", operation+" failed", logFields)
		return
	}
	t.logWithLevel(ctx, "info", operation+" succeeded", logFields)
}

// toggleTrace follows one toggle attempt through the ToggleState machine and
// reports it once, tagged with the outcome and, on failure, the state the
// attempt failed in.
type toggleTrace struct {
	telemetry telemetry
	ctx       context.Context
	operation string
	startedAt time.Time
	fields    map[string]any
	tags      map[string]string

	state         ToggleState
	failedIn      ToggleState
	err           error
	authorization bool
}

func (t telemetry) traceToggle(
	ctx context.Context,
	operation string,
	integration WearableIntegration,
	enabling bool,
) *toggleTrace {
	return &toggleTrace{
		telemetry: t,
		ctx:       ctx,
		operation: operation,
		startedAt: time.Now().UTC(),
		fields: map[string]any{
			"provider_id":   integration.ProviderID,
			"provider_type": integration.ProviderType,
			"enabling":      enabling,
		},
		tags: map[string]string{
			"provider_type": normalizeProviderType(integration.ProviderType),
			"enabling":      strconv.FormatBool(enabling),
		},
		state: ToggleStateIdle,
	}
}

func (tr *toggleTrace) enter(state ToggleState) {
	fields := cloneFields(tr.fields)
	fields["from"] = string(tr.state)
	fields["state"] = string(state)
	tr.state = state
	tr.telemetry.logDebug(tr.ctx, "toggle state changed", fields)
}

// fail remembers the first error and the state it surfaced in.
func (tr *toggleTrace) fail(err error) {
	if tr.err != nil || err == nil {
		return
	}
	tr.err = err
	tr.failedIn = tr.state
}

func (tr *toggleTrace) requireAuthorization() {
	tr.authorization = true
	tr.fields["authorization_redirect"] = true
}

func (tr *toggleTrace) warn(message string, err error) {
	fields := cloneFields(tr.fields)
	fields["state"] = string(tr.state)
	if err != nil {
		fields["error"] = err.Error()
	}
	tr.telemetry.logWarn(tr.ctx, message, fields)
}

func (tr *toggleTrace) outcome() string {
	switch {
	case tr.err != nil:
		return toggleOutcomeFailed
	case tr.authorization:
		return toggleOutcomeAuthorizationRequired
	default:
		return toggleOutcomeApplied
	}
}

func (tr *toggleTrace) finish() {
	tags := cloneTags(tr.tags)
	fields := cloneFields(tr.fields)
	outcome := tr.outcome()
	tags["outcome"] = outcome
	fields["outcome"] = outcome
	if tr.err != nil {
		tags["failed_state"] = string(tr.failedIn)
		fields["failed_state"] = string(tr.failedIn)
	}
	tr.telemetry.observe(tr.ctx, tr.operation, tr.startedAt, tr.err, fields, tags)
}

func (t telemetry) logDebug(ctx context.Context, message string, fields map[string]any) {
	t.logWithLevel(ctx, "debug", message, fields)
}

func (t telemetry) logWarn(ctx context.Context, message string, fields map[string]any) {
	t.logWithLevel(ctx, "warn", message, fields)
}

func (t telemetry) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if t.logger == nil {
		return
	}
	logger := t.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch level {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	case "debug":
		logger.Debug(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func (t telemetry) recordCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if t.metricsRecorder == nil {
		return
	}
	t.metricsRecorder.IncCounter(ctx, name, value, cloneTags(tags))
}

func (t telemetry) recordHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if t.metricsRecorder == nil {
		return
	}
	t.metricsRecorder.ObserveHistogram(ctx, name, value, cloneTags(tags))
}

func metricName(operation string, suffix string) string {
	operation = strings.TrimSpace(operation)
	if operation == "" {
		operation = "unknown"
	}
	return "wearables." + operation + "." + suffix
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

// flattenFields yields key/value pairs in key order for loggers without
// WithFields support.
func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}
