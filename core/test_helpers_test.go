package core

import (
	"context"
	"sync"
)

type capturedCounter struct {
	name  string
	value int64
	tags  map[string]string
}

type capturedHistogram struct {
	name  string
	value float64
	tags  map[string]string
}

type captureMetricsRecorder struct {
	mu         sync.Mutex
	counters   []capturedCounter
	histograms []capturedHistogram
}

func (m *captureMetricsRecorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, capturedCounter{name: name, value: value, tags: cloneTags(tags)})
}

func (m *captureMetricsRecorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms = append(m.histograms, capturedHistogram{name: name, value: value, tags: cloneTags(tags)})
}

func (m *captureMetricsRecorder) hasCounter(name string, status string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, counter := range m.counters {
		if counter.name == name && counter.tags["status"] == status {
			return true
		}
	}
	return false
}

// counterTags returns the tags of the first counter recorded under name.
func (m *captureMetricsRecorder) counterTags(name string) (map[string]string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, counter := range m.counters {
		if counter.name == name {
			return cloneTags(counter.tags), true
		}
	}
	return nil, false
}

type capturedLog struct {
	level  string
	msg    string
	fields map[string]any
}

type captureLogger struct {
	mu       *sync.Mutex
	records  *[]capturedLog
	defaults map[string]any
}

func newCaptureLogger() *captureLogger {
	records := []capturedLog{}
	return &captureLogger{mu: &sync.Mutex{}, records: &records, defaults: map[string]any{}}
}

func (l *captureLogger) WithFields(fields map[string]any) Logger {
	merged := cloneFields(l.defaults)
	for key, value := range fields {
		merged[key] = value
	}
	return &captureLogger{mu: l.mu, records: l.records, defaults: merged}
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *captureLogger) WithContext(context.Context) Logger {
	return &captureLogger{mu: l.mu, records: l.records, defaults: cloneFields(l.defaults)}
}

func (l *captureLogger) record(level string, msg string, args ...any) {
	fields := cloneFields(l.defaults)
	for index := 0; index+1 < len(args); index += 2 {
		key, ok := args[index].(string)
		if !ok {
			continue
		}
		fields[key] = args[index+1]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.records = append(*l.records, capturedLog{level: level, msg: msg, fields: fields})
}

func (l *captureLogger) snapshot() []capturedLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]capturedLog, len(*l.records))
	copy(out, *l.records)
	return out
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}

type toggleCall struct {
	providerID string
	enabled    bool
}

// fakeHost records toggle calls and plays back scripted results.
type fakeHost struct {
	mu            sync.Mutex
	calls         []toggleCall
	result        ToggleResult
	err           error
	block         chan struct{}
	bgCalls       []WearableIntegration
	bgErr         error
	integrations  []WearableIntegration
	listCallCount int
}

func (h *fakeHost) ToggleIntegration(ctx context.Context, providerID string, enabled bool) (ToggleResult, error) {
	h.mu.Lock()
	h.calls = append(h.calls, toggleCall{providerID: providerID, enabled: enabled})
	block := h.block
	h.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ToggleResult{}, ctx.Err()
		}
	}
	return h.result, h.err
}

func (h *fakeHost) ToggleBackgroundSync(_ context.Context, integration WearableIntegration, _ bool) (WearableIntegration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bgCalls = append(h.bgCalls, integration.Clone())
	if h.bgErr != nil {
		return WearableIntegration{}, h.bgErr
	}
	updated := integration.Clone()
	updated.DisplayName = integration.DisplayName + " (saved)"
	return updated, nil
}

func (h *fakeHost) ListIntegrations(context.Context) ([]WearableIntegration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listCallCount++
	return cloneIntegrations(h.integrations), nil
}

func (h *fakeHost) toggleCalls() []toggleCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]toggleCall, len(h.calls))
	copy(out, h.calls)
	return out
}

// recorder collects callback invocations in order.
type recorder struct {
	mu     sync.Mutex
	events []string
	errors []error
	types  []string
	wanted []bool
	urls   []string
}

func (r *recorder) push(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) callbacks() ToggleCallbacks {
	return ToggleCallbacks{
		OnError: func(err error, providerType string, desired bool) {
			r.mu.Lock()
			r.errors = append(r.errors, err)
			r.types = append(r.types, providerType)
			r.wanted = append(r.wanted, desired)
			r.mu.Unlock()
			r.push("error")
		},
		OnRefreshNeeded: func() { r.push("refresh") },
		OnShowAuthURL: func(url string) {
			r.mu.Lock()
			r.urls = append(r.urls, url)
			r.mu.Unlock()
			r.push("auth_url")
		},
	}
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) count(event string) int {
	total := 0
	for _, item := range r.snapshot() {
		if item == event {
			total++
		}
	}
	return total
}

func fitbitIntegration() WearableIntegration {
	return WearableIntegration{
		ProviderID:         "fitbit-1",
		ProviderType:       "fitbit",
		DisplayName:        "Fitbit",
		SupportedSyncTypes: []SyncType{SyncTypeSteps, SyncTypeSleepAnalysis},
	}
}

func equalStrings(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func displayNames(list []WearableIntegration) []string {
	out := make([]string, len(list))
	for i, item := range list {
		out[i] = item.DisplayName
	}
	return out
}
