package slogobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hollowlab/rasterflow/observability"
)

// Observer is an observability.Provider backed by log/slog.
type Observer struct {
	logger  *slog.Logger
	metrics *metricsStore
}

// New creates an Observer configured by the given options.
func New(opts ...Option) *Observer {
	cfg := applyOptions(opts...)

	logger := cfg.logger
	if logger == nil {
		handler := NewHandler(&HandlerOptions{
			Format: cfg.format,
			Level:  cfg.level,
			Output: cfg.output,
			Colors: cfg.colors,
		})
		logger = slog.New(handler)
	}

	return &Observer{
		logger:  logger,
		metrics: newMetricsStore(),
	}
}

// StartSpan starts a new span, logging its start and returning a context
// carrying it.
func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	span := &slogSpan{
		observer:  o,
		name:      name,
		startedAt: time.Now(),
		attrs:     append([]observability.Attribute{}, attrs...),
	}
	o.logger.DebugContext(ctx, "span started: "+name, toSlogArgs(attrs)...)
	return observability.ContextWithSpan(ctx, span), span
}

// Counter returns the named counter, creating it on first use.
func (o *Observer) Counter(name string) observability.Counter {
	return o.metrics.counter(name)
}

// Histogram returns the named histogram, creating it on first use.
func (o *Observer) Histogram(name string) observability.Histogram {
	return o.metrics.histogram(name)
}

func (o *Observer) Trace(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.Log(ctx, slog.LevelDebug-4, msg, toSlogArgs(attrs)...)
}

func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.DebugContext(ctx, msg, toSlogArgs(attrs)...)
}

func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.InfoContext(ctx, msg, toSlogArgs(attrs)...)
}

func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.WarnContext(ctx, msg, toSlogArgs(attrs)...)
}

func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.ErrorContext(ctx, msg, toSlogArgs(attrs)...)
}

func toSlogArgs(attrs []observability.Attribute) []any {
	args := make([]any, 0, len(attrs)*2)
	for _, a := range attrs {
		args = append(args, a.Key, a.Value)
	}
	return args
}

// --- SPAN ---

type slogSpan struct {
	observer    *Observer
	name        string
	startedAt   time.Time
	mu          sync.Mutex
	attrs       []observability.Attribute
	status      observability.StatusCode
	statusDesc  string
	ended       bool
}

func (s *slogSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true
	duration := time.Since(s.startedAt)

	args := toSlogArgs(s.attrs)
	args = append(args, observability.AttrDuration, duration, observability.AttrStatus, s.statusText())
	s.observer.logger.Debug("span ended: "+s.name, args...)
}

func (s *slogSpan) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, attrs...)
}

func (s *slogSpan) SetStatus(code observability.StatusCode, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = code
	s.statusDesc = description
	s.attrs = append(s.attrs,
		observability.String(observability.AttrStatus, s.statusText()),
		observability.String(observability.AttrStatusDescription, description),
	)
}

func (s *slogSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, observability.Error(err))
	s.observer.logger.Error("span error: "+s.name, "error", err.Error())
}

func (s *slogSpan) AddEvent(name string, attrs ...observability.Attribute) {
	s.observer.logger.Debug("span event: "+s.name+"/"+name, toSlogArgs(attrs)...)
}

func (s *slogSpan) statusText() string {
	switch s.status {
	case observability.StatusOK:
		return "ok"
	case observability.StatusError:
		return "error"
	default:
		return "unset"
	}
}

// --- METRICS ---

type metricsStore struct {
	mu         sync.Mutex
	counters   map[string]*slogCounter
	histograms map[string]*slogHistogram
}

func newMetricsStore() *metricsStore {
	return &metricsStore{
		counters:   make(map[string]*slogCounter),
		histograms: make(map[string]*slogHistogram),
	}
}

func (m *metricsStore) counter(name string) *slogCounter {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.counters[name]
	if !ok {
		c = &slogCounter{name: name}
		m.counters[name] = c
	}
	return c
}

func (m *metricsStore) histogram(name string) *slogHistogram {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.histograms[name]
	if !ok {
		h = &slogHistogram{name: name}
		m.histograms[name] = h
	}
	return h
}

type slogCounter struct {
	name  string
	mu    sync.Mutex
	total int64
}

func (c *slogCounter) Add(ctx context.Context, value int64, attrs ...observability.Attribute) {
	c.mu.Lock()
	c.total += value
	total := c.total
	c.mu.Unlock()

	logger := slog.Default()
	if obs := observability.ObserverFromContext(ctx); obs != nil {
		if o, ok := obs.(*Observer); ok {
			logger = o.logger
		}
	}
	args := toSlogArgs(attrs)
	args = append(args, "value", value, "total", total)
	logger.DebugContext(ctx, "counter: "+c.name, args...)
}

type slogHistogram struct {
	name   string
	mu     sync.Mutex
	count  int64
	sum    float64
}

func (h *slogHistogram) Record(ctx context.Context, value float64, attrs ...observability.Attribute) {
	h.mu.Lock()
	h.count++
	h.sum += value
	count := h.count
	h.mu.Unlock()

	logger := slog.Default()
	if obs := observability.ObserverFromContext(ctx); obs != nil {
		if o, ok := obs.(*Observer); ok {
			logger = o.logger
		}
	}
	args := toSlogArgs(attrs)
	args = append(args, "value", value, "count", count)
	logger.DebugContext(ctx, "histogram: "+h.name, args...)
}
