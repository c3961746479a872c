package metrics

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrLabelCountMismatch is returned when the number of label values doesn't match the defined labels.
var ErrLabelCountMismatch = errors.New("label count mismatch")

// ErrDuplicateMetric is returned when registering a metric with a name that is already registered.
var ErrDuplicateMetric = errors.New("duplicate metric name")

// atomicFloat64 stores the bits of a float64 for atomic access.
type atomicFloat64 struct {
	bits atomic.Uint64
}

func (a *atomicFloat64) Load() float64 {
	return math.Float64frombits(a.bits.Load())
}

func (a *atomicFloat64) Store(v float64) {
	a.bits.Store(math.Float64bits(v))
}

func (a *atomicFloat64) Add(delta float64) {
	for {
		old := a.bits.Load()
		if a.bits.CompareAndSwap(old, math.Float64bits(math.Float64frombits(old)+delta)) {
			return
		}
	}
}

// MetricType represents the type of a metric.
type MetricType string

const (
	MetricTypeCounter   MetricType = "counter"
	MetricTypeGauge     MetricType = "gauge"
	MetricTypeHistogram MetricType = "histogram"
)

// Metric is the interface implemented by all metric types.
type Metric interface {
	Name() string
	Help() string
	Type() MetricType
	// Collect returns all samples for exposition.
	Collect() []Sample
}

// Sample represents a single metric sample with labels.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// series holds one value per label combination of a metric.
type series[T any] struct {
	name       string
	help       string
	labelNames []string
	newValue   func() *T

	mu     sync.RWMutex
	values map[string]*labeled[T]
}

type labeled[T any] struct {
	labels map[string]string
	value  *T
}

func newSeries[T any](name, help string, labelNames []string, newValue func() *T) *series[T] {
	return &series[T]{
		name:       name,
		help:       help,
		labelNames: labelNames,
		newValue:   newValue,
		values:     make(map[string]*labeled[T]),
	}
}

func (s *series[T]) Name() string { return s.name }
func (s *series[T]) Help() string { return s.help }

// get returns the value for the label values, creating it on first use.
func (s *series[T]) get(values []string) (*T, error) {
	if len(values) != len(s.labelNames) {
		return nil, fmt.Errorf("%w: %s expected %d labels, got %d",
			ErrLabelCountMismatch, s.name, len(s.labelNames), len(values))
	}
	key := strings.Join(values, "\x00")

	s.mu.RLock()
	v, ok := s.values[key]
	s.mu.RUnlock()
	if ok {
		return v.value, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok = s.values[key]; !ok {
		labels := make(map[string]string, len(values))
		for i, name := range s.labelNames {
			labels[name] = values[i]
		}
		v = &labeled[T]{labels: labels, value: s.newValue()}
		s.values[key] = v
	}
	return v.value, nil
}

// each calls fn for every label combination, in sorted label-key order.
func (s *series[T]) each(fn func(labels map[string]string, v *T)) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	entries := make([]*labeled[T], 0, len(keys))
	sort.Strings(keys)
	for _, k := range keys {
		entries = append(entries, s.values[k])
	}
	s.mu.RUnlock()

	for _, e := range entries {
		fn(e.labels, e.value)
	}
}

// Counter is a monotonically increasing metric.
type Counter struct {
	*series[atomicFloat64]
}

func (c *Counter) Type() MetricType { return MetricTypeCounter }

// Inc increments the counter for the label values by 1.
func (c *Counter) Inc(labelValues ...string) error {
	v, err := c.get(labelValues)
	if err != nil {
		return err
	}
	v.Add(1)
	return nil
}

// Value returns the current count for the label values, or 0 if they
// were never incremented.
func (c *Counter) Value(labelValues ...string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.values[strings.Join(labelValues, "\x00")]; ok {
		return v.value.Load()
	}
	return 0
}

func (c *Counter) Collect() []Sample {
	var samples []Sample
	c.each(func(labels map[string]string, v *atomicFloat64) {
		samples = append(samples, Sample{Name: c.name, Labels: labels, Value: v.Load()})
	})
	return samples
}

// Gauge is a metric that can arbitrarily go up and down.
type Gauge struct {
	*series[atomicFloat64]
}

func (g *Gauge) Type() MetricType { return MetricTypeGauge }

// Set sets the gauge for the label values.
func (g *Gauge) Set(value float64, labelValues ...string) error {
	v, err := g.get(labelValues)
	if err != nil {
		return err
	}
	v.Store(value)
	return nil
}

func (g *Gauge) Collect() []Sample {
	var samples []Sample
	g.each(func(labels map[string]string, v *atomicFloat64) {
		samples = append(samples, Sample{Name: g.name, Labels: labels, Value: v.Load()})
	})
	return samples
}

// Histogram tracks the distribution of observed values.
type Histogram struct {
	*series[histogramValue]
	buckets []float64
}

type histogramValue struct {
	counts []atomic.Uint64 // per bucket, not cumulative
	sum    atomicFloat64
	count  atomic.Uint64
}

func (h *Histogram) Type() MetricType { return MetricTypeHistogram }

// Observe records value for the label values.
func (h *Histogram) Observe(value float64, labelValues ...string) error {
	v, err := h.get(labelValues)
	if err != nil {
		return err
	}
	for i, bound := range h.buckets {
		if value <= bound {
			v.counts[i].Add(1)
			break
		}
	}
	v.sum.Add(value)
	v.count.Add(1)
	return nil
}

func (h *Histogram) Collect() []Sample {
	var samples []Sample
	h.each(func(labels map[string]string, v *histogramValue) {
		var cumulative uint64
		for i, bound := range h.buckets {
			cumulative += v.counts[i].Load()
			bucketLabels := make(map[string]string, len(labels)+1)
			for k, val := range labels {
				bucketLabels[k] = val
			}
			bucketLabels["le"] = formatFloat(bound)
			samples = append(samples, Sample{Name: h.name + "_bucket", Labels: bucketLabels, Value: float64(cumulative)})
		}
		samples = append(samples,
			Sample{Name: h.name + "_sum", Labels: labels, Value: v.sum.Load()},
			Sample{Name: h.name + "_count", Labels: labels, Value: float64(v.count.Load())},
		)
	})
	return samples
}

// Registry holds all registered metrics.
type Registry struct {
	mu      sync.RWMutex
	metrics []Metric
	names   map[string]struct{}
}

// NewRegistry creates a new metric registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// NewCounter creates and registers a new counter.
func (r *Registry) NewCounter(name, help string, labels ...string) *Counter {
	c := &Counter{newSeries(name, help, labels, func() *atomicFloat64 { return &atomicFloat64{} })}
	r.register(c)
	return c
}

// NewGauge creates and registers a new gauge.
func (r *Registry) NewGauge(name, help string, labels ...string) *Gauge {
	g := &Gauge{newSeries(name, help, labels, func() *atomicFloat64 { return &atomicFloat64{} })}
	r.register(g)
	return g
}

// NewHistogram creates and registers a new histogram. A +Inf bucket is
// appended when missing.
func (r *Registry) NewHistogram(name, help string, buckets []float64, labels ...string) *Histogram {
	sorted := append([]float64(nil), buckets...)
	sort.Float64s(sorted)
	if len(sorted) == 0 || !math.IsInf(sorted[len(sorted)-1], 1) {
		sorted = append(sorted, math.Inf(1))
	}
	h := &Histogram{buckets: sorted}
	h.series = newSeries(name, help, labels, func() *histogramValue {
		return &histogramValue{counts: make([]atomic.Uint64, len(sorted))}
	})
	r.register(h)
	return h
}

// register panics on a duplicate name, which would produce invalid
// exposition output.
func (r *Registry) register(m Metric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.names[m.Name()]; exists {
		panic(fmt.Sprintf("%s: %s", ErrDuplicateMetric, m.Name()))
	}
	r.names[m.Name()] = struct{}{}
	r.metrics = append(r.metrics, m)
}

// Handler serves all metrics in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_ = r.Write(w)
	})
}

// Write writes all metrics in registration order.
func (r *Registry) Write(w io.Writer) error {
	r.mu.RLock()
	metrics := append([]Metric(nil), r.metrics...)
	r.mu.RUnlock()

	for _, m := range metrics {
		samples := m.Collect()
		if len(samples) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n",
			m.Name(), escape(m.Help(), false), m.Name(), m.Type()); err != nil {
			return err
		}
		for _, s := range samples {
			if _, err := fmt.Fprintf(w, "%s%s %s\n", s.Name, formatLabels(s.Labels), formatFloat(s.Value)); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(escape(labels[k], true))
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func escape(s string, quotes bool) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	if quotes {
		s = strings.ReplaceAll(s, `"`, `\"`)
	}
	return s
}

// DefaultBuckets are histogram buckets for validation latency in seconds.
var DefaultBuckets = []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1}
