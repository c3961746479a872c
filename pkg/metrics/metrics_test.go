package metrics

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	r := NewRegistry()
	c := r.NewCounter("requests_total", "Total requests", "route", "outcome")

	require.NoError(t, c.Inc("/a", "accepted"))
	require.NoError(t, c.Inc("/a", "accepted"))
	require.NoError(t, c.Inc("/a", "rejected"))

	assert.Equal(t, 2.0, c.Value("/a", "accepted"))
	assert.Equal(t, 1.0, c.Value("/a", "rejected"))
	assert.Equal(t, 0.0, c.Value("/b", "accepted"))
	assert.Len(t, c.Collect(), 2, "Value must not create series")

	err := c.Inc("only-one")
	assert.ErrorIs(t, err, ErrLabelCountMismatch)
}

func TestGauge(t *testing.T) {
	r := NewRegistry()
	g := r.NewGauge("routes_loaded", "Routes")

	require.NoError(t, g.Set(3))
	require.NoError(t, g.Set(5))

	samples := g.Collect()
	require.Len(t, samples, 1)
	assert.Equal(t, 5.0, samples[0].Value)
	assert.Empty(t, samples[0].Labels)
}

func TestHistogram(t *testing.T) {
	r := NewRegistry()
	h := r.NewHistogram("latency_seconds", "Latency", []float64{0.5, 0.1}, "route")

	require.NoError(t, h.Observe(0.05, "/a"))
	require.NoError(t, h.Observe(0.2, "/a"))
	require.NoError(t, h.Observe(3, "/a"))

	got := make(map[string]float64)
	for _, s := range h.Collect() {
		got[s.Name+"|"+s.Labels["le"]] = s.Value
	}
	assert.Equal(t, 1.0, got["latency_seconds_bucket|0.1"])
	assert.Equal(t, 2.0, got["latency_seconds_bucket|0.5"])
	assert.Equal(t, 3.0, got["latency_seconds_bucket|+Inf"])
	assert.Equal(t, 3.0, got["latency_seconds_count|"])
	assert.InDelta(t, 3.25, got["latency_seconds_sum|"], 1e-9)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.NewCounter("dup", "first")
	assert.Panics(t, func() { r.NewGauge("dup", "second") })
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	c := r.NewCounter("hits_total", "Hits with \"quotes\"\nand lines", "path")
	r.NewCounter("unused_total", "Never incremented")
	require.NoError(t, c.Inc(`/a"b`))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Equal(t, "text/plain; version=0.0.4; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "# HELP hits_total Hits with \"quotes\"\\nand lines\n")
	assert.Contains(t, body, "# TYPE hits_total counter\n")
	assert.Contains(t, body, `hits_total{path="/a\"b"} 1`)
	assert.NotContains(t, body, "unused_total")
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		1:      "1",
		0.25:   "0.25",
		1e-4:   "0.0001",
		123456: "123456",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatFloat(in))
	}
}

func TestValidation_ObserveRequest(t *testing.T) {
	v := NewValidation()

	v.ObserveRequest("/api/users", "", time.Millisecond)
	v.ObserveRequest("/api/users", "pattern", time.Millisecond)
	v.ObserveRequest("", "", time.Millisecond)

	assert.Equal(t, 1.0, v.RequestsTotal.Value("/api/users", OutcomeAccepted))
	assert.Equal(t, 1.0, v.RequestsTotal.Value("/api/users", OutcomeRejected))
	assert.Equal(t, 1.0, v.RequestsTotal.Value("none", OutcomeUnmatched))
	assert.Equal(t, 1.0, v.RejectionsTotal.Value("/api/users", "pattern"))

	var out strings.Builder
	require.NoError(t, v.Registry.Write(&out))
	assert.Contains(t, out.String(), `reqguard_validation_duration_seconds_count{route="/api/users"} 2`)
}

func TestConcurrentUpdates(t *testing.T) {
	v := NewValidation()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v.ObserveRequest("/r", "", time.Microsecond)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 5000.0, v.RequestsTotal.Value("/r", OutcomeAccepted))
}
