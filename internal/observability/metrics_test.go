package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	t.Parallel()

	m := NewMetrics("test_restroute")

	require.NotNil(t, m)
	assert.NotNil(t, m.Registry())
}

func TestNewMetricsDefaultNamespace(t *testing.T) {
	t.Parallel()

	m := NewMetrics("")

	require.NotNil(t, m)
}

func TestRecordRequest(t *testing.T) {
	t.Parallel()

	m := NewMetrics("test_record")

	m.RecordRequest("get", "users", 200, 5*time.Millisecond)
	m.RecordRequest("get", "", 404, time.Millisecond)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "test_record_requests_total" {
			found = true
			assert.Len(t, f.GetMetric(), 2)
		}
	}
	assert.True(t, found, "requests_total metric should be registered")
}

func TestActiveRequests(t *testing.T) {
	t.Parallel()

	m := NewMetrics("test_active")

	m.IncrementActiveRequests("get")
	m.IncrementActiveRequests("get")
	m.DecrementActiveRequests("get")

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	for _, f := range families {
		if f.GetName() == "test_active_active_requests" {
			require.Len(t, f.GetMetric(), 1)
			assert.Equal(t, float64(1), f.GetMetric()[0].GetGauge().GetValue())
		}
	}
}

func TestRateLimitHits(t *testing.T) {
	t.Parallel()

	m := NewMetrics("test_ratelimit")

	m.RecordRateLimitHit("crm")
	m.RecordRateLimitHit("crm")

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	for _, f := range families {
		if f.GetName() == "test_ratelimit_rate_limit_hits_total" {
			require.Len(t, f.GetMetric(), 1)
			assert.Equal(t, float64(2), f.GetMetric()[0].GetCounter().GetValue())
		}
	}
}

func TestMetricsHandler(t *testing.T) {
	t.Parallel()

	m := NewMetrics("test_handler")
	m.SetBuildInfo("1.0.0", "abc123", "2026-01-01")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(resp, req)

	assert.Equal(t, 200, resp.Code)
	assert.Contains(t, resp.Body.String(), "test_handler_build_info")
}

func TestRegisterCollector(t *testing.T) {
	t.Parallel()

	m := NewMetrics("test_register")

	extra := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_register_extra_total",
		Help: "extra counter",
	})

	require.NoError(t, m.RegisterCollector(extra))
	assert.Error(t, m.RegisterCollector(extra))
}
