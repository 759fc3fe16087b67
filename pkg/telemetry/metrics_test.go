package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveSource(t *testing.T) {
	m := NewMetrics()

	m.ObserveSource("ctv", 10, 2)
	m.ObserveSource("ctv", 5, 0)
	m.SourceFailed("tiktok")

	assert.Equal(t, 15.0, testutil.ToFloat64(m.rowsAccepted.WithLabelValues("ctv")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rowsRejected.WithLabelValues("ctv")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sourceFailures.WithLabelValues("tiktok")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveSource("ctv", 1, 1)
		m.SourceFailed("ctv")
		m.ObservePipeline(time.Second)
		m.ObserveHTTP(http.MethodGet, "/healthcheck", http.StatusOK, time.Millisecond)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveHTTP(http.MethodGet, "/api/dashboard/data", http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `media_delivery_http_requests_total{method="GET",route="/api/dashboard/data",status="200"} 1`)
}
