package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"delivertrack/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetrics(t *testing.T) (*metrics.Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return metrics.NewWithRegistry(reg, reg), reg
}

func Test_Metrics_ObserverCountsEvents(t *testing.T) {
	m, reg := newMetrics(t)

	m.EventPublished("locationUpdate")
	m.EventPublished("locationUpdate")
	m.EventDropped("locationUpdate")
	m.SubscribersChanged(2)
	m.SubscribersChanged(-1)

	expected := `
# HELP delivertrack_realtime_events_dropped_total Total number of tracking events dropped for slow subscribers
# TYPE delivertrack_realtime_events_dropped_total counter
delivertrack_realtime_events_dropped_total{type="locationUpdate"} 1
# HELP delivertrack_realtime_events_published_total Total number of tracking events published to rooms
# TYPE delivertrack_realtime_events_published_total counter
delivertrack_realtime_events_published_total{type="locationUpdate"} 2
# HELP delivertrack_realtime_subscribers Number of open room subscriptions
# TYPE delivertrack_realtime_subscribers gauge
delivertrack_realtime_subscribers 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"delivertrack_realtime_events_dropped_total",
		"delivertrack_realtime_events_published_total",
		"delivertrack_realtime_subscribers",
	)
	assert.NoError(t, err)
}

func Test_Metrics_SimulationGauges(t *testing.T) {
	m, reg := newMetrics(t)

	m.SimulationStarted()
	m.SimulationStarted()
	m.SimulationStopped()
	m.SampleSimulated()

	expected := `
# HELP delivertrack_location_simulated_samples_total Total number of simulated location samples recorded
# TYPE delivertrack_location_simulated_samples_total counter
delivertrack_location_simulated_samples_total 1
# HELP delivertrack_location_simulations_running Number of running location simulations
# TYPE delivertrack_location_simulations_running gauge
delivertrack_location_simulations_running 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"delivertrack_location_simulated_samples_total",
		"delivertrack_location_simulations_running",
	)
	assert.NoError(t, err)
}

func Test_Metrics_MiddlewareRecordsRouteAndStatus(t *testing.T) {
	m, reg := newMetrics(t)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/v1/orders/:orderId", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot)
	})

	for _, target := range []string{"/api/v1/orders/ord-1", "/api/v1/orders/ord-2", "/boom"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	}

	expected := `
# HELP delivertrack_http_requests_total Total number of HTTP requests
# TYPE delivertrack_http_requests_total counter
delivertrack_http_requests_total{method="GET",route="/api/v1/orders/:orderId",status="204"} 2
delivertrack_http_requests_total{method="GET",route="/boom",status="418"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "delivertrack_http_requests_total")
	assert.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "delivertrack_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func Test_Metrics_HandlerServesExposition(t *testing.T) {
	m := metrics.New()
	m.EventPublished("deliveryStatusChange")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `delivertrack_realtime_events_published_total{type="deliveryStatusChange"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
