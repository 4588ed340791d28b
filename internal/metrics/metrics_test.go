package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationEmittedCountsDrops(t *testing.T) {
	m := New()

	m.NotificationEmitted("new_comment", "user", 2)
	m.NotificationEmitted("new_comment", "user", 0)

	emitted := testutil.ToFloat64(m.notificationsEmitted.WithLabelValues("new_comment", "user"))
	dropped := testutil.ToFloat64(m.notificationsDropped.WithLabelValues("user"))
	assert.Equal(t, 2.0, emitted)
	assert.Equal(t, 1.0, dropped)
}

func TestConnectionGauge(t *testing.T) {
	m := New()

	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.connectionsActive))
}

func TestHandlerServesTextFormat(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", "/healthz", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "gateway_http_requests_total")
}

func TestObserveHTTPUnmatchedRoute(t *testing.T) {
	m := New()

	m.ObserveHTTP("GET", "", 404, time.Millisecond)

	count := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404"))
	assert.Equal(t, 1.0, count)
}
