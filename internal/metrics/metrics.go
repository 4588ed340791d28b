// Package metrics owns the Prometheus collectors for the gateway. Everything
// is registered on an injected registry so tests can use a throwaway one.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the gateway's collectors.
type Metrics struct {
	registry *prometheus.Registry

	connectionsActive    prometheus.Gauge
	usersOnline          prometheus.Gauge
	roomJoins            *prometheus.CounterVec
	roomLeaves           *prometheus.CounterVec
	notificationsEmitted *prometheus.CounterVec
	notificationsDropped *prometheus.CounterVec
	notificationFanout   prometheus.Histogram
	httpRequests         *prometheus.CounterVec
	httpDuration         *prometheus.HistogramVec
}

// New builds the collector set on a fresh registry, including the standard
// Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		connectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gateway_connections_active",
			Help: "Number of open websocket connections.",
		}),
		usersOnline: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gateway_users_online",
			Help: "Number of distinct users with at least one connection.",
		}),
		roomJoins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_room_joins_total",
			Help: "Room join operations, by room kind.",
		}, []string{"kind"}),
		roomLeaves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_room_leaves_total",
			Help: "Room leave operations, by room kind.",
		}, []string{"kind"}),
		notificationsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_notifications_emitted_total",
			Help: "Notifications handed to the fan-out layer, by type and target.",
		}, []string{"type", "target"}),
		notificationsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_notifications_dropped_total",
			Help: "Notifications that reached zero connections, by target.",
		}, []string{"target"}),
		notificationFanout: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gateway_notification_fanout",
			Help:    "Connections reached per emitted notification.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_http_requests_total",
			Help: "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gateway_http_request_duration_seconds",
			Help:    "HTTP request latency, by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler serves the registry in the Prometheus text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ConnectionOpened bumps the live-connection gauge.
func (m *Metrics) ConnectionOpened() { m.connectionsActive.Inc() }

// ConnectionClosed lowers the live-connection gauge.
func (m *Metrics) ConnectionClosed() { m.connectionsActive.Dec() }

// SetUsersOnline records the current distinct-user presence count.
func (m *Metrics) SetUsersOnline(n int) { m.usersOnline.Set(float64(n)) }

// RoomJoined counts one join of a room of the given kind (tenant or user).
func (m *Metrics) RoomJoined(kind string) { m.roomJoins.WithLabelValues(kind).Inc() }

// RoomLeft counts one leave of a room of the given kind.
func (m *Metrics) RoomLeft(kind string) { m.roomLeaves.WithLabelValues(kind).Inc() }

// NotificationEmitted records one dispatched notification and how many
// connections it reached.
func (m *Metrics) NotificationEmitted(typ, target string, reached int) {
	m.notificationsEmitted.WithLabelValues(typ, target).Inc()
	m.notificationFanout.Observe(float64(reached))
	if reached == 0 {
		m.notificationsDropped.WithLabelValues(target).Inc()
	}
}

// ObserveHTTP records one served HTTP request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
